package validator

import (
	"ctchen222/Tic-Tac-Toe-Solo/internal/bot"
	"ctchen222/Tic-Tac-Toe-Solo/internal/game"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Game-specific tags used by the wire messages
	validate.RegisterValidation("starter", func(fl validator.FieldLevel) bool {
		s := game.Starter(fl.Field().String())
		return s == game.StarterPlayer || s == game.StarterBot
	})
	validate.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		d := bot.Difficulty(fl.Field().String())
		return d == bot.DifficultyEasy || d == bot.DifficultyMedium || d == bot.DifficultyHard
	})
}

func GetValidator() *validator.Validate {
	return validate
}
