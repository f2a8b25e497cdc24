package room

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type roomInstruments struct {
	moves         metric.Int64Counter
	clicksIgnored metric.Int64Counter
	gamesFinished metric.Int64Counter
	activeRooms   metric.Int64UpDownCounter
}

var (
	instrumentsOnce sync.Once
	meters          roomInstruments
)

// instruments lazily creates the room metrics on the global meter provider.
// Creation errors leave a no-op instrument in place.
func instruments() *roomInstruments {
	instrumentsOnce.Do(func() {
		meter := otel.Meter("room")
		meters.moves, _ = meter.Int64Counter("tictactoe.moves",
			metric.WithDescription("Accepted moves by side"))
		meters.clicksIgnored, _ = meter.Int64Counter("tictactoe.clicks.ignored",
			metric.WithDescription("Clicks dropped because they were not legal"))
		meters.gamesFinished, _ = meter.Int64Counter("tictactoe.games.finished",
			metric.WithDescription("Finished games by outcome"))
		meters.activeRooms, _ = meter.Int64UpDownCounter("tictactoe.rooms.active",
			metric.WithDescription("Rooms currently open"))
	})
	return &meters
}
