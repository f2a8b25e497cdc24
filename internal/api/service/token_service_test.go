package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	s := NewTokenService("secret", time.Hour)

	token, err := s.Issue("room-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, s.Verify(token, "room-1"))
	assert.ErrorIs(t, s.Verify(token, "room-2"), ErrInvalidToken)
	assert.ErrorIs(t, s.Verify("garbage", "room-1"), ErrInvalidToken)

	other := NewTokenService("other-secret", time.Hour)
	assert.ErrorIs(t, other.Verify(token, "room-1"), ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	s := NewTokenService("secret", time.Minute).(*jwtTokenService)
	issued := time.Now()
	s.now = func() time.Time { return issued }

	token, err := s.Issue("room-1")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	assert.ErrorIs(t, s.Verify(token, "room-1"), ErrInvalidToken)
}
