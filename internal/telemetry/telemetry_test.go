package telemetry

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Solo/internal/config"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitOtelWithoutCollector(t *testing.T) {
	ctx := context.Background()
	shutdown, err := InitOtel(ctx, config.Telemetry{
		ServiceName:    "tic-tac-toe-solo-test",
		ServiceVersion: "test",
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "span")
	span.End()

	counter, err := otel.Meter("test").Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	require.NoError(t, shutdown(ctx))
}
