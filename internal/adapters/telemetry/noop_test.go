package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

func TestNoop(t *testing.T) {
	tel := telemetry.NewNoop()

	ctx, v := tel.Record(context.Background(), "copy")
	require.NotNil(t, v)

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, v, fromCtx)

	n, err := v.Stdout().Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	v.Log(domain.LogLevelInfo, "ignored")
	v.Cached()
	v.Complete(nil)
	assert.NoError(t, tel.Close())
}
