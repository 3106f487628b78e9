package planner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLivez(t *testing.T) {
	t.Parallel()

	client := setupServer(t)

	health, err := client.Livez(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
	require.NotEmpty(t, health.Uptime)
}
