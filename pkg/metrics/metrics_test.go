package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	registry := prometheus.NewRegistry()
	require.NoError(t, Register(registry))
	require.NoError(t, Register(registry))

	ExperimentsStarted.WithLabelValues("PodChaos").Inc()
	count, err := testutil.GatherAndCount(registry, "chaosmesh_runner_experiments_started_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
