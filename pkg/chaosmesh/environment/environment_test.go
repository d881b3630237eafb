package environment

import (
	"testing"

	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/stretchr/testify/assert"
)

func TestGetENVDefaults(t *testing.T) {
	for _, key := range []string{"EXPERIMENT_NAME", "APP_NAMESPACE", "TOTAL_CHAOS_DURATION", "MEMORY_WORKERS", "MEMORY_SIZE", "CHAOS_MESH_VERSION", "TARGET_POOL_NAME", "STATUS_CHECK_TIMEOUT", "STATUS_CHECK_DELAY"} {
		t.Setenv(key, "")
	}

	details := types.ExperimentDetails{}
	GetENV(&details, "pod-failure")

	assert.Equal(t, "pod-failure", details.ExperimentName)
	assert.Equal(t, "scylla", details.AppNS)
	assert.Equal(t, "30s", details.ChaosDuration)
	assert.Equal(t, 4, details.MemoryWorkers)
	assert.Equal(t, "256MB", details.MemorySize)
	assert.Equal(t, 180, details.Timeout)
	assert.Equal(t, 2, details.Delay)
	assert.Equal(t, chaosmesh.DefaultInstallSettings(), InstallSettings(&details))
}

func TestGetENVOverrides(t *testing.T) {
	t.Setenv("APP_NAMESPACE", "scylla-test")
	t.Setenv("TARGET_POD", "scylla-test-dc1-rack1-0")
	t.Setenv("TOTAL_CHAOS_DURATION", "2m")
	t.Setenv("MEMORY_WORKERS", "8")
	t.Setenv("CHAOS_MESH_VERSION", "2.6.1")
	t.Setenv("TARGET_POOL_NAME", "db-pool")

	details := types.ExperimentDetails{}
	GetENV(&details, "memory-stress")

	assert.Equal(t, "2m", details.ChaosDuration)
	assert.Equal(t, 8, details.MemoryWorkers)
	assert.Equal(t, types.TargetPod{Name: "scylla-test-dc1-rack1-0", Namespace: "scylla-test", Container: "scylla"}, TargetPod(&details))

	settings := InstallSettings(&details)
	assert.Equal(t, "2.6.1", settings.Version)
	assert.Equal(t, "db-pool", settings.TargetPoolName)
	assert.Equal(t, chaosmesh.DefaultAuxiliaryPoolName, settings.AuxiliaryPoolName)
}
