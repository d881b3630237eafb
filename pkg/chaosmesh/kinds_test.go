package chaosmesh

import (
	"regexp"
	"testing"
	"time"

	"github.com/chaos-mesh/chaos-mesh/api/v1alpha1"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/kube/kubefake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPodFailureTimeout(t *testing.T) {
	for duration, want := range map[string]time.Duration{
		"10s":  20 * time.Second,
		"5m":   310 * time.Second,
		"1h1m": 3670 * time.Second,
	} {
		experiment, err := NewPodFailureExperiment(kubefake.New(), targetPod, duration)
		require.NoError(t, err)
		assert.Equal(t, want, experiment.Timeout(), duration)
		assert.Equal(t, "PodChaos", experiment.Kind())
	}
}

func TestMemoryStressTimeout(t *testing.T) {
	for duration, want := range map[string]time.Duration{
		"10s": 40 * time.Second,
		"2m":  150 * time.Second,
	} {
		experiment, err := NewMemoryStressExperiment(kubefake.New(), targetPod, duration, 2, "25%", "")
		require.NoError(t, err)
		assert.Equal(t, want, experiment.Timeout(), duration)
		assert.Equal(t, "StressChaos", experiment.Kind())
	}
}

func TestInvalidDuration(t *testing.T) {
	_, err := NewPodFailureExperiment(kubefake.New(), targetPod, "ten seconds")
	assert.Error(t, err)
	_, err = NewPodFailureExperiment(kubefake.New(), targetPod, "106752d")
	assert.Error(t, err)
	_, err = NewPodFailureExperiment(kubefake.New(), targetPod, "106751d23h47m16s")
	assert.Error(t, err)
	_, err = NewMemoryStressExperiment(kubefake.New(), targetPod, "106751d23h47m", 1, "256MB", "")
	assert.Error(t, err)
	_, err = NewMemoryStressExperiment(kubefake.New(), targetPod, "", 1, "256MB", "")
	assert.Error(t, err)
}

func TestMemoryStressValidation(t *testing.T) {
	_, err := NewMemoryStressExperiment(kubefake.New(), targetPod, "10s", 0, "256MB", "")
	assert.Error(t, err)
	_, err = NewMemoryStressExperiment(kubefake.New(), targetPod, "10s", 1, "", "")
	assert.Error(t, err)
}

func TestMemoryStressSpec(t *testing.T) {
	experiment, err := NewMemoryStressExperiment(kubefake.New(), targetPod, "30s", 4, "256MB", "10s")
	require.NoError(t, err)

	stressChaos, ok := experiment.resource.(*v1alpha1.StressChaos)
	require.True(t, ok)
	spec := stressChaos.Spec
	require.NotNil(t, spec.Duration)
	assert.Equal(t, "30s", *spec.Duration)
	assert.Equal(t, v1alpha1.OneMode, spec.Mode)
	assert.Equal(t, []string{"scylla"}, spec.ContainerNames)
	require.NotNil(t, spec.Stressors)
	assert.Nil(t, spec.Stressors.CPUStressor)
	assert.Equal(t, &v1alpha1.MemoryStressor{
		Stressor: v1alpha1.Stressor{Workers: 4},
		Size:     "256MB",
		Options:  []string{"-time", "10s"},
	}, spec.Stressors.MemoryStressor)

	withoutRamp, err := NewMemoryStressExperiment(kubefake.New(), types.TargetPod{Name: "scylla-1", Namespace: "scylla", Container: "db"}, "30s", 1, "25%", "")
	require.NoError(t, err)
	withoutRampSpec := withoutRamp.resource.(*v1alpha1.StressChaos).Spec
	assert.Nil(t, withoutRampSpec.Stressors.MemoryStressor.Options)
	assert.Equal(t, []string{"db"}, withoutRampSpec.ContainerNames)
}

func TestExperimentNames(t *testing.T) {
	podFailure, err := NewPodFailureExperiment(kubefake.New(), targetPod, "10s")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^pod-failure-scylla-0-\d{2}-\d{2}\.\d{2}\.\d{2}$`), podFailure.Name())

	memoryStress, err := NewMemoryStressExperiment(kubefake.New(), targetPod, "10s", 1, "256MB", "")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^memory-stress-scylla-0-\d{2}-\d{2}\.\d{2}\.\d{2}$`), memoryStress.Name())

	created := time.Date(2026, 10, 9, 7, 5, 3, 0, time.UTC)
	assert.Equal(t, "pod-failure-scylla-2-09-07.05.03", experimentName("pod-failure", "scylla-2", created))
}
