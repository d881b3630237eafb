package chaosmesh

import (
	"time"

	"github.com/chaos-mesh/chaos-mesh/api/v1alpha1"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/kube"
	"github.com/pkg/errors"
)

const (
	// memoryStressMargin is added to the stress duration to get the experiment timeout
	memoryStressMargin = 30 * time.Second
	// DefaultStressContainer is the container stressed when the target pod does not name one
	DefaultStressContainer = "scylla"
)

// NewMemoryStressExperiment stresses the memory of the target pod container with memStress.
//   - duration: how long the stress is applied (k8s notation, e.g. 10s, 5m)
//   - workers: number of threads applying the stress
//   - size: memory occupied per worker, absolute or a percentage of the total memory (e.g. 256MB, 25%)
//   - timeToReach: time to reach the size of allocated memory, empty for immediate allocation
func NewMemoryStressExperiment(cluster kube.Cluster, pod types.TargetPod, duration string, workers int, size, timeToReach string) (*Experiment, error) {
	timeout, err := experimentTimeout(duration, memoryStressMargin)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, errors.Errorf("memory stress needs at least one worker, got %d", workers)
	}
	if size == "" {
		return nil, errors.New("memory stress size is required")
	}

	container := pod.Container
	if container == "" {
		container = DefaultStressContainer
	}

	memoryStressor := &v1alpha1.MemoryStressor{
		Stressor: v1alpha1.Stressor{Workers: workers},
		Size:     size,
	}
	if timeToReach != "" {
		memoryStressor.Options = []string{"-time", timeToReach}
	}

	stressChaos := &v1alpha1.StressChaos{
		TypeMeta:   typeMeta(v1alpha1.KindStressChaos),
		ObjectMeta: objectMeta(pod, experimentName("memory-stress", pod.Name, time.Now())),
		Spec: v1alpha1.StressChaosSpec{
			ContainerSelector: v1alpha1.ContainerSelector{
				PodSelector:    podSelector(pod),
				ContainerNames: []string{container},
			},
			Stressors: &v1alpha1.Stressors{MemoryStressor: memoryStressor},
			Duration:  &duration,
		},
	}
	return newExperiment(cluster, stressChaos, timeout), nil
}
