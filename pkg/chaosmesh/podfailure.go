package chaosmesh

import (
	"time"

	"github.com/chaos-mesh/chaos-mesh/api/v1alpha1"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/kube"
)

// podFailureMargin is added to the fault duration to get the experiment timeout
const podFailureMargin = 10 * time.Second

// NewPodFailureExperiment makes the pod unavailable for the given duration (k8s notation, e.g. 10s, 5m).
// Chaos-mesh replaces the container image with a dummy one and restores it afterwards.
func NewPodFailureExperiment(cluster kube.Cluster, pod types.TargetPod, duration string) (*Experiment, error) {
	timeout, err := experimentTimeout(duration, podFailureMargin)
	if err != nil {
		return nil, err
	}

	podChaos := &v1alpha1.PodChaos{
		TypeMeta:   typeMeta(v1alpha1.KindPodChaos),
		ObjectMeta: objectMeta(pod, experimentName("pod-failure", pod.Name, time.Now())),
		Spec: v1alpha1.PodChaosSpec{
			ContainerSelector: v1alpha1.ContainerSelector{PodSelector: podSelector(pod)},
			Action:            v1alpha1.PodFailureAction,
			Duration:          &duration,
		},
	}
	return newExperiment(cluster, podChaos, timeout), nil
}
