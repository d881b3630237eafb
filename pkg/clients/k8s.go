package clients

import (
	"context"
	"time"

	core_v1 "k8s.io/api/core/v1"
	v1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/litmuschaos/chaosmesh-runner/pkg/utils/retry"
)

var (
	defaultTimeout = 180
	defaultDelay   = 2
)

// ListPods lists the pods matching the label selector
func (clients *ClientSets) ListPods(ctx context.Context, namespace, labels string) (*core_v1.PodList, error) {
	var (
		pods *core_v1.PodList
		err  error
	)

	if err := retry.
		Times(uint(defaultTimeout / defaultDelay)).
		Wait(time.Duration(defaultDelay) * time.Second).
		TryWithContext(ctx, func(attempt uint) error {
			pods, err = clients.KubeClient.CoreV1().Pods(namespace).List(ctx, v1.ListOptions{
				LabelSelector: labels,
			})
			return err
		}); err != nil {
		return nil, err
	}

	return pods, nil
}
