package status

import (
	"context"
	"fmt"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/litmuschaos/chaosmesh-runner/pkg/clients"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/sirupsen/logrus"
	apiv1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CheckPoolNodeStatus checks that the node pool labeled poolLabel=poolName has at least one node
// and that all its nodes are ready. The chaos-mesh components are pinned to these pools.
func CheckPoolNodeStatus(ctx context.Context, poolLabel, poolName string, timeout, delay int, clients clients.ClientSets) error {
	selector := fmt.Sprintf("%s=%s", poolLabel, poolName)
	return retryModel(timeout, delay).
		TryWithContext(ctx, func(attempt uint) error {
			nodeList, err := clients.KubeClient.CoreV1().Nodes().List(ctx, metav1.ListOptions{LabelSelector: selector})
			if err != nil {
				return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{nodePool: %s}", poolName), Reason: fmt.Sprintf("failed to list the pool nodes: %s", err.Error())}
			}
			if len(nodeList.Items) == 0 {
				return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{nodePool: %s}", poolName), Reason: fmt.Sprintf("no node labeled %s", selector)}
			}
			for _, node := range nodeList.Items {
				if !isNodeReady(node) {
					return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{nodeName: %s}", node.Name), Reason: "node is not in ready state"}
				}
				log.InfoWithValues("[Status]: The Node status are as follows", logrus.Fields{
					"Node": node.Name, "Pool": poolName, "Ready": true})
			}
			return nil
		})
}

func isNodeReady(node apiv1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == apiv1.NodeReady {
			return condition.Status == apiv1.ConditionTrue
		}
	}
	return false
}
