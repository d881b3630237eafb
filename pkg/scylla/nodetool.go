// Package scylla checks the health of the scylla ring from inside a database pod.
package scylla

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/clients"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	litmusexec "github.com/litmuschaos/chaosmesh-runner/pkg/utils/exec"
	"github.com/litmuschaos/chaosmesh-runner/pkg/utils/retry"
	"github.com/sirupsen/logrus"
)

// NodeUpNormal is the state of a healthy node
const NodeUpNormal = "UN"

var nodeStateRegex = regexp.MustCompile(`^[UD][NLJM]$`)

// NodeStatus is a node line of the `nodetool status` output
type NodeStatus struct {
	State   string
	Address string
}

// NodeToolStatusCheck checks that every application pod is a member of the ring and is up and normal
func NodeToolStatusCheck(ctx context.Context, experimentsDetails *types.ExperimentDetails, clients clients.ClientSets) error {
	podList, err := clients.ListPods(ctx, experimentsDetails.AppNS, experimentsDetails.AppLabel)
	if err != nil || len(podList.Items) == 0 {
		return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{podLabel: %s, namespace: %s}", experimentsDetails.AppLabel, experimentsDetails.AppNS), Reason: "unable to get the application replica count"}
	}
	replicaCount := len(podList.Items)

	log.Info("[Check]: Checking the status of the nodes in the ring")
	attempts := 1
	if experimentsDetails.Delay > 0 && experimentsDetails.Timeout/experimentsDetails.Delay > 1 {
		attempts = experimentsDetails.Timeout / experimentsDetails.Delay
	}
	return retry.
		Times(uint(attempts)).
		Wait(time.Duration(experimentsDetails.Delay) * time.Second).
		TryWithContext(ctx, func(attempt uint) error {
			nodes, err := GetNodeStatuses(ctx, experimentsDetails, clients)
			if err != nil {
				return err
			}
			return CheckNodeStatuses(nodes, replicaCount)
		})
}

// GetNodeStatuses runs `nodetool status` in the target pod
func GetNodeStatuses(ctx context.Context, experimentsDetails *types.ExperimentDetails, clients clients.ClientSets) ([]NodeStatus, error) {
	execCommandDetails := litmusexec.PodDetails{}
	litmusexec.SetExecCommandAttributes(&execCommandDetails, experimentsDetails.TargetPod, experimentsDetails.TargetContainer, experimentsDetails.AppNS)

	output, err := litmusexec.Exec(ctx, &execCommandDetails, clients, []string{"nodetool", "status"})
	if err != nil {
		return nil, cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{podName: %s, namespace: %s}", experimentsDetails.TargetPod, experimentsDetails.AppNS), Reason: fmt.Sprintf("unable to get the nodetool status: %v", err)}
	}
	return ParseNodeToolStatus(output.Stdout), nil
}

// ParseNodeToolStatus returns the node lines of the output, headers and data center titles are skipped
func ParseNodeToolStatus(output string) []NodeStatus {
	var nodes []NodeStatus
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || !nodeStateRegex.MatchString(fields[0]) {
			continue
		}
		nodes = append(nodes, NodeStatus{State: fields[0], Address: fields[1]})
	}
	return nodes
}

// CheckNodeStatuses verifies that the ring has replicaCount nodes, all up and normal
func CheckNodeStatuses(nodes []NodeStatus, replicaCount int) error {
	if len(nodes) != replicaCount {
		return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: "{ring}", Reason: fmt.Sprintf("expected %d nodes in the ring, found %d", replicaCount, len(nodes))}
	}
	for _, node := range nodes {
		if node.State != NodeUpNormal {
			return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{node: %s}", node.Address), Reason: fmt.Sprintf("node is in %s state", node.State)}
		}
		log.InfoWithValues("[Check]: The node status is as follows", logrus.Fields{
			"Address": node.Address, "State": node.State})
	}
	return nil
}
