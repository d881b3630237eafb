package scylla

import (
	"context"
	"testing"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/clients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

const nodeToolStatus = `Datacenter: us-east-1
=====================
Status=Up/Down
|/ State=Normal/Leaving/Joining/Moving
--  Address     Load       Tokens       Owns    Host ID                               Rack
UN  10.0.1.11   1.31 MB    256          ?       8f3d1f0e-7a4e-4c1b-9d0a-2c5a1b3f4e5d  us-east-1a
UN  10.0.1.12   1.29 MB    256          ?       0b6e2d4c-1f3a-4e5b-8c7d-9a0b1c2d3e4f  us-east-1a
DN  10.0.1.13   1.30 MB    256          ?       5c4b3a2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d  us-east-1a

Datacenter: us-west-2
=====================
Status=Up/Down
|/ State=Normal/Leaving/Joining/Moving
--  Address     Load       Tokens       Owns    Host ID                               Rack
UJ  10.1.1.11   ?          256          ?       7d6c5b4a-3f2e-4d1c-9b0a-8f7e6d5c4b3a  us-west-2a
`

func TestParseNodeToolStatus(t *testing.T) {
	assert.Equal(t, []NodeStatus{
		{State: "UN", Address: "10.0.1.11"},
		{State: "UN", Address: "10.0.1.12"},
		{State: "DN", Address: "10.0.1.13"},
		{State: "UJ", Address: "10.1.1.11"},
	}, ParseNodeToolStatus(nodeToolStatus))

	assert.Empty(t, ParseNodeToolStatus("nodetool: Failed to connect to '127.0.0.1:7199'"))
}

func TestCheckNodeStatuses(t *testing.T) {
	healthy := []NodeStatus{{State: "UN", Address: "10.0.1.11"}, {State: "UN", Address: "10.0.1.12"}}
	assert.NoError(t, CheckNodeStatuses(healthy, 2))
	assert.Error(t, CheckNodeStatuses(healthy, 3))
	assert.Error(t, CheckNodeStatuses(ParseNodeToolStatus(nodeToolStatus), 4))
	assert.Error(t, CheckNodeStatuses(nil, 1))
}

func TestNodeToolStatusCheckFailures(t *testing.T) {
	details := &types.ExperimentDetails{
		AppNS:           "scylla",
		AppLabel:        "app.kubernetes.io/name=scylla",
		TargetPod:       "scylla-0",
		TargetContainer: "scylla",
		Timeout:         1,
		Delay:           1,
	}

	err := NodeToolStatusCheck(context.Background(), details, clients.ClientSets{KubeClient: fake.NewSimpleClientset()})
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrorTypeStatusChecks, cerrors.GetErrorType(err))

	pending := &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "scylla-0", Namespace: "scylla", Labels: map[string]string{"app.kubernetes.io/name": "scylla"}},
		Status:     v1.PodStatus{Phase: v1.PodPending},
	}
	err = NodeToolStatusCheck(context.Background(), details, clients.ClientSets{KubeClient: fake.NewSimpleClientset(pending)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to get the nodetool status")
}
