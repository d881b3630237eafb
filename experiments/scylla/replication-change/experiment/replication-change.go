package experiment

import (
	"context"

	replicationLIB "github.com/litmuschaos/chaosmesh-runner/chaoslib/scylla/replication-change/lib"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/clients"
	"github.com/litmuschaos/chaosmesh-runner/pkg/cql"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/litmuschaos/chaosmesh-runner/pkg/replication"
	"github.com/litmuschaos/chaosmesh-runner/pkg/status"
	"github.com/litmuschaos/chaosmesh-runner/pkg/telemetry"
	"github.com/litmuschaos/chaosmesh-runner/pkg/utils/common"
	"github.com/palantir/stacktrace"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ReplicationChange changes the replication of the configured keyspaces through the node,
// holds the change and restores the original replication
func ReplicationChange(ctx context.Context, clients clients.ClientSets, node cql.Node, experimentsDetails *types.ExperimentDetails) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "ExecuteReplicationChange", attribute.String("experiment.name", experimentsDetails.ExperimentName))
	defer func() { telemetry.EndSpan(span, err) }()

	assignments, err := replication.ParseAssignments(experimentsDetails.KeyspaceReplication)
	if err != nil {
		return stacktrace.Propagate(err, "invalid KEYSPACE_REPLICATION")
	}
	hold, err := common.ParsePeriod(experimentsDetails.HoldDuration)
	if err != nil {
		return stacktrace.Propagate(err, "invalid HOLD_DURATION")
	}

	log.InfoWithValues("[Info]: The replication change is as follows", logrus.Fields{
		"Namespace":   experimentsDetails.AppNS,
		"Target Pod":  experimentsDetails.TargetPod,
		"Replication": experimentsDetails.KeyspaceReplication,
		"Hold":        hold,
	})

	log.Info("[Status]: Verify that the AUT (Application Under Test) is running (pre-chaos)")
	if err := status.AUTStatusCheck(ctx, experimentsDetails, clients); err != nil {
		return stacktrace.Propagate(err, "pre-chaos application status check failed")
	}

	if err := replicationLIB.PrepareReplicationChange(ctx, node, assignments, hold); err != nil {
		return err
	}

	log.Info("[Status]: Verify that the AUT (Application Under Test) is running (post-chaos)")
	if err := status.AUTStatusCheck(ctx, experimentsDetails, clients); err != nil {
		return stacktrace.Propagate(err, "post-chaos application status check failed")
	}

	log.Infof("[The End]: %v experiment passed", experimentsDetails.ExperimentName)
	return nil
}
