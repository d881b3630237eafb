package experiment

import (
	"context"

	chaosMeshLIB "github.com/litmuschaos/chaosmesh-runner/chaoslib/chaosmesh/lib"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh"
	experimentEnv "github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/environment"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/clients"
	"github.com/litmuschaos/chaosmesh-runner/pkg/kube"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/litmuschaos/chaosmesh-runner/pkg/scylla"
	"github.com/litmuschaos/chaosmesh-runner/pkg/status"
	"github.com/litmuschaos/chaosmesh-runner/pkg/telemetry"
	"github.com/palantir/stacktrace"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// MemoryStress occupies memory in the database container of the target pod for the chaos duration
func MemoryStress(ctx context.Context, clients clients.ClientSets, cluster kube.Cluster, experimentsDetails *types.ExperimentDetails) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "ExecuteMemoryStress", attribute.String("experiment.name", experimentsDetails.ExperimentName))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := status.SelectTargetPod(ctx, experimentsDetails, clients); err != nil {
		return err
	}

	log.InfoWithValues("[Info]: The application information is as follows", logrus.Fields{
		"Namespace":        experimentsDetails.AppNS,
		"Target Pod":       experimentsDetails.TargetPod,
		"Target Container": experimentsDetails.TargetContainer,
		"Chaos Duration":   experimentsDetails.ChaosDuration,
		"Workers":          experimentsDetails.MemoryWorkers,
		"Size":             experimentsDetails.MemorySize,
		"Time To Reach":    experimentsDetails.TimeToReach,
	})

	// the memory stress is applied by the chaos daemon, it must be schedulable on the target pool
	log.Info("[Status]: Verify that the target node pool is ready (pre-chaos)")
	if err := status.CheckPoolNodeStatus(ctx, experimentsDetails.PoolLabelName, experimentsDetails.TargetPoolName, experimentsDetails.Timeout, experimentsDetails.Delay, clients); err != nil {
		return stacktrace.Propagate(err, "target node pool status check failed")
	}

	log.Info("[Status]: Verify that the AUT (Application Under Test) is running (pre-chaos)")
	if err := status.AUTStatusCheck(ctx, experimentsDetails, clients); err != nil {
		return stacktrace.Propagate(err, "pre-chaos application status check failed")
	}

	experiment, err := chaosmesh.NewMemoryStressExperiment(cluster, experimentEnv.TargetPod(experimentsDetails),
		experimentsDetails.ChaosDuration, experimentsDetails.MemoryWorkers, experimentsDetails.MemorySize, experimentsDetails.TimeToReach)
	if err != nil {
		return err
	}
	installer := chaosmesh.New(cluster, experimentEnv.InstallSettings(experimentsDetails))
	if err := chaosMeshLIB.PrepareChaosMeshExperiment(ctx, installer, experiment); err != nil {
		return stacktrace.Propagate(err, "chaos injection failed")
	}

	log.Info("[Status]: Verify that the AUT (Application Under Test) is running (post-chaos)")
	if err := status.AUTStatusCheck(ctx, experimentsDetails, clients); err != nil {
		return stacktrace.Propagate(err, "post-chaos application status check failed")
	}

	// Checking the status of the ring (post-chaos)
	if experimentsDetails.NodeToolStatusCheck {
		if err := scylla.NodeToolStatusCheck(ctx, experimentsDetails, clients); err != nil {
			return stacktrace.Propagate(err, "post-chaos nodetool status check failed")
		}
	}

	log.Infof("[The End]: %v experiment passed", experimentsDetails.ExperimentName)
	return nil
}
