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

// PodFailure makes the target scylla pod unavailable for the chaos duration
func PodFailure(ctx context.Context, clients clients.ClientSets, cluster kube.Cluster, experimentsDetails *types.ExperimentDetails) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "ExecutePodFailure", attribute.String("experiment.name", experimentsDetails.ExperimentName))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := status.SelectTargetPod(ctx, experimentsDetails, clients); err != nil {
		return err
	}

	//DISPLAY THE APP INFORMATION
	log.InfoWithValues("[Info]: The application information is as follows", logrus.Fields{
		"Namespace":      experimentsDetails.AppNS,
		"Label":          experimentsDetails.AppLabel,
		"Target Pod":     experimentsDetails.TargetPod,
		"Chaos Duration": experimentsDetails.ChaosDuration,
	})

	//PRE-CHAOS APPLICATION STATUS CHECK
	log.Info("[Status]: Verify that the AUT (Application Under Test) is running (pre-chaos)")
	if err := status.AUTStatusCheck(ctx, experimentsDetails, clients); err != nil {
		return stacktrace.Propagate(err, "pre-chaos application status check failed")
	}

	experiment, err := chaosmesh.NewPodFailureExperiment(cluster, experimentEnv.TargetPod(experimentsDetails), experimentsDetails.ChaosDuration)
	if err != nil {
		return err
	}
	installer := chaosmesh.New(cluster, experimentEnv.InstallSettings(experimentsDetails))
	if err := chaosMeshLIB.PrepareChaosMeshExperiment(ctx, installer, experiment); err != nil {
		return stacktrace.Propagate(err, "chaos injection failed")
	}

	//POST-CHAOS APPLICATION STATUS CHECK
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
