package lib

import (
	"context"

	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/palantir/stacktrace"
	"github.com/sirupsen/logrus"
)

// PrepareChaosMeshExperiment makes sure chaos-mesh is installed, then starts the experiment
// and waits until it ends
func PrepareChaosMeshExperiment(ctx context.Context, installer *chaosmesh.ChaosMesh, experiment *chaosmesh.Experiment) error {
	if !installer.Initialized() {
		if err := installer.Initialize(ctx); err != nil {
			return stacktrace.Propagate(err, "could not install chaos-mesh")
		}
	}
	return InjectChaos(ctx, experiment)
}

// InjectChaos starts the experiment and blocks until it finishes, fails or times out
func InjectChaos(ctx context.Context, experiment *chaosmesh.Experiment) error {
	log.InfoWithValues("[Chaos]: Injecting chaos", logrus.Fields{
		"Kind":    experiment.Kind(),
		"Name":    experiment.Name(),
		"Timeout": experiment.Timeout(),
	})
	if err := experiment.Start(ctx); err != nil {
		return err
	}
	if err := experiment.WaitUntilFinished(ctx); err != nil {
		log.Errorf("[Chaos]: %v experiment did not finish successfully. Search debug log about %v", experiment.Name(), experiment.Name())
		return err
	}
	log.Infof("[Chaos]: %v experiment finished", experiment.Name())
	return nil
}
