package chaosmesh

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/chaos-mesh/chaos-mesh/api/v1alpha1"
	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/kube"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/litmuschaos/chaosmesh-runner/pkg/metrics"
	"github.com/litmuschaos/chaosmesh-runner/pkg/telemetry"
	"github.com/litmuschaos/chaosmesh-runner/pkg/utils/common"
	"github.com/palantir/stacktrace"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"
)

// PollInterval is the delay between two status checks while waiting for an experiment
const PollInterval = 2 * time.Second

// chaosResource is the chaos-mesh object submitted to the cluster
type chaosResource interface {
	metav1.Object
	runtime.Object
}

// Experiment is a chaos-mesh experiment targeting a single statefulset pod
type Experiment struct {
	cluster  kube.Cluster
	resource chaosResource
	timeout  time.Duration
	endTime  time.Time

	pollInterval time.Duration
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
}

func newExperiment(cluster kube.Cluster, resource chaosResource, timeout time.Duration) *Experiment {
	return &Experiment{
		cluster:      cluster,
		resource:     resource,
		timeout:      timeout,
		pollInterval: PollInterval,
		now:          time.Now,
		sleep:        sleepContext,
	}
}

func typeMeta(kind string) metav1.TypeMeta {
	return metav1.TypeMeta{APIVersion: v1alpha1.GroupVersion.String(), Kind: kind}
}

func objectMeta(pod types.TargetPod, name string) metav1.ObjectMeta {
	return metav1.ObjectMeta{Name: name, Namespace: pod.Namespace}
}

// podSelector selects exactly the target pod of the statefulset
func podSelector(pod types.TargetPod) v1alpha1.PodSelector {
	return v1alpha1.PodSelector{
		Mode: v1alpha1.OneMode,
		Selector: v1alpha1.PodSelectorSpec{
			GenericSelectorSpec: v1alpha1.GenericSelectorSpec{
				LabelSelectors: map[string]string{types.PodNameLabel: pod.Name},
			},
		},
	}
}

// experimentTimeout adds the margin to the fault duration, the sum must fit a time.Duration
func experimentTimeout(duration string, margin time.Duration) (time.Duration, error) {
	period, err := common.ParsePeriod(duration)
	if err != nil {
		return 0, err
	}
	if period > math.MaxInt64-margin {
		return 0, cerrors.Error{ErrorCode: cerrors.ErrorTypeGeneric, Target: duration, Reason: "experiment duration is too long"}
	}
	return period + margin, nil
}

// experimentName derives a unique experiment name from the target pod and the creation time
func experimentName(prefix, pod string, created time.Time) string {
	return fmt.Sprintf("%s-%s-%s", prefix, pod, created.Format("02-15.04.05"))
}

// Name returns the name of the experiment resource
func (e *Experiment) Name() string {
	return e.resource.GetName()
}

// Namespace returns the namespace of the experiment resource
func (e *Experiment) Namespace() string {
	return e.resource.GetNamespace()
}

// Kind returns the chaos-mesh kind of the experiment
func (e *Experiment) Kind() string {
	return e.resource.GetObjectKind().GroupVersionKind().Kind
}

// Timeout returns the time budget of the experiment, counted from Start
func (e *Experiment) Timeout() time.Duration {
	return e.timeout
}

// Manifest renders the experiment resource as a yaml document
func (e *Experiment) Manifest() ([]byte, error) {
	return yaml.Marshal(e.resource)
}

// Start submits the experiment to the cluster, it does not wait for the experiment to end
func (e *Experiment) Start(ctx context.Context) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "StartChaosMeshExperiment",
		attribute.String("experiment.kind", e.Kind()), attribute.String("experiment.name", e.Name()))
	defer func() { telemetry.EndSpan(span, err) }()

	log.Debugf("[Chaos]: Starting the %v experiment %v", e.Kind(), e.Name())
	manifest, err := e.Manifest()
	if err != nil {
		return stacktrace.Propagate(err, "could not render the %v experiment manifest", e.Name())
	}

	manifestFile, err := os.CreateTemp("", e.Name()+"-*.yaml")
	if err != nil {
		return stacktrace.Propagate(err, "could not create the experiment manifest file")
	}
	defer os.Remove(manifestFile.Name())
	if _, err := manifestFile.Write(manifest); err != nil {
		manifestFile.Close()
		return stacktrace.Propagate(err, "could not write the experiment manifest file")
	}
	if err := manifestFile.Close(); err != nil {
		return stacktrace.Propagate(err, "could not write the experiment manifest file")
	}

	if err := e.cluster.ApplyFile(ctx, manifestFile.Name()); err != nil {
		return stacktrace.Propagate(err, "could not apply the %v experiment", e.Name())
	}
	log.InfoWithValues("[Chaos]: The experiment has started", logrus.Fields{
		"Kind":      e.Kind(),
		"Name":      e.Name(),
		"Namespace": e.Namespace(),
		"Timeout":   e.timeout,
	})
	metrics.ExperimentsStarted.WithLabelValues(e.Kind()).Inc()
	e.endTime = e.now().Add(e.timeout)
	return nil
}

// GetStatus queries the experiment conditions, an unparseable answer is reported as StatusUnknown
func (e *Experiment) GetStatus(ctx context.Context) ExperimentStatus {
	result, err := e.cluster.Kubectl(ctx,
		fmt.Sprintf("get %s %s -n %s -o jsonpath='{.status.conditions}'", e.Kind(), e.Name(), e.Namespace()),
		kube.Quiet())
	if err != nil {
		log.Warnf("unable to get the status of %v experiment, err: %v", e.Name(), err)
		return StatusUnknown
	}
	conditions, err := ParseConditions(strings.TrimSpace(result.Stdout))
	if err != nil {
		// it may happen shortly after startup when the command returns an empty result
		return StatusUnknown
	}
	return conditions.Status()
}

// WaitUntilFinished polls the experiment status until it finishes, fails or the timeout elapses.
// Start must be called first.
func (e *Experiment) WaitUntilFinished(ctx context.Context) (err error) {
	if e.endTime.IsZero() {
		return cerrors.Programmer{Reason: "experiment was not started, use Start() before waiting"}
	}

	ctx, span := telemetry.StartSpan(ctx, "WaitChaosMeshExperiment",
		attribute.String("experiment.kind", e.Kind()), attribute.String("experiment.name", e.Name()))
	defer func() { telemetry.EndSpan(span, err) }()

	started := e.now()
	result := metrics.ResultAborted
	defer func() {
		metrics.ExperimentsCompleted.WithLabelValues(e.Kind(), result).Inc()
		metrics.ExperimentWaitSeconds.WithLabelValues(e.Kind()).Observe(e.now().Sub(started).Seconds())
	}()

	log.Debugf("[Wait]: Waiting until %v experiment ends", e.Name())
	for e.now().Before(e.endTime) {
		status := e.GetStatus(ctx)
		switch status {
		case StatusFinished:
			log.Debugf("[Wait]: %v experiment ended", e.Name())
			result = metrics.ResultFinished
			return nil
		case StatusError:
			result = metrics.ResultError
			return e.experimentError(ctx, "experiment status error")
		}
		if err := e.sleep(ctx, e.pollInterval); err != nil {
			return err
		}
	}
	result = metrics.ResultTimeout
	return cerrors.ExperimentTimeout{ExperimentError: e.experimentError(ctx, "timeout when waiting for the experiment to complete")}
}

// Describe returns the `kubectl describe` output of the experiment resource
func (e *Experiment) Describe(ctx context.Context) (string, error) {
	result, err := e.cluster.Kubectl(ctx, fmt.Sprintf("describe %s %s -n %s", e.Kind(), e.Name(), e.Namespace()))
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

func (e *Experiment) experimentError(ctx context.Context, reason string) cerrors.ExperimentError {
	description, err := e.Describe(ctx)
	if err != nil {
		description = fmt.Sprintf("unable to describe the experiment: %v", err)
	}
	log.DebugWithValues("[Wait]: The experiment description", logrus.Fields{
		"Name":        e.Name(),
		"Description": description,
	})
	return cerrors.ExperimentError{
		Name:        e.Name(),
		Kind:        e.Kind(),
		Reason:      reason,
		Description: description,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
