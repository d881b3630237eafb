package chaosmesh

import (
	"strconv"

	"github.com/chaos-mesh/chaos-mesh/api/v1alpha1"
	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/json"
)

// ExperimentStatus is the lifecycle state of a chaos-mesh experiment, recomputed on every poll
type ExperimentStatus int

const (
	StatusStarting ExperimentStatus = iota
	StatusRunning
	StatusPaused
	StatusFinished
	StatusError
	StatusUnknown
)

func (s ExperimentStatus) String() string {
	switch s {
	case StatusStarting:
		return "Starting"
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	case StatusFinished:
		return "Finished"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Conditions are the four condition flags reported by chaos-mesh
type Conditions struct {
	Selected     bool
	Paused       bool
	AllRecovered bool
	AllInjected  bool
}

// ParseConditions decodes the `{.status.conditions}` jsonpath output.
// Condition types missing from the output are reported as false.
func ParseConditions(raw string) (Conditions, error) {
	var list []v1alpha1.ChaosCondition
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return Conditions{}, cerrors.Error{ErrorCode: cerrors.ErrorTypeGeneric, Reason: "unable to decode experiment conditions: " + err.Error()}
	}

	conditions := Conditions{}
	for _, cond := range list {
		var value bool
		switch cond.Status {
		case corev1.ConditionTrue:
			value = true
		case corev1.ConditionFalse:
			value = false
		default:
			return Conditions{}, cerrors.Error{ErrorCode: cerrors.ErrorTypeGeneric, Target: string(cond.Type), Reason: "invalid condition status " + strconv.Quote(string(cond.Status))}
		}
		switch cond.Type {
		case v1alpha1.ConditionSelected:
			conditions.Selected = value
		case v1alpha1.ConditionPaused:
			conditions.Paused = value
		case v1alpha1.ConditionAllRecovered:
			conditions.AllRecovered = value
		case v1alpha1.ConditionAllInjected:
			conditions.AllInjected = value
		}
	}
	return conditions, nil
}

// Status maps the condition flags to the experiment status, rules are evaluated in order
func (c Conditions) Status() ExperimentStatus {
	switch {
	case !c.Selected && c.Paused:
		return StatusError
	case !c.Selected && !c.Paused && c.AllRecovered && !c.AllInjected:
		return StatusError
	case !c.Selected && !c.Paused:
		return StatusStarting
	case c.Selected && !c.Paused && !c.AllRecovered && c.AllInjected:
		return StatusRunning
	case c.AllRecovered && c.Paused:
		return StatusPaused
	case c.AllRecovered && !c.Paused && c.Selected:
		return StatusFinished
	}
	log.Warnf("Unknown experiment status: %+v", c)
	return StatusUnknown
}
