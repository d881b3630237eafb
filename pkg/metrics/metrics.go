package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chaosmesh_runner"

// Experiment results
const (
	ResultFinished = "finished"
	ResultError    = "error"
	ResultTimeout  = "timeout"
	ResultAborted  = "aborted"
)

// Replication alteration phases
const (
	PhaseSet      = "set"
	PhaseRollback = "rollback"
)

var (
	// ExperimentsStarted counts the experiments submitted to the cluster
	ExperimentsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "experiments_started_total",
		Help:      "Number of chaos-mesh experiments submitted to the cluster.",
	}, []string{"kind"})

	// ExperimentsCompleted counts the experiments by their final result
	ExperimentsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "experiments_completed_total",
		Help:      "Number of chaos-mesh experiments waited on, by result.",
	}, []string{"kind", "result"})

	// ExperimentWaitSeconds observes how long the runner waited for an experiment to end
	ExperimentWaitSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "experiment_wait_seconds",
		Help:      "Time spent waiting for chaos-mesh experiments to end.",
		Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
	}, []string{"kind"})

	// ReplicationAlters counts the ALTER KEYSPACE statements by phase (set or rollback)
	ReplicationAlters = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "replication_alters_total",
		Help:      "Number of keyspace replication alterations.",
	}, []string{"phase"})
)

// Register registers all the collectors with the given registerer
func Register(registerer prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{
		ExperimentsStarted,
		ExperimentsCompleted,
		ExperimentWaitSeconds,
		ReplicationAlters,
	} {
		if err := registerer.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}
