package replication

import (
	"context"
	"fmt"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cql"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/litmuschaos/chaosmesh-runner/pkg/metrics"
	"github.com/palantir/stacktrace"
	"github.com/sirupsen/logrus"
)

// Assignment sets the replication strategy of a keyspace
type Assignment struct {
	Keyspace string
	Strategy Strategy
}

// Set returns the assignment of the strategy to the keyspace
func Set(keyspace string, strategy Strategy) Assignment {
	return Assignment{Keyspace: keyspace, Strategy: strategy}
}

// SetFunc applies the assignments in order, it may be called any number of times within a scope
type SetFunc func(assignments ...Assignment) error

// TemporarySetter alters keyspace replication and remembers the replication each keyspace had
// before its first alteration, so that Rollback can restore it.
type TemporarySetter struct {
	node cql.Node
	// snapshots holds the original strategies, order the keyspaces in first-touch order
	snapshots map[string]Strategy
	order     []string
}

// NewTemporarySetter returns a setter running its statements on the node
func NewTemporarySetter(node cql.Node) *TemporarySetter {
	return &TemporarySetter{node: node, snapshots: map[string]Strategy{}}
}

// Set applies every assignment in order. The first time a keyspace is touched its current replication
// is read and recorded before the alteration. Node errors are returned unchanged.
func (s *TemporarySetter) Set(ctx context.Context, assignments ...Assignment) error {
	for _, assignment := range assignments {
		if _, ok := s.snapshots[assignment.Keyspace]; !ok {
			original, err := s.describe(ctx, assignment.Keyspace)
			if err != nil {
				return err
			}
			s.snapshots[assignment.Keyspace] = original
			s.order = append(s.order, assignment.Keyspace)
		}
		if err := s.alter(ctx, assignment.Keyspace, assignment.Strategy); err != nil {
			return err
		}
		metrics.ReplicationAlters.WithLabelValues(metrics.PhaseSet).Inc()
		log.InfoWithValues("[Replication]: Keyspace replication changed", logrus.Fields{
			"Keyspace":    assignment.Keyspace,
			"Replication": assignment.Strategy,
		})
	}
	return nil
}

// Touched returns the keyspaces in first-touch order
func (s *TemporarySetter) Touched() []string {
	return append([]string(nil), s.order...)
}

// Rollback restores the recorded replication of every touched keyspace in first-touch order.
// All keyspaces are attempted, the first failure is returned.
func (s *TemporarySetter) Rollback(ctx context.Context) error {
	var firstErr error
	for _, keyspace := range s.order {
		original := s.snapshots[keyspace]
		if err := s.alter(ctx, keyspace, original); err != nil {
			log.ErrorWithValues("[Replication]: Unable to restore the keyspace replication", logrus.Fields{
				"Keyspace":    keyspace,
				"Replication": original,
				"Error":       err,
			})
			if firstErr == nil {
				firstErr = stacktrace.Propagate(err, "[Replication]: rollback of %v keyspace failed", keyspace)
			}
			continue
		}
		metrics.ReplicationAlters.WithLabelValues(metrics.PhaseRollback).Inc()
	}
	if len(s.order) > 0 {
		log.Infof("[Replication]: Restored the replication of %v keyspaces", len(s.order))
	}
	s.snapshots = map[string]Strategy{}
	s.order = nil
	return firstErr
}

func (s *TemporarySetter) describe(ctx context.Context, keyspace string) (Strategy, error) {
	result, err := s.node.RunCqlsh(ctx, "describe "+keyspace)
	if err != nil {
		return nil, err
	}
	return FromString(result.Stdout)
}

func (s *TemporarySetter) alter(ctx context.Context, keyspace string, strategy Strategy) error {
	_, err := s.node.RunCqlsh(ctx, fmt.Sprintf("ALTER KEYSPACE %s WITH replication = %s", keyspace, strategy))
	return err
}

// WithTemporaryStrategies runs scope with a SetFunc altering keyspace replication on the node.
// When scope returns or panics, every touched keyspace is restored in first-touch order.
// The error of scope is returned unchanged, rollback errors are only returned when scope succeeded.
func WithTemporaryStrategies(ctx context.Context, node cql.Node, scope func(set SetFunc) error) (err error) {
	setter := NewTemporarySetter(node)
	defer func() {
		recovered := recover()
		// restore even when the scope was cancelled
		rollbackErr := setter.Rollback(context.WithoutCancel(ctx))
		if recovered != nil {
			panic(recovered)
		}
		if err == nil {
			err = rollbackErr
		}
	}()

	return scope(func(assignments ...Assignment) error {
		return setter.Set(ctx, assignments...)
	})
}
