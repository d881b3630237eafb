package lib

import (
	"context"
	"time"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cql"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/litmuschaos/chaosmesh-runner/pkg/replication"
	"github.com/sirupsen/logrus"
)

// PrepareReplicationChange changes the replication of the keyspaces, keeps it for the hold duration
// and restores the original replication afterwards, including when the hold is interrupted
func PrepareReplicationChange(ctx context.Context, node cql.Node, assignments []replication.Assignment, hold time.Duration) error {
	return replication.WithTemporaryStrategies(ctx, node, func(set replication.SetFunc) error {
		if err := set(assignments...); err != nil {
			return err
		}

		log.InfoWithValues("[Chaos]: Keeping the replication change", logrus.Fields{
			"Keyspaces": len(assignments),
			"Hold":      hold,
		})
		timer := time.NewTimer(hold)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	})
}
