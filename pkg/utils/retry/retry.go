package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
)

// Action defines the prototype of action function, function as a value
type Action func(attempt uint) error

// Model defines the schema, contains all the attributes need for retry
type Model struct {
	retry    uint
	waitTime time.Duration
}

// Times is used to define the retry count
// it will run if the instance of model is not present before
func Times(retry uint) *Model {
	model := Model{}
	return model.Times(retry)
}

// Times is used to define the retry count
// it will run if the instance of model is already present
func (model *Model) Times(retry uint) *Model {
	model.retry = retry
	return model
}

// Wait is used to define the wait duration after each failed iteration of retry
// it will run if the instance of model is not present before
func Wait(waitTime time.Duration) *Model {
	model := Model{}
	return model.Wait(waitTime)
}

// Wait is used to define the wait duration after each failed iteration of retry
// it will run if the instance of model is already present
func (model *Model) Wait(waitTime time.Duration) *Model {
	model.waitTime = waitTime
	return model
}

// Try is used to run a action with retries and some delay after each failed iteration
func (model Model) Try(action Action) error {
	return model.TryWithContext(context.Background(), action)
}

// TryWithContext runs the action with retries until it succeeds, the retries are exhausted,
// the action returns a programmer error or the context is done
func (model Model) TryWithContext(ctx context.Context, action Action) error {
	if action == nil {
		return fmt.Errorf("no action specified")
	}

	var err error
	for attempt := uint(0); (attempt == 0 || err != nil) && attempt < model.retry; attempt++ {
		err = action(attempt)
		if err == nil {
			break
		}
		// caller contract violations never heal on their own
		if _, ok := err.(cerrors.Programmer); ok {
			break
		}
		if attempt+1 < model.retry && model.waitTime > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(model.waitTime):
			}
		}
	}

	return err
}
