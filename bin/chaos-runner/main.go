package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableSorting:         true,
		DisableLevelTruncation: true,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, r := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	if shutdownErr := r.teardown(ctx); shutdownErr != nil {
		log.Warnf("unable to flush the traces, err: %v", shutdownErr)
	}
	if err != nil {
		reason, errorType := cerrors.GetRootCauseAndErrorCode(err)
		log.ErrorWithValues("[Error]: chaos-runner failed", logrus.Fields{
			"Reason":    reason,
			"ErrorType": errorType,
		})
		stop()
		os.Exit(1)
	}
}
