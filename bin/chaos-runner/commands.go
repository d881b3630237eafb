package main

import (
	"context"
	"strconv"

	memoryStress "github.com/litmuschaos/chaosmesh-runner/experiments/scylla/memory-stress/experiment"
	podFailure "github.com/litmuschaos/chaosmesh-runner/experiments/scylla/pod-failure/experiment"
	replicationChange "github.com/litmuschaos/chaosmesh-runner/experiments/scylla/replication-change/experiment"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh"
	experimentEnv "github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/environment"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/clients"
	"github.com/litmuschaos/chaosmesh-runner/pkg/cql"
	"github.com/litmuschaos/chaosmesh-runner/pkg/kube"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/litmuschaos/chaosmesh-runner/pkg/metrics"
	"github.com/litmuschaos/chaosmesh-runner/pkg/status"
	"github.com/litmuschaos/chaosmesh-runner/pkg/telemetry"
	"github.com/litmuschaos/chaosmesh-runner/pkg/utils/common"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// runner holds the state shared by the subcommands
type runner struct {
	logLevel           string
	experimentsDetails types.ExperimentDetails
	clients            clients.ClientSets
	cluster            kube.Cluster
	shutdownTracing    func(context.Context) error
}

func newRootCommand() (*cobra.Command, *runner) {
	r := &runner{}
	details := &r.experimentsDetails

	rootCmd := &cobra.Command{
		Use:           "chaos-runner",
		Short:         "Run chaos-mesh experiments against scylla pods",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup(cmd)
		},
	}

	// the env values are the flag defaults, a flag set on the command line wins
	experimentEnv.GetENV(details, "")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&r.logLevel, "log-level", common.Getenv("LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	flags.StringVar(&details.Kubeconfig, "kubeconfig", details.Kubeconfig, "path to the kubeconfig file")
	flags.StringVar(&details.KubeContext, "context", details.KubeContext, "kubeconfig context to use")
	flags.StringVarP(&details.AppNS, "namespace", "n", details.AppNS, "namespace of the scylla pods")
	flags.StringVarP(&details.AppLabel, "label", "l", details.AppLabel, "label selector of the scylla pods")
	flags.StringVar(&details.TargetPod, "target-pod", details.TargetPod, "target pod, the first scylla pod when empty")
	flags.StringVar(&details.TargetContainer, "target-container", details.TargetContainer, "database container of the target pod")
	flags.StringVar(&details.ChaosMeshVersion, "chaos-mesh-version", details.ChaosMeshVersion, "chaos-mesh chart version to install")
	flags.StringVar(&details.MetricsAddr, "metrics-addr", details.MetricsAddr, "address serving the prometheus metrics, disabled when empty")
	flags.StringVar(&details.OTelEndpoint, "otel-endpoint", details.OTelEndpoint, "OTLP grpc endpoint receiving the traces, disabled when empty")
	flags.BoolVar(&details.NodeToolStatusCheck, "nodetool-check", details.NodeToolStatusCheck, "check that all the nodes are up and normal after the chaos")
	flags.IntVar(&details.Timeout, "status-check-timeout", details.Timeout, "timeout of the pod status checks in seconds")
	flags.IntVar(&details.Delay, "status-check-delay", details.Delay, "delay between two pod status checks in seconds")

	rootCmd.AddCommand(
		r.installCommand(),
		r.podFailureCommand(),
		r.memoryStressCommand(),
		r.replicationCommand(),
	)
	return rootCmd, r
}

func (r *runner) installCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install chaos-mesh unless it is already installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return chaosmesh.New(r.cluster, experimentEnv.InstallSettings(&r.experimentsDetails)).Initialize(cmd.Context())
		},
	}
}

func (r *runner) podFailureCommand() *cobra.Command {
	details := &r.experimentsDetails
	cmd := &cobra.Command{
		Use:   "pod-failure",
		Short: "Make the target pod unavailable for the chaos duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			details.ExperimentName = cmd.Name()
			return podFailure.PodFailure(cmd.Context(), r.clients, r.cluster, details)
		},
	}
	cmd.Flags().StringVarP(&details.ChaosDuration, "duration", "d", details.ChaosDuration, "chaos duration, e.g. 30s, 5m")
	return cmd
}

func (r *runner) memoryStressCommand() *cobra.Command {
	details := &r.experimentsDetails
	cmd := &cobra.Command{
		Use:   "memory-stress",
		Short: "Stress the memory of the target pod database container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			details.ExperimentName = cmd.Name()
			return memoryStress.MemoryStress(cmd.Context(), r.clients, r.cluster, details)
		},
	}
	cmd.Flags().StringVarP(&details.ChaosDuration, "duration", "d", details.ChaosDuration, "chaos duration, e.g. 30s, 5m")
	cmd.Flags().IntVar(&details.MemoryWorkers, "workers", details.MemoryWorkers, "number of stress workers")
	cmd.Flags().StringVar(&details.MemorySize, "size", details.MemorySize, "memory allocated per worker, e.g. 256MB or 25%")
	cmd.Flags().StringVar(&details.TimeToReach, "time-to-reach", details.TimeToReach, "time to reach the allocated size, immediate when empty")
	return cmd
}

func (r *runner) replicationCommand() *cobra.Command {
	details := &r.experimentsDetails
	cmd := &cobra.Command{
		Use:     "replication-change",
		Short:   "Change keyspace replication for the hold duration, then restore it",
		Example: `  chaos-runner replication-change --set 'ks1=SimpleStrategy:1;ks2=NetworkTopologyStrategy:dc1=3,dc2=2' --hold 5m`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			details.ExperimentName = cmd.Name()
			if err := status.SelectTargetPod(cmd.Context(), details, r.clients); err != nil {
				return err
			}
			node := cql.NewPodNode(r.clients, experimentEnv.TargetPod(details))
			return replicationChange.ReplicationChange(cmd.Context(), r.clients, node, details)
		},
	}
	cmd.Flags().StringVar(&details.KeyspaceReplication, "set", details.KeyspaceReplication, "keyspace replication assignments, <keyspace>=<class>:<options> separated by ';'")
	cmd.Flags().StringVar(&details.HoldDuration, "hold", details.HoldDuration, "how long the replication change is kept, e.g. 30s, 5m")
	return cmd
}

// setup configures logging, tracing, metrics and the cluster clients
func (r *runner) setup(cmd *cobra.Command) error {
	if err := log.SetLevel(r.logLevel); err != nil {
		return errors.Wrapf(err, "invalid log level %v", strconv.Quote(r.logLevel))
	}
	details := &r.experimentsDetails
	ctx := cmd.Context()

	if details.OTelEndpoint != "" {
		shutdown, err := telemetry.InitOTelSDK(ctx, details.OTelEndpoint)
		if err != nil {
			return errors.Wrapf(err, "unable to initialize the tracing")
		}
		r.shutdownTracing = shutdown
	}

	if details.MetricsAddr != "" {
		if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
			return errors.Wrapf(err, "unable to register the metrics")
		}
		metrics.Serve(ctx, details.MetricsAddr, prometheus.DefaultGatherer)
	}

	r.cluster = kube.NewCommandCluster(details.Kubeconfig, details.KubeContext)
	if cmd.Name() == "install" {
		return nil
	}
	if err := r.clients.GenerateClientSetFromKubeConfig(details.Kubeconfig, details.KubeContext); err != nil {
		return errors.Wrapf(err, "unable to get the kubeconfig")
	}
	return nil
}

// teardown flushes the pending spans
func (r *runner) teardown(ctx context.Context) error {
	if r.shutdownTracing == nil {
		return nil
	}
	return r.shutdownTracing(context.WithoutCancel(ctx))
}
