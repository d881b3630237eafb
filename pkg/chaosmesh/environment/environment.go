package environment

import (
	"strconv"

	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/utils/common"
)

//GetENV fetches all the env variables of an experiment run
func GetENV(experimentDetails *types.ExperimentDetails, experimentName string) {
	experimentDetails.ExperimentName = common.Getenv("EXPERIMENT_NAME", experimentName)
	experimentDetails.AppNS = common.Getenv("APP_NAMESPACE", "scylla")
	experimentDetails.AppLabel = common.Getenv("APP_LABEL", "app.kubernetes.io/name=scylla")
	experimentDetails.TargetPod = common.Getenv("TARGET_POD", "")
	experimentDetails.TargetContainer = common.Getenv("TARGET_CONTAINER", chaosmesh.DefaultStressContainer)
	experimentDetails.ChaosDuration = common.Getenv("TOTAL_CHAOS_DURATION", "30s")
	experimentDetails.MemoryWorkers = common.GetenvInt("MEMORY_WORKERS", 4)
	experimentDetails.MemorySize = common.Getenv("MEMORY_SIZE", "256MB")
	experimentDetails.TimeToReach = common.Getenv("TIME_TO_REACH", "")
	experimentDetails.ChaosMeshVersion = common.Getenv("CHAOS_MESH_VERSION", chaosmesh.DefaultVersion)
	experimentDetails.PoolLabelName = common.Getenv("POOL_LABEL_NAME", chaosmesh.DefaultPoolLabelName)
	experimentDetails.AuxiliaryPoolName = common.Getenv("AUXILIARY_POOL_NAME", chaosmesh.DefaultAuxiliaryPoolName)
	experimentDetails.TargetPoolName = common.Getenv("TARGET_POOL_NAME", chaosmesh.DefaultTargetPoolName)
	experimentDetails.Kubeconfig = common.Getenv("KUBECONFIG", "")
	experimentDetails.KubeContext = common.Getenv("KUBE_CONTEXT", "")
	experimentDetails.Timeout = common.GetenvInt("STATUS_CHECK_TIMEOUT", 180)
	experimentDetails.Delay = common.GetenvInt("STATUS_CHECK_DELAY", 2)
	experimentDetails.OTelEndpoint = common.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	experimentDetails.MetricsAddr = common.Getenv("METRICS_ADDR", "")
	experimentDetails.KeyspaceReplication = common.Getenv("KEYSPACE_REPLICATION", "")
	experimentDetails.HoldDuration = common.Getenv("HOLD_DURATION", "30s")
	experimentDetails.NodeToolStatusCheck, _ = strconv.ParseBool(common.Getenv("NODETOOL_STATUS_CHECK", "false"))
}

// InstallSettings derives the chaos-mesh installation settings from the experiment details
func InstallSettings(experimentDetails *types.ExperimentDetails) chaosmesh.InstallSettings {
	settings := chaosmesh.DefaultInstallSettings()
	if experimentDetails.ChaosMeshVersion != "" {
		settings.Version = experimentDetails.ChaosMeshVersion
	}
	if experimentDetails.PoolLabelName != "" {
		settings.PoolLabelName = experimentDetails.PoolLabelName
	}
	if experimentDetails.AuxiliaryPoolName != "" {
		settings.AuxiliaryPoolName = experimentDetails.AuxiliaryPoolName
	}
	if experimentDetails.TargetPoolName != "" {
		settings.TargetPoolName = experimentDetails.TargetPoolName
	}
	return settings
}

// TargetPod returns the pod targeted by the experiment
func TargetPod(experimentDetails *types.ExperimentDetails) types.TargetPod {
	return types.TargetPod{
		Name:      experimentDetails.TargetPod,
		Namespace: experimentDetails.AppNS,
		Container: experimentDetails.TargetContainer,
	}
}
