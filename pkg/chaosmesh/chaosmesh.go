package chaosmesh

import (
	"context"
	"strings"

	"github.com/litmuschaos/chaosmesh-runner/pkg/kube"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/litmuschaos/chaosmesh-runner/pkg/telemetry"
	"github.com/palantir/stacktrace"
	"github.com/sirupsen/logrus"
)

const (
	DefaultNamespace         = "chaos-mesh"
	DefaultVersion           = "2.5.0"
	DefaultPoolLabelName     = "scylla.scylladb.com/node-type"
	DefaultAuxiliaryPoolName = "auxiliary-pool"
	DefaultTargetPoolName    = "scylla-pool"

	chartRepoName  = "chaos-mesh"
	chartRepoURL   = "https://charts.chaos-mesh.org"
	installTimeout = "30m"

	containerdSocketPath = "/run/containerd/containerd.sock"
)

// InstallSettings contains the attributes of the chaos-mesh installation
type InstallSettings struct {
	Namespace string
	Version   string
	// PoolLabelName is the node label holding the node pool name
	PoolLabelName string
	// AuxiliaryPoolName hosts the chaos-mesh control plane (controller manager, dns server)
	AuxiliaryPoolName string
	// TargetPoolName hosts the database pods, the chaos daemon must run there
	TargetPoolName string
}

// DefaultInstallSettings returns the settings used by the default installation
func DefaultInstallSettings() InstallSettings {
	return InstallSettings{
		Namespace:         DefaultNamespace,
		Version:           DefaultVersion,
		PoolLabelName:     DefaultPoolLabelName,
		AuxiliaryPoolName: DefaultAuxiliaryPoolName,
		TargetPoolName:    DefaultTargetPoolName,
	}
}

// ChaosMesh installs chaos-mesh into a k8s cluster
type ChaosMesh struct {
	cluster     kube.Cluster
	settings    InstallSettings
	initialized bool
}

// New returns a ChaosMesh installer for the given cluster
func New(cluster kube.Cluster, settings InstallSettings) *ChaosMesh {
	return &ChaosMesh{cluster: cluster, settings: settings}
}

// Initialized reports whether chaos-mesh is known to be present in the cluster
func (c *ChaosMesh) Initialized() bool {
	return c.initialized
}

// Initialize installs chaos-mesh unless its namespace already exists.
// Partial installs are rolled back by helm (atomic install).
func (c *ChaosMesh) Initialize(ctx context.Context) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "InstallChaosMesh")
	defer func() { telemetry.EndSpan(span, err) }()

	result, err := c.cluster.Kubectl(ctx, "get ns "+c.settings.Namespace, kube.IgnoreStatus())
	if err != nil {
		return stacktrace.Propagate(err, "could not check the %v namespace", c.settings.Namespace)
	}
	if result.OK() {
		c.initialized = true
		log.Info("[Install]: Chaos Mesh is already installed, skipping the installation")
		return nil
	}

	log.InfoWithValues("[Install]: Installing chaos-mesh", logrus.Fields{
		"Namespace": c.settings.Namespace,
		"Version":   c.settings.Version,
	})
	if _, err := c.cluster.Helm(ctx, "repo add "+chartRepoName+" "+chartRepoURL); err != nil {
		return installError("unable to add the chart repository", err)
	}
	if _, err := c.cluster.Helm(ctx, "repo update"); err != nil {
		return installError("unable to update the chart repositories", err)
	}
	if _, err := c.cluster.Kubectl(ctx, "create namespace "+c.settings.Namespace); err != nil {
		return installError("unable to create the namespace", err)
	}

	runtime, err := c.cluster.Kubectl(ctx, "get nodes -o jsonpath='{.items[0].status.nodeInfo.containerRuntimeVersion}'")
	if err != nil {
		return installError("unable to detect the container runtime", err)
	}

	if _, err := c.cluster.HelmInstall(ctx, kube.HelmInstallOptions{
		ReleaseName: chartRepoName,
		Chart:       chartRepoName + "/chaos-mesh",
		Version:     c.settings.Version,
		Namespace:   c.settings.Namespace,
		Values:      c.helmValues(strings.TrimSpace(runtime.Stdout)),
		Atomic:      true,
		Timeout:     installTimeout,
	}); err != nil {
		return installError("helm install failed", err)
	}

	log.Info("[Install]: chaos-mesh installed successfully")
	c.initialized = true
	return nil
}

// helmValues pins the control plane to the auxiliary pool and the chaos daemon to the target pool
func (c *ChaosMesh) helmValues(containerRuntime string) kube.HelmValues {
	auxPoolAffinity := kube.PoolAffinityValues(c.settings.PoolLabelName, c.settings.AuxiliaryPoolName)
	targetPoolAffinity := kube.PoolAffinityValues(c.settings.PoolLabelName, c.settings.TargetPoolName)

	chaosDaemon := targetPoolAffinity
	if strings.HasPrefix(containerRuntime, "containerd") {
		chaosDaemon = chaosDaemon.Merge(kube.HelmValues{
			"runtime":    "containerd",
			"socketPath": containerdSocketPath,
		})
	}

	return kube.HelmValues{
		"dashboard": kube.HelmValues{"create": false},
		"dnsServer": kube.HelmValues{"create": true},
	}.Merge(kube.HelmValues{
		"chaosDaemon":       chaosDaemon,
		"controllerManager": auxPoolAffinity,
		"dnsServer":         auxPoolAffinity,
	})
}

func installError(reason string, err error) error {
	return stacktrace.Propagate(err, "[Install]: %v", reason)
}
