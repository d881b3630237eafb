package chaosmesh

import (
	"context"
	"testing"

	"github.com/litmuschaos/chaosmesh-runner/pkg/kube"
	"github.com/litmuschaos/chaosmesh-runner/pkg/kube/kubefake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeSkipsWhenNamespaceExists(t *testing.T) {
	cluster := kubefake.New()
	installer := New(cluster, DefaultInstallSettings())

	require.NoError(t, installer.Initialize(context.Background()))
	require.NoError(t, installer.Initialize(context.Background()))

	assert.True(t, installer.Initialized())
	assert.Equal(t, []string{"kubectl get ns chaos-mesh", "kubectl get ns chaos-mesh"}, cluster.Commands)
	assert.Empty(t, cluster.Installs)
}

func TestInitializeInstalls(t *testing.T) {
	namespaceExists := false
	cluster := kubefake.New()
	cluster.On("get ns chaos-mesh", func(command string) (*kube.Result, error) {
		if namespaceExists {
			return &kube.Result{Command: command}, nil
		}
		return &kube.Result{Command: command, ExitCode: 1, Stderr: "NotFound"}, nil
	})
	cluster.On("create namespace", func(command string) (*kube.Result, error) {
		namespaceExists = true
		return &kube.Result{Command: command}, nil
	})
	cluster.On("get nodes", kubefake.Stdout("containerd://1.6.8"))

	installer := New(cluster, DefaultInstallSettings())
	require.NoError(t, installer.Initialize(context.Background()))
	assert.True(t, installer.Initialized())

	assert.Equal(t, []string{
		"kubectl get ns chaos-mesh",
		"helm repo add chaos-mesh https://charts.chaos-mesh.org",
		"helm repo update",
		"kubectl create namespace chaos-mesh",
		"kubectl get nodes -o jsonpath='{.items[0].status.nodeInfo.containerRuntimeVersion}'",
		"helm install chaos-mesh chaos-mesh/chaos-mesh --version 2.5.0 --namespace chaos-mesh --values values.yaml --atomic --timeout 30m",
	}, cluster.Commands)

	require.Len(t, cluster.Installs, 1)
	values := cluster.Installs[0].Values
	assert.Equal(t, kube.HelmValues{"create": false}, values["dashboard"])

	chaosDaemon, ok := values["chaosDaemon"].(kube.HelmValues)
	require.True(t, ok)
	assert.Equal(t, "containerd", chaosDaemon["runtime"])
	assert.Equal(t, "/run/containerd/containerd.sock", chaosDaemon["socketPath"])
	assert.Contains(t, chaosDaemon, "affinity")

	dnsServer, ok := values["dnsServer"].(kube.HelmValues)
	require.True(t, ok)
	assert.Equal(t, true, dnsServer["create"])
	assert.Equal(t, kube.PoolAffinityValues(DefaultPoolLabelName, DefaultAuxiliaryPoolName)["affinity"], dnsServer["affinity"])
	assert.Equal(t, kube.PoolAffinityValues(DefaultPoolLabelName, DefaultAuxiliaryPoolName), values["controllerManager"])

	// a second call finds the namespace and installs nothing
	commands := len(cluster.Commands)
	require.NoError(t, installer.Initialize(context.Background()))
	assert.Len(t, cluster.Commands, commands+1)
	assert.Len(t, cluster.Installs, 1)
}

func TestInitializeDockerRuntime(t *testing.T) {
	cluster := kubefake.New()
	cluster.On("get ns", kubefake.ExitCode(1))
	cluster.On("get nodes", kubefake.Stdout("docker://20.10.7"))

	require.NoError(t, New(cluster, DefaultInstallSettings()).Initialize(context.Background()))
	require.Len(t, cluster.Installs, 1)
	chaosDaemon := cluster.Installs[0].Values["chaosDaemon"].(kube.HelmValues)
	assert.NotContains(t, chaosDaemon, "runtime")
	assert.NotContains(t, chaosDaemon, "socketPath")
}

func TestInitializeFailure(t *testing.T) {
	cluster := kubefake.New()
	cluster.On("get ns", kubefake.ExitCode(1))
	cluster.On("create namespace", kubefake.ExitCode(1))

	installer := New(cluster, DefaultInstallSettings())
	assert.Error(t, installer.Initialize(context.Background()))
	assert.False(t, installer.Initialized())
	assert.Empty(t, cluster.Installs)
}
