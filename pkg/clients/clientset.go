package clients

import (
	"github.com/pkg/errors"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// ClientSets is a collection of clientSets and kubeConfig needed
type ClientSets struct {
	KubeClient kubernetes.Interface
	KubeConfig *rest.Config
}

// GenerateClientSetFromKubeConfig will generate the k8s ClientSet as well as the KubeConfig
// an empty kubeconfig path falls back to the default loading rules (KUBECONFIG env, ~/.kube/config, in-cluster)
func (clientSets *ClientSets) GenerateClientSetFromKubeConfig(kubeconfig, kubeContext string) error {

	config, err := getKubeConfig(kubeconfig, kubeContext)
	if err != nil {
		return err
	}
	k8sClientSet, err := generateK8sClientSet(config)
	if err != nil {
		return err
	}
	clientSets.KubeClient = k8sClientSet
	clientSets.KubeConfig = config
	return nil
}

// getKubeConfig setup the config for access cluster resource
func getKubeConfig(kubeconfig, kubeContext string) (*rest.Config, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		loadingRules.ExplicitPath = kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}
	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides).ClientConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load the kubeconfig")
	}
	return config, nil
}

// generateK8sClientSet will generation k8s client
func generateK8sClientSet(config *rest.Config) (*kubernetes.Clientset, error) {
	k8sClientSet, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to generate kubernetes clientSet, err: %v: ", err)
	}
	return k8sClientSet, nil
}
