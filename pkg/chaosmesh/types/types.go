package types

// PodNameLabel selects a single statefulset pod
const PodNameLabel = "statefulset.kubernetes.io/pod-name"

// TargetPod identifies the pod affected by an experiment
type TargetPod struct {
	Name      string
	Namespace string
	// Container is the database container of the pod, used by the stress experiments
	Container string
}

// ExperimentDetails is for collecting all the experiment-related details
type ExperimentDetails struct {
	ExperimentName    string
	AppNS             string
	AppLabel          string
	TargetPod         string
	TargetContainer   string
	ChaosDuration     string
	MemoryWorkers     int
	MemorySize        string
	TimeToReach       string
	ChaosMeshVersion  string
	PoolLabelName     string
	AuxiliaryPoolName string
	TargetPoolName    string
	Kubeconfig        string
	KubeContext       string
	Timeout           int
	Delay             int
	OTelEndpoint      string
	MetricsAddr       string
	// KeyspaceReplication holds the raw `ks=Class:options;...` assignments of the replication-change experiment
	KeyspaceReplication string
	// HoldDuration is how long the replication change is kept before the rollback
	HoldDuration string
	// NodeToolStatusCheck enables the post-chaos ring check
	NodeToolStatusCheck bool
}
