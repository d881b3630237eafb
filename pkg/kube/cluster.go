package kube

import (
	"context"
	"strings"
)

// Cluster runs kubectl/helm style commands against a k8s cluster
type Cluster interface {
	// Kubectl runs `kubectl <command>`, e.g. Kubectl(ctx, "get ns chaos-mesh")
	Kubectl(ctx context.Context, command string, opts ...CommandOption) (*Result, error)
	// Helm runs `helm <command>`
	Helm(ctx context.Context, command string, opts ...CommandOption) (*Result, error)
	// HelmInstall installs a chart with the given values
	HelmInstall(ctx context.Context, options HelmInstallOptions) (*Result, error)
	// ApplyFile runs `kubectl apply -f <path>`
	ApplyFile(ctx context.Context, path string) error
}

// Result is the outcome of a finished command
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
}

// OK reports whether the command exited with zero status
func (r *Result) OK() bool {
	return r != nil && r.ExitCode == 0
}

type commandOptions struct {
	ignoreStatus bool
	quiet        bool
}

// CommandOption tunes a single command invocation
type CommandOption func(*commandOptions)

// IgnoreStatus returns the result of a failed command instead of an error
func IgnoreStatus() CommandOption {
	return func(o *commandOptions) {
		o.ignoreStatus = true
	}
}

// Quiet skips the debug logging of the command output, used for polling
func Quiet() CommandOption {
	return func(o *commandOptions) {
		o.quiet = true
	}
}

// HasIgnoreStatus reports whether IgnoreStatus is among the options
func HasIgnoreStatus(opts []CommandOption) bool {
	return applyOptions(opts).ignoreStatus
}

func applyOptions(opts []CommandOption) commandOptions {
	options := commandOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// HelmInstallOptions contains the attributes of a helm chart installation
type HelmInstallOptions struct {
	ReleaseName string
	Chart       string
	Version     string
	Namespace   string
	Values      HelmValues
	UseDevel    bool
	// Atomic rolls back a partial install, enforced by helm itself
	Atomic  bool
	Timeout string
}

// Args renders the helm install arguments, the values file path is provided by the caller
func (o HelmInstallOptions) Args(valuesFile string) string {
	args := []string{"install", o.ReleaseName, o.Chart}
	if o.Version != "" {
		args = append(args, "--version", o.Version)
	}
	if o.Namespace != "" {
		args = append(args, "--namespace", o.Namespace)
	}
	if valuesFile != "" {
		args = append(args, "--values", valuesFile)
	}
	if o.UseDevel {
		args = append(args, "--devel")
	}
	if o.Atomic {
		args = append(args, "--atomic")
	}
	if o.Timeout != "" {
		args = append(args, "--timeout", o.Timeout)
	}
	return strings.Join(args, " ")
}
