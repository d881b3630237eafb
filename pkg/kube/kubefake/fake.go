// Package kubefake provides an in-memory kube.Cluster for tests.
package kubefake

import (
	"context"
	"os"
	"strings"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/litmuschaos/chaosmesh-runner/pkg/kube"
)

// Responder returns the result of a kubectl command, a nil result is treated as an empty success
type Responder func(command string) (*kube.Result, error)

// Cluster records every command and answers kubectl calls through the responders
type Cluster struct {
	// Commands holds the commands in call order, prefixed with "kubectl " or "helm "
	Commands []string
	// Applied holds the content of every applied manifest file
	Applied []string
	// Installs holds every helm installation
	Installs []kube.HelmInstallOptions

	responders map[string]Responder
	fallback   Responder
}

// New returns an empty fake cluster, unmatched kubectl commands succeed with empty output
func New() *Cluster {
	return &Cluster{responders: map[string]Responder{}}
}

// On registers a responder for kubectl commands starting with the given prefix
func (c *Cluster) On(prefix string, responder Responder) *Cluster {
	c.responders[prefix] = responder
	return c
}

// Fallback registers the responder used when no prefix matches
func (c *Cluster) Fallback(responder Responder) *Cluster {
	c.fallback = responder
	return c
}

// Stdout is a Responder returning a successful result with the given output
func Stdout(out string) Responder {
	return func(command string) (*kube.Result, error) {
		return &kube.Result{Command: command, Stdout: out}, nil
	}
}

// ExitCode is a Responder returning a failed result with the given exit code
func ExitCode(code int) Responder {
	return func(command string) (*kube.Result, error) {
		return &kube.Result{Command: command, ExitCode: code}, nil
	}
}

// Kubectl records the command and answers with the longest matching responder
func (c *Cluster) Kubectl(ctx context.Context, command string, opts ...kube.CommandOption) (*kube.Result, error) {
	c.Commands = append(c.Commands, "kubectl "+command)

	var (
		responder Responder
		longest   = -1
	)
	for prefix, r := range c.responders {
		if strings.HasPrefix(command, prefix) && len(prefix) > longest {
			responder, longest = r, len(prefix)
		}
	}
	if responder == nil {
		responder = c.fallback
	}
	if responder == nil {
		return &kube.Result{Command: command}, nil
	}
	result, err := responder(command)
	if err != nil {
		return result, err
	}
	if result == nil {
		result = &kube.Result{Command: command}
	}
	if result.ExitCode != 0 && !kube.HasIgnoreStatus(opts) {
		return result, cerrors.Command{Command: command, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return result, nil
}

// Helm records the command and succeeds
func (c *Cluster) Helm(ctx context.Context, command string, opts ...kube.CommandOption) (*kube.Result, error) {
	c.Commands = append(c.Commands, "helm "+command)
	return &kube.Result{Command: command}, nil
}

// HelmInstall records the installation and succeeds
func (c *Cluster) HelmInstall(ctx context.Context, options kube.HelmInstallOptions) (*kube.Result, error) {
	c.Installs = append(c.Installs, options)
	return c.Helm(ctx, options.Args("values.yaml"))
}

// ApplyFile records the file content and the apply command
func (c *Cluster) ApplyFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.Applied = append(c.Applied, string(content))
	_, err = c.Kubectl(ctx, "apply -f "+path)
	return err
}
