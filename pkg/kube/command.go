package kube

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/palantir/stacktrace"
	"github.com/sirupsen/logrus"
)

// CommandCluster is a Cluster backed by the kubectl and helm binaries
type CommandCluster struct {
	KubectlPath string
	HelmPath    string
	Kubeconfig  string
	Context     string
}

// NewCommandCluster returns a CommandCluster using the binaries found in PATH
func NewCommandCluster(kubeconfig, kubeContext string) *CommandCluster {
	return &CommandCluster{
		KubectlPath: "kubectl",
		HelmPath:    "helm",
		Kubeconfig:  kubeconfig,
		Context:     kubeContext,
	}
}

// Kubectl runs `kubectl <command>` through the shell, so quoted jsonpath expressions are kept intact
func (c *CommandCluster) Kubectl(ctx context.Context, command string, opts ...CommandOption) (*Result, error) {
	var globals []string
	if c.Kubeconfig != "" {
		globals = append(globals, "--kubeconfig", c.Kubeconfig)
	}
	if c.Context != "" {
		globals = append(globals, "--context", c.Context)
	}
	return c.run(ctx, c.KubectlPath, globals, command, applyOptions(opts))
}

// Helm runs `helm <command>` through the shell
func (c *CommandCluster) Helm(ctx context.Context, command string, opts ...CommandOption) (*Result, error) {
	var globals []string
	if c.Kubeconfig != "" {
		globals = append(globals, "--kubeconfig", c.Kubeconfig)
	}
	if c.Context != "" {
		globals = append(globals, "--kube-context", c.Context)
	}
	return c.run(ctx, c.HelmPath, globals, command, applyOptions(opts))
}

// HelmInstall writes the values into a temporary file and runs `helm install`
func (c *CommandCluster) HelmInstall(ctx context.Context, options HelmInstallOptions) (*Result, error) {
	values, err := options.Values.Render()
	if err != nil {
		return nil, stacktrace.Propagate(err, "could not render the helm values of %v chart", options.Chart)
	}
	valuesFile, err := os.CreateTemp("", "helm-values-*.yaml")
	if err != nil {
		return nil, stacktrace.Propagate(err, "could not create the helm values file")
	}
	defer os.Remove(valuesFile.Name())

	if _, err := valuesFile.Write(values); err != nil {
		valuesFile.Close()
		return nil, stacktrace.Propagate(err, "could not write the helm values file")
	}
	if err := valuesFile.Close(); err != nil {
		return nil, stacktrace.Propagate(err, "could not write the helm values file")
	}
	log.DebugWithValues("[Helm]: Installing the chart with values", logrus.Fields{
		"Chart":   options.Chart,
		"Release": options.ReleaseName,
		"Values":  string(values),
	})
	return c.Helm(ctx, options.Args(valuesFile.Name()))
}

// ApplyFile runs `kubectl apply -f <path>`
func (c *CommandCluster) ApplyFile(ctx context.Context, path string) error {
	_, err := c.Kubectl(ctx, "apply -f "+path)
	return err
}

func (c *CommandCluster) run(ctx context.Context, binary string, globals []string, command string, options commandOptions) (*Result, error) {
	full := strings.Join(append(append([]string{binary}, globals...), command), " ")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", full)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := &Result{Command: full}
	err := cmd.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return result, stacktrace.Propagate(err, "unable to run command '%v'", full)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	if !options.quiet {
		log.DebugWithValues(fmt.Sprintf("[Command]: %v", full), logrus.Fields{
			"ExitCode": result.ExitCode,
			"Stdout":   strings.TrimSpace(result.Stdout),
			"Stderr":   strings.TrimSpace(result.Stderr),
		})
	}

	if result.ExitCode != 0 && !options.ignoreStatus {
		return result, cerrors.Command{Command: full, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return result, nil
}
