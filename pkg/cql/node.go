// Package cql runs CQL statements against a database node.
package cql

import (
	"context"
	"strings"

	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/clients"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	litmusexec "github.com/litmuschaos/chaosmesh-runner/pkg/utils/exec"
	"github.com/palantir/stacktrace"
)

// Result is the output of a cqlsh statement
type Result struct {
	Statement string
	Stdout    string
	Stderr    string
}

// Node executes cqlsh statements on a single database node
type Node interface {
	RunCqlsh(ctx context.Context, statement string) (*Result, error)
}

// PodNode runs cqlsh inside the database container of a pod
type PodNode struct {
	clients clients.ClientSets
	pod     litmusexec.PodDetails
	// CqlshArgs are passed to cqlsh before the statement, e.g. host or credentials
	CqlshArgs []string
}

// NewPodNode returns a Node backed by the database container of the target pod
func NewPodNode(clients clients.ClientSets, pod types.TargetPod) *PodNode {
	node := &PodNode{clients: clients}
	litmusexec.SetExecCommandAttributes(&node.pod, pod.Name, pod.Container, pod.Namespace)
	return node
}

// RunCqlsh executes the statement with `cqlsh -e`
func (n *PodNode) RunCqlsh(ctx context.Context, statement string) (*Result, error) {
	log.Debugf("[CQL]: Running %q on %v pod", statement, n.pod.PodName)
	out, err := litmusexec.Exec(ctx, &n.pod, n.clients, n.command(statement))
	result := &Result{Statement: statement, Stdout: out.Stdout, Stderr: out.Stderr}
	if err != nil {
		return result, stacktrace.Propagate(err, "cqlsh statement failed on %v pod", n.pod.PodName)
	}
	return result, nil
}

func (n *PodNode) command(statement string) []string {
	command := append([]string{"cqlsh"}, n.CqlshArgs...)
	return append(command, "-e", strings.TrimSpace(statement))
}
