// Package cqlfake provides an in-memory cql.Node for tests.
package cqlfake

import (
	"context"
	"strings"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cql"
)

// Node records the executed statements and answers every statement with the same stdout
type Node struct {
	// Statements holds the successfully executed statements in call order
	Statements []string
	// Stdout is returned for every successful statement
	Stdout string

	failures []failure
}

type failure struct {
	substring string
	err       error
}

// New returns a fake node answering every statement with stdout
func New(stdout string) *Node {
	return &Node{Stdout: stdout}
}

// FailOn makes every statement containing the substring fail with err.
// When several substrings match, the first registered one wins.
func (n *Node) FailOn(substring string, err error) *Node {
	n.failures = append(n.failures, failure{substring: substring, err: err})
	return n
}

// RunCqlsh implements cql.Node
func (n *Node) RunCqlsh(ctx context.Context, statement string) (*cql.Result, error) {
	for _, f := range n.failures {
		if strings.Contains(statement, f.substring) {
			return &cql.Result{Statement: statement}, f.err
		}
	}
	n.Statements = append(n.Statements, statement)
	return &cql.Result{Statement: statement, Stdout: n.Stdout}, nil
}
