package cerrors

import (
	"fmt"
	"strings"
)

// Error is the generic error carrying an error code, used where no dedicated type exists
type Error struct {
	ErrorCode ErrorType
	Phase     string
	Target    string
	Reason    string
}

func (e Error) Error() string {
	var parts []string
	if e.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]:", e.Phase))
	}
	if e.Target != "" {
		parts = append(parts, fmt.Sprintf("target '%s',", e.Target))
	}
	parts = append(parts, e.Reason)
	return strings.Join(parts, " ")
}

func (e Error) UserFriendly() bool {
	return true
}

func (e Error) ErrorType() ErrorType {
	return e.ErrorCode
}

// Programmer marks a violated caller contract, e.g. waiting on an experiment that was never started.
// It is never retried.
type Programmer struct {
	Reason string
}

func (e Programmer) Error() string {
	return fmt.Sprintf("programming error: %s", e.Reason)
}

func (e Programmer) UserFriendly() bool {
	return false
}

func (e Programmer) ErrorType() ErrorType {
	return ErrorTypeProgrammer
}

// Command is returned when an external cluster command exits with a non-zero status
type Command struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e Command) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("command '%s' failed with exit code %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("command '%s' failed with exit code %d: %s", e.Command, e.ExitCode, strings.TrimSpace(e.Stderr))
}

func (e Command) UserFriendly() bool {
	return true
}

func (e Command) ErrorType() ErrorType {
	return ErrorTypeCommand
}

// ExperimentError is returned when a chaos-mesh experiment reports an error status.
// Description holds the `kubectl describe` output of the experiment resource.
type ExperimentError struct {
	Name        string
	Kind        string
	Reason      string
	Description string
}

func (e ExperimentError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s, experiment: '%s'", e.Reason, e.Name)
	}
	return fmt.Sprintf("%s, %s experiment: '%s'", e.Reason, e.Kind, e.Name)
}

func (e ExperimentError) UserFriendly() bool {
	return true
}

func (e ExperimentError) ErrorType() ErrorType {
	return ErrorTypeExperiment
}

// ExperimentTimeout is returned when an experiment did not finish before its deadline.
// It unwraps to its ExperimentError, so errors.As matches both types.
type ExperimentTimeout struct {
	ExperimentError
}

func (e ExperimentTimeout) Unwrap() error {
	return e.ExperimentError
}

func (e ExperimentTimeout) ErrorType() ErrorType {
	return ErrorTypeTimeout
}

// ReplicationParse is returned when a replication strategy cannot be read from text
type ReplicationParse struct {
	Text   string
	Reason string
}

func (e ReplicationParse) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("unable to parse replication strategy, %s", e.Reason)
	}
	return fmt.Sprintf("unable to parse replication strategy from '%s', %s", e.Text, e.Reason)
}

func (e ReplicationParse) UserFriendly() bool {
	return true
}

func (e ReplicationParse) ErrorType() ErrorType {
	return ErrorTypeReplicationParse
}
