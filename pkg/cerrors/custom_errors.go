package cerrors

import "github.com/palantir/stacktrace"

type ErrorType string

const (
	ErrorTypeNonUserFriendly  ErrorType = "NON_USER_FRIENDLY_ERROR"
	ErrorTypeGeneric          ErrorType = "GENERIC_ERROR"
	ErrorTypeProgrammer       ErrorType = "PROGRAMMER_ERROR"
	ErrorTypeCommand          ErrorType = "COMMAND_ERROR"
	ErrorTypeExperiment       ErrorType = "EXPERIMENT_ERROR"
	ErrorTypeTimeout          ErrorType = "TIMEOUT_ERROR"
	ErrorTypeReplicationParse ErrorType = "REPLICATION_PARSE_ERROR"
	ErrorTypeStatusChecks     ErrorType = "STATUS_CHECKS_ERROR"
)

type userFriendly interface {
	UserFriendly() bool
	ErrorType() ErrorType
}

// IsUserFriendly returns true if err is marked as safe to present to the caller
func IsUserFriendly(err error) bool {
	ufe, ok := err.(userFriendly)
	return ok && ufe.UserFriendly()
}

// GetErrorType returns the type of error if the error is user-friendly
func GetErrorType(err error) ErrorType {
	if ufe, ok := err.(userFriendly); ok {
		return ufe.ErrorType()
	}
	return ErrorTypeNonUserFriendly
}

func GetRootCauseAndErrorCode(err error) (string, ErrorType) {
	rootCause := stacktrace.RootCause(err)
	errorType := GetErrorType(rootCause)
	if !IsUserFriendly(rootCause) {
		return err.Error(), errorType
	}
	return rootCause.Error(), errorType
}
