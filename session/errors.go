package session

import "github.com/focusflow/flowtrack/internal/apperr"

var (
	errPersist = &apperr.Error{
		Message: "unable to persist session state",
	}

	errRecoveryFailed = &apperr.Error{
		Message: "unable to recover orphaned sessions",
	}
)
