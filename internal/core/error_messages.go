package core

// error_messages.go maps technical errors to user-friendly messages with
// codes for support reference.
//
// Codes:
//
//	VAL001 - Missing or invalid fields in the submitted form
//	DB001  - Customer does not exist (foreign key violation)
//	DB002  - Value rejected by a table constraint (check / not null)
//	DB003  - Database unreachable (connection refused / reset)
//	DB004  - Statement timed out or the request was cancelled
//	DB005  - Invoice not found
//	ERR000 - Anything else; check the server log for the request id
//
// Postgres errors are classified by SQLSTATE first. Errors that lost their
// *pgconn.PgError on the way (or never had one) fall back to substring
// patterns, matched case-insensitively; the first match wins.

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`          // What happened (user-friendly)
	Action  string `json:"action,omitempty"` // What to do about it
	Code    string `json:"code"`             // Error code for support reference
}

var (
	msgValidation = UserMessage{
		Message: "Some fields are missing or invalid",
		Action:  "Correct the highlighted fields and submit again",
		Code:    "VAL001",
	}
	msgForeignKey = UserMessage{
		Message: "The selected customer does not exist",
		Action:  "Choose a customer from the list",
		Code:    "DB001",
	}
	msgConstraint = UserMessage{
		Message: "The invoice was rejected by the database",
		Action:  "Check the amount and status and try again",
		Code:    "DB002",
	}
	msgUnavailable = UserMessage{
		Message: "Unable to reach the database",
		Action:  "Please try again in a few moments",
		Code:    "DB003",
	}
	msgTimeout = UserMessage{
		Message: "The operation timed out",
		Action:  "Please try again",
		Code:    "DB004",
	}
	msgNotFound = UserMessage{
		Message: "Invoice not found",
		Action:  "It may have been deleted. Return to the invoice list",
		Code:    "DB005",
	}
	msgUnknown = UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "ERR000",
	}
)

// sqlStates maps Postgres SQLSTATE codes to user messages.
var sqlStates = map[string]UserMessage{
	"23503": msgForeignKey, // foreign_key_violation
	"23514": msgConstraint, // check_violation
	"23502": msgConstraint, // not_null_violation
	"22P02": msgConstraint, // invalid_text_representation
	"57014": msgTimeout,    // query_canceled
	"08000": msgUnavailable,
	"08003": msgUnavailable,
	"08006": msgUnavailable,
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"foreign key", msgForeignKey},
	{"violates check constraint", msgConstraint},
	{"connection refused", msgUnavailable},
	{"connection reset", msgUnavailable},
	{"failed to connect", msgUnavailable},
	{"timeout", msgTimeout},
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	switch {
	case errors.Is(err, ErrValidation):
		return msgValidation
	case errors.Is(err, ErrNotFound):
		return msgNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return msgTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := sqlStates[pgErr.Code]; ok {
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(errStr, p.pattern) {
			return p.msg
		}
	}

	return msgUnknown
}
