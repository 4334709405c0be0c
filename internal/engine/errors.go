package engine

import "fmt"

const (
	CodeCommentCreateFailed = "COMMENT_CREATE_FAILED"
	CodeReplyCreateFailed   = "REPLY_CREATE_FAILED"
	CodeEditFailed          = "EDIT_FAILED"
	CodeDeleteFailed        = "DELETE_FAILED"
	CodeDeletePending       = "DELETE_ALREADY_PENDING"
	CodeNoPendingDelete     = "NO_PENDING_DELETE"
	CodeUnknownTarget       = "UNKNOWN_TARGET"
)

// Error is the user-surfaceable failure of an engine operation. The
// code selects the toast copy; Err keeps the transport cause.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func engineError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
