package core

// Error codes for domain errors.
const (
	ErrCodeUnknownChannel       = "unknown_channel"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeMalformedRequest     = "malformed_request"
	ErrCodeUnknownTarget        = "unknown_target"
	ErrCodeUnknownConnection    = "unknown_connection"
)

var (
	ErrUnknownChannel       = coreError(ErrCodeUnknownChannel, "unknown channel")
	ErrAuthenticationFailed = coreError(ErrCodeAuthenticationFailed, "authentication failed")
	ErrMalformedRequest     = coreError(ErrCodeMalformedRequest, "malformed request")
	ErrUnknownTarget        = coreError(ErrCodeUnknownTarget, "unknown target")
	ErrUnknownConnection    = coreError(ErrCodeUnknownConnection, "unknown connection")
)

// CoreError wraps a code and human-readable message.
// All of them are local to the request that triggered them.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
