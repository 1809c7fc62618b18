package errors

// ErrorCode identifies a failure independently of its message, so callers
// can branch on it with HasCode or errors.Is.
type ErrorCode string

// Error is an application error. Two Errors with the same code match under
// errors.Is regardless of message, data or wrapped cause.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
	Is(target error) bool
}

// Factory creates application errors. Packages declare their codes in an
// errors.go file and build errors through errors.New().
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
