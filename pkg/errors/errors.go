package errors

import "errors"

// Kind classifies an error for the client's recovery policy.
type Kind string

const (
	// KindTransient covers timeouts, dropped connections and 5xx responses.
	// Recovered by falling back to cached data; retried opportunistically.
	KindTransient Kind = "TRANSIENT"
	// KindValidation covers inputs the backend will never accept
	// (unknown activity id, malformed payload). Never retried.
	KindValidation Kind = "VALIDATION"
	// KindDuplicate is a repeat submission for the same activity.
	KindDuplicate Kind = "DUPLICATE"
	// KindNotFound is a missing remote record (e.g. no stats row yet).
	KindNotFound Kind = "NOT_FOUND"
	// KindQuota is an oversized payload, rejected before any network call.
	KindQuota Kind = "QUOTA"
	// KindRetriesExhausted is a queued action dropped after the retry ceiling.
	KindRetriesExhausted Kind = "RETRIES_EXHAUSTED"
)

// AppError is a typed error carried from the remote boundary up to the UI,
// which owns the user-facing messaging.
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap attaches an underlying cause to a typed error.
func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Transient(msg string, err error) *AppError { return Wrap(KindTransient, msg, err) }
func Validation(msg string) *AppError           { return New(KindValidation, msg) }
func Duplicate(msg string) *AppError            { return New(KindDuplicate, msg) }
func NotFound(msg string) *AppError             { return New(KindNotFound, msg) }
func Quota(msg string) *AppError                { return New(KindQuota, msg) }

// KindOf extracts the kind of an error, or "" for untyped errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsTransient reports whether the error is worth retrying later.
func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}

// IsValidation reports whether retrying could never change the outcome.
func IsValidation(err error) bool {
	k := KindOf(err)
	return k == KindValidation || k == KindDuplicate || k == KindQuota
}
