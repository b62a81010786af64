package upload

import "errors"

var (
	ErrNoFile          = errors.New("No file uploaded")
	ErrFileTooLarge    = errors.New("File too large (max 5MB)")
	ErrTooManyFiles    = errors.New("Too many files")
	ErrUnsupportedType = errors.New("Only image files are allowed")
	ErrSuspiciousFile  = errors.New("Suspicious or invalid image file")
	ErrAllFilesInvalid = errors.New("All files were invalid")
)

// RemoteError wraps a failure reported by the remote asset host.
type RemoteError struct {
	Err error
}

func (e *RemoteError) Error() string {
	return e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
