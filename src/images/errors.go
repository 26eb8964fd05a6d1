package images

import "fmt"

// Why an uploaded file was rejected. These are user-correctable problems and
// their messages are safe to echo back to the uploader.
type RejectReason string

const (
	RejectMissingFile    RejectReason = "missing_file"
	RejectBadExtension   RejectReason = "bad_extension"
	RejectBadMimeType    RejectReason = "bad_mime_type"
	RejectTooLarge       RejectReason = "too_large"
	RejectNotAnImage     RejectReason = "not_an_image"
	RejectFormatMismatch RejectReason = "format_mismatch"
)

type ValidationError struct {
	Reason  RejectReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type SecurityViolation string

const (
	ViolationPathTraversal SecurityViolation = "path_traversal"
	ViolationAbsolutePath  SecurityViolation = "absolute_path"
	ViolationOutsideRoot   SecurityViolation = "outside_root"
)

// A filename tried to address something outside its content root. Detected
// before any filesystem access; always logged at warning level.
type SecurityError struct {
	Violation SecurityViolation
	Name      string // as submitted, nothing more
}

func (e *SecurityError) Error() string {
	switch e.Violation {
	case ViolationAbsolutePath:
		return fmt.Sprintf("absolute path not allowed: %s", e.Name)
	case ViolationOutsideRoot:
		return fmt.Sprintf("path escapes content root: %s", e.Name)
	default:
		return fmt.Sprintf("path traversal attempt: %s", e.Name)
	}
}

type StorageFailure string

const (
	StoragePermission StorageFailure = "permission"
	StorageIOFailure  StorageFailure = "io_failure"
	StorageNotAFile   StorageFailure = "not_a_file"
)

// An operational filesystem problem. Callers show a generic message to the
// user and log the wrapped error server-side.
type StorageError struct {
	Failure StorageFailure
	Op      string
	Path    string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Failure)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
