package trash

import (
	"errors"
	"io/fs"
	"syscall"
)

// Errors returned by the store, the mover and the manager.
// Every failure surfaces as one of these, wrapped in a *StorageError.
var (
	// ErrStorageUnavailable is returned when the trash root cannot be created or is not writable
	ErrStorageUnavailable = errors.New("trash storage unavailable")

	// ErrSourceUnreadable is returned when the source cannot be opened or read
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrDestinationWriteFailed is returned when the destination cannot be created or written
	ErrDestinationWriteFailed = errors.New("destination write failed")

	// ErrSourceDeleteFailed is returned when the copy succeeded but the source could not be removed.
	// The copy is kept.
	ErrSourceDeleteFailed = errors.New("source delete failed")

	// ErrNameCollision is returned when the logical name is taken and the policy is reject
	ErrNameCollision = errors.New("name already exists in trash")

	// ErrNotFound is returned when a logical name is not in trash
	ErrNotFound = errors.New("not found in trash")

	// ErrDestinationExists is returned when a restore target is already taken
	ErrDestinationExists = errors.New("destination already exists")

	// ErrPermissionDenied is returned when the underlying medium refuses the operation
	ErrPermissionDenied = errors.New("permission denied")
)

// StorageError wraps an error with additional context about the trash operation
type StorageError struct {
	// Op is the operation that failed (e.g., "trash", "restore", "purge")
	Op string

	// Name is the logical name or path the operation was acting on
	Name string

	// Err is the underlying error
	Err error
}

func (e *StorageError) Error() string {
	if e.Name == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Name + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError.
// An error that already is a *StorageError is returned unchanged.
func NewStorageError(op, name string, err error) error {
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{
		Op:   op,
		Name: name,
		Err:  err,
	}
}

// kindError joins a sentinel with the OS error that caused it so that both
// match with errors.Is.
type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func wrapKind(kind, cause error) error {
	return &kindError{kind: kind, cause: cause}
}

// classify maps an OS error onto the taxonomy, falling back to def.
func classify(err, def error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, syscall.EROFS):
		return wrapKind(ErrStorageUnavailable, err)
	case errors.Is(err, fs.ErrPermission):
		return wrapKind(ErrPermissionDenied, err)
	default:
		return wrapKind(def, err)
	}
}

func IsStorageUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

func IsSourceUnreadable(err error) bool {
	return errors.Is(err, ErrSourceUnreadable)
}

func IsDestinationWriteFailed(err error) bool {
	return errors.Is(err, ErrDestinationWriteFailed)
}

// IsSourceDeleteFailed reports a partial success: the data reached its
// destination but the original is still in place.
func IsSourceDeleteFailed(err error) bool {
	return errors.Is(err, ErrSourceDeleteFailed)
}

func IsNameCollision(err error) bool {
	return errors.Is(err, ErrNameCollision)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDestinationExists(err error) bool {
	return errors.Is(err, ErrDestinationExists)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
