package relax

import (
	"errors"
	"fmt"

	"github.com/hupe1980/relax/blobstore"
	"github.com/hupe1980/relax/layout"
	"github.com/hupe1980/relax/snapshot"
	"github.com/hupe1980/relax/vecmath"
)

var (
	// ErrNotFound is returned when a layout name or snapshot does not exist.
	ErrNotFound = blobstore.ErrNotFound

	// ErrCorrupt is returned when a stored snapshot cannot be decoded.
	ErrCorrupt = snapshot.ErrCorrupt

	// ErrInvalidLayout is returned for layouts that fail validation.
	ErrInvalidLayout = layout.ErrInvalidLayout

	// ErrNoStore is returned by persistence calls on an engine without a store.
	ErrNoStore = errors.New("no blob store configured")

	// ErrInvalidName is returned for layout names that are empty or contain
	// path separators.
	ErrInvalidName = errors.New("invalid layout name")

	// ErrInvalidMode is returned for unknown relaxation modes.
	ErrInvalidMode = errors.New("invalid relaxation mode")
)

// ErrDimensionMismatch indicates points of differing dimensionality.
type ErrDimensionMismatch = vecmath.ErrDimensionMismatch

// JobError reports which batch job failed.
//
// The underlying error is available via errors.Unwrap.
type JobError struct {
	Index int
	ID    string
	cause error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job %d (%s): %v", e.Index, e.ID, e.cause)
}

func (e *JobError) Unwrap() error { return e.cause }
