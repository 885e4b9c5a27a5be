package alumnietl

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind classifies a pipeline failure by the stage it belongs to and how
// the run reacts to it.
type Kind int

const (
	// KindUnknown marks errors that carry no pipeline classification.
	KindUnknown Kind = iota

	// KindConfiguration: required environment values are missing. Fatal
	// before any external service is contacted.
	KindConfiguration

	// KindConnection: a client handle could not be built. Fatal, pre-flight.
	KindConnection

	// KindExtraction: the source fetch failed. Fatal, aborts the run.
	KindExtraction

	// KindLoad: one table's warehouse load failed. Recorded per table;
	// sibling loads still run.
	KindLoad

	// KindDatasetNotFound: the configured dataset does not exist in the
	// warehouse project. A per-table load failure like KindLoad.
	KindDatasetNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration error"
	case KindConnection:
		return "connection error"
	case KindExtraction:
		return "extraction error"
	case KindLoad:
		return "load error"
	case KindDatasetNotFound:
		return "dataset not found"
	default:
		return "unknown error"
	}
}

// Error tags an underlying failure with its Kind and, for load failures,
// the destination table.
type Error struct {
	Kind  Kind
	Table string

	err error
}

func (e *Error) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: table %s: %v", e.Kind, e.Table, e.err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// KindOf reports the classification carried by err, unwrapping as needed.
func KindOf(err error) Kind {
	var e *Error
	if xerrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
