package api

import "errors"

var (
	// ErrUnknownServerSize is returned when a size label is not one of the known server sizes.
	ErrUnknownServerSize = errors.New("unknown server size")
	// ErrNoRequirement indicates a request that specifies neither a minimum CPU count nor a maximum price.
	ErrNoRequirement = errors.New("either minimum CPUs or maximum price must be specified")
	// ErrEmptyCatalog is returned when CPUs are requested but the catalog has no offers to allocate from.
	ErrEmptyCatalog = errors.New("catalog has no offers")
)
