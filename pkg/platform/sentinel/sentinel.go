package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and collaborator adapters
// return these (optionally wrapped) so services can translate them into domain
// errors:
//   - ErrNotFound: row does not exist in the store
//   - ErrConflict: a write collided with an existing natural key
//   - ErrInvalidState: entity in wrong state for the requested write
//   - ErrUnavailable: collaborator (storage, OCR, retrieval, reasoning) could not be reached
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
