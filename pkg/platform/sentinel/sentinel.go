package sentinel

import "errors"

// Infrastructure facts returned (optionally wrapped) by stores and caches.
// Services translate them into domain errors; they never reach clients
// directly.
//
//   - ErrNotFound: no row or key for the requested identifier
//   - ErrAlreadyUsed: a unique identifier (company number, VAT number) is taken
//   - ErrUnavailable: backing service down or its circuit is open
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
