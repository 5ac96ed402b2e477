package api

import "errors"

// Error kinds surfaced by the client. Callers match with errors.Is; the wrapped
// error carries the transport or server detail.
var (
	// ErrAuth means the login endpoint rejected the credentials.
	ErrAuth = errors.New("authentication failed")

	// ErrFetch means a collection load failed; whatever was cached before stays valid.
	ErrFetch = errors.New("fetch failed")

	// ErrUpdate means the backend rejected a status update or the request never arrived.
	ErrUpdate = errors.New("status update failed")

	// ErrSubmit means a report or task submission was rejected.
	ErrSubmit = errors.New("submission failed")
)
