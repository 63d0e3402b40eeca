package inventory

import "errors"

var (
	// ErrForbidden: the actor lacks the capability the operation requires.
	ErrForbidden = errors.New("actor lacks required capability")
	// ErrSessionNotFound: no session with the given id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrAssetNotFound: a referenced asset (e.g. the clone source) does not
	// exist in the catalog.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrInvalidTransition: the session's current status does not allow the
	// requested event.
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	// ErrCommentRequired: rejection without an explanation is not accepted.
	ErrCommentRequired = errors.New("a non-empty comment is required")
	// ErrLocationRequired: a session must target a full region/city/building
	// triple.
	ErrLocationRequired = errors.New("region, city and building are required")
	// ErrBarcodeRequired: a scan event without a barcode is meaningless.
	ErrBarcodeRequired = errors.New("barcode is required")
)
