package models

import "errors"

// Failure taxonomy for the whole service. Handlers map these to HTTP
// statuses; nothing is retried automatically.
var (
	// ErrAuthDenied means the identifier is not a referral code and not a
	// paid email. User-correctable.
	ErrAuthDenied = errors.New("access denied")

	// ErrConnection means the remote store or the vision model could not
	// be reached. Transient; the caller should surface "try again", not
	// "denied".
	ErrConnection = errors.New("connection error")

	// ErrParse means the model reply could not be decoded into a
	// nutrition record. The caller asks the user to retake the photo
	// rather than logging a zeroed entry.
	ErrParse = errors.New("could not parse model reply")

	// ErrDataFormat means a stored ledger row had an unexpected shape
	// during aggregation.
	ErrDataFormat = errors.New("unexpected ledger data format")

	// ErrStore means an append or read against the ledger store failed.
	ErrStore = errors.New("store error")

	// ErrDraftNotFound means the pending analysis draft expired or never
	// existed.
	ErrDraftNotFound = errors.New("draft not found")
)
