package services

import "errors"

// Sentinel failures shared across services. Not-found and validation
// conditions are folded straight into {ok:false, message} results (with
// gorm.ErrRecordNotFound as the storage-level signal), so only the classes
// that cross function boundaries need sentinels.
var (
	ErrUpstreamUnavailable = errors.New("external provider unavailable")
	ErrAlreadyCompleted    = errors.New("quest already completed")
)
