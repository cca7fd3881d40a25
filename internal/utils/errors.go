package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidRequest   = errors.New("INVALID_REQUEST")
	ErrInvalidOfferType = errors.New("INVALID_OFFER_TYPE")
	ErrInvalidSortOrder = errors.New("INVALID_SORT_ORDER")
	ErrOfferNotFound    = errors.New("OFFER_NOT_FOUND")
	ErrUnknownDevice    = errors.New("UNKNOWN_DEVICE")
	ErrUnknownCarrier   = errors.New("UNKNOWN_CARRIER")
	ErrUnknownStore     = errors.New("UNKNOWN_STORE")
	ErrForbiddenStore   = errors.New("FORBIDDEN_STORE")
	ErrInvalidToken     = errors.New("INVALID_TOKEN")
	// ErrRetrieval marks a storage failure (connectivity, timeout) during a
	// read. It is distinct from an empty result.
	ErrRetrieval = errors.New("RETRIEVAL_ERROR")
)
