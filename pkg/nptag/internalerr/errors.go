package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrMissingRuleFile   = errors.New("missing replacement rule file")
	ErrMissingIgnoreFile = errors.New("missing ignore file")
	ErrInvalidRuleLine   = errors.New("invalid replacement rule line")
	ErrExtractor         = errors.New("noun phrase extraction failed")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUsage             = errors.New("usage")
)
