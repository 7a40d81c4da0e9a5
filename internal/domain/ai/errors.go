package ai

import "errors"

// ErrNoAPIKey indicates the provider credential is missing from config.
var ErrNoAPIKey = errors.New("ai api key missing")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrMalformedOutput indicates the model reply could not be decoded into the
// requested schema. Treated as a generation failure, never recovered leniently.
var ErrMalformedOutput = errors.New("ai output does not match schema")
