package analysis

import "errors"

// ErrMissingVideoURL indicates the one required analyze field is absent.
var ErrMissingVideoURL = errors.New("video url is required")
