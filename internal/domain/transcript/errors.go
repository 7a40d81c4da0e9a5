package transcript

import "errors"

// ErrInvalidURL indicates the video reference could not be parsed.
var ErrInvalidURL = errors.New("invalid video url")

// ErrUnavailable indicates the video has no fetchable captions.
var ErrUnavailable = errors.New("transcript not available")
