package transcript

import "context"

// Fetcher port for the transcript provider: turn a video URL into the full
// caption text. Failures are sentinel-wrapped so callers can fall back.
type Fetcher interface {
	Fetch(ctx context.Context, videoURL string) (string, error)
}
