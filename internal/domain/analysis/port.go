package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	// Save inserts a new record or updates an existing one by id.
	Save(ctx context.Context, a *Analysis) error
	// Get returns the record only when it is owned by userID.
	Get(ctx context.Context, userID string, id AnalysisID) (*Analysis, error)
	// History returns the caller's records newest first, transcript excluded.
	History(ctx context.Context, userID string) ([]*Analysis, error)
	// Delete removes the record when owned by userID; ErrNotFound otherwise.
	Delete(ctx context.Context, userID string, id AnalysisID) error
}

// TranscriptArchive port (interface untuk penyimpanan transcript mentah)
type TranscriptArchive interface {
	Store(ctx context.Context, key string, transcript string) (string, error)
}
