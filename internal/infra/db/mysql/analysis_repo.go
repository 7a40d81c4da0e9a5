package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/rakhadjo/vidlearn/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save insert/update Analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO video_analyses
(id, user_id, video_url, video_title, transcript, summary, key_points, quiz, status, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 video_title=VALUES(video_title),
 transcript=VALUES(transcript),
 summary=VALUES(summary),
 key_points=VALUES(key_points),
 quiz=VALUES(quiz),
 status=VALUES(status);
`
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		a.ID, a.UserID, a.VideoURL, a.VideoTitle,
		a.Transcript, a.Summary,
		jsonOrEmpty(a.KeyPoints), jsonOrEmpty(a.Quiz),
		a.Status, created,
	)
	return err
}

// Get by ID + owner. A record owned by another user is reported as not
// found, never as forbidden.
func (r *AnalysisRepository) Get(ctx context.Context, userID string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, user_id, video_url, video_title, transcript, summary, key_points, quiz, status, created_at
FROM video_analyses
WHERE user_id=? AND id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, userID, id)

	a, err := scanAnalysis(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// History per owner, newest first. Transcript is deliberately not selected.
func (r *AnalysisRepository) History(ctx context.Context, userID string) ([]*domain.Analysis, error) {
	const q = `
SELECT id, user_id, video_url, video_title, '', summary, key_points, quiz, status, created_at
FROM video_analyses
WHERE user_id=? ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes the record when owned by userID.
func (r *AnalysisRepository) Delete(ctx context.Context, userID string, id domain.AnalysisID) error {
	const q = `DELETE FROM video_analyses WHERE user_id=? AND id=?;`
	res, err := r.db.ExecContext(ctx, q, userID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAnalysis(scan func(dest ...any) error) (*domain.Analysis, error) {
	var a domain.Analysis
	var keyPoints, quiz []byte
	if err := scan(
		&a.ID, &a.UserID, &a.VideoURL, &a.VideoTitle, &a.Transcript,
		&a.Summary, &keyPoints, &quiz, &a.Status, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(keyPoints, &a.KeyPoints); err != nil {
		return nil, fmt.Errorf("decoding key_points: %w", err)
	}
	if err := json.Unmarshal(quiz, &a.Quiz); err != nil {
		return nil, fmt.Errorf("decoding quiz: %w", err)
	}
	return &a, nil
}
