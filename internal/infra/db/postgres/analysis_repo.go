package postgres

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

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO video_analyses
  (id, user_id, video_url, video_title, transcript, summary, key_points, quiz, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  video_title=EXCLUDED.video_title,
  transcript=EXCLUDED.transcript,
  summary=EXCLUDED.summary,
  key_points=EXCLUDED.key_points,
  quiz=EXCLUDED.quiz,
  status=EXCLUDED.status;
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

// Get by ID + owner; foreign records surface as not found.
func (r *AnalysisRepository) Get(ctx context.Context, userID string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT id, user_id, video_url, video_title, transcript, summary, key_points, quiz, status, created_at
FROM video_analyses
WHERE user_id=$1 AND id=$2
LIMIT 1;`
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

// History per owner ordered by created_at desc, transcript excluded.
func (r *AnalysisRepository) History(ctx context.Context, userID string) ([]*domain.Analysis, error) {
	const q = `
SELECT id, user_id, video_url, video_title, '', summary, key_points, quiz, status, created_at
FROM video_analyses
WHERE user_id=$1
ORDER BY created_at DESC, id DESC;`
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

// Delete removes the owner's record.
func (r *AnalysisRepository) Delete(ctx context.Context, userID string, id domain.AnalysisID) error {
	const q = `DELETE FROM video_analyses WHERE user_id=$1 AND id=$2;`
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

func jsonOrEmpty(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
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
