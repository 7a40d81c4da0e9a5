package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/rakhadjo/vidlearn/internal/domain/analysis"
)

// ---- fakes ----

type memRepo struct {
	mu        sync.Mutex
	recs      map[domain.AnalysisID]*domain.Analysis
	saveCalls int
	failFrom  int // fail Save calls numbered >= failFrom (1-based), 0 = never
}

func newMemRepo() *memRepo {
	return &memRepo{recs: make(map[domain.AnalysisID]*domain.Analysis)}
}

func (r *memRepo) Save(ctx context.Context, a *domain.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.failFrom > 0 && r.saveCalls >= r.failFrom {
		return errors.New("db write failed")
	}
	cp := *a
	r.recs[a.ID] = &cp
	return nil
}

func (r *memRepo) Get(ctx context.Context, userID string, id domain.AnalysisID) (*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.recs[id]
	if !ok || a.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepo) History(ctx context.Context, userID string) ([]*domain.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Analysis
	for _, a := range r.recs {
		if a.UserID != userID {
			continue
		}
		cp := *a
		cp.Transcript = ""
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) Delete(ctx context.Context, userID string, id domain.AnalysisID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.recs[id]
	if !ok || a.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.recs, id)
	return nil
}

type stubFetcher struct {
	text string
	err  error
}

func (f stubFetcher) Fetch(ctx context.Context, videoURL string) (string, error) {
	return f.text, f.err
}

type stubGenerator struct {
	mu      sync.Mutex
	calls   int
	hasKey  bool
	summary string
	points  []domain.KeyPoint
	quiz    []domain.QuizQuestion

	summaryErr error
	pointsErr  error
	quizErr    error
}

func (g *stubGenerator) HasCredentials() bool { return g.hasKey }

func (g *stubGenerator) called() {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
}

func (g *stubGenerator) GenerateSummary(ctx context.Context, transcript, title string) (string, error) {
	g.called()
	return g.summary, g.summaryErr
}

func (g *stubGenerator) GenerateKeyPoints(ctx context.Context, transcript, title string) ([]domain.KeyPoint, error) {
	g.called()
	return g.points, g.pointsErr
}

func (g *stubGenerator) GenerateQuiz(ctx context.Context, transcript, title string) ([]domain.QuizQuestion, error) {
	g.called()
	return g.quiz, g.quizErr
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func generatedContent() (string, []domain.KeyPoint, []domain.QuizQuestion) {
	points := make([]domain.KeyPoint, 5)
	for i := range points {
		points[i] = domain.KeyPoint{
			Title:       fmt.Sprintf("Point %d", i+1),
			Description: fmt.Sprintf("Description %d", i+1),
		}
	}
	quiz := make([]domain.QuizQuestion, 4)
	for i := range quiz {
		opts := []string{"A", "B", "C", "D"}
		quiz[i] = domain.QuizQuestion{
			QuestionText:  fmt.Sprintf("Question %d?", i+1),
			Options:       opts,
			CorrectAnswer: opts[i%len(opts)],
		}
	}
	return "A generated summary of the lecture.", points, quiz
}

func newService(repo *memRepo, fetcher stubFetcher, gen *stubGenerator) *Service {
	return &Service{
		Repo:        repo,
		Transcripts: fetcher,
		Generator:   gen,
		Clock:       fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
}

const longTranscript = "This lecture walks through the fundamentals of distributed consensus, quorum intersection and leader election in fair detail."

// ---- tests ----

func TestAnalyzeGeneratedContent(t *testing.T) {
	repo := newMemRepo()
	summary, points, quiz := generatedContent()
	gen := &stubGenerator{hasKey: true, summary: summary, points: points, quiz: quiz}
	svc := newService(repo, stubFetcher{text: longTranscript}, gen)

	rec, dbg, err := svc.Analyze(context.Background(), AnalyzeCommand{
		UserID:     "user-1",
		VideoURL:   "https://youtu.be/abc12345678",
		VideoTitle: "Consensus 101",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, rec.Status)
	assert.False(t, dbg.UsedMock)
	assert.True(t, dbg.HasModelKey)
	assert.Equal(t, len(longTranscript), dbg.TranscriptLength)
	assert.Equal(t, summary, rec.Summary)
	assert.Len(t, rec.KeyPoints, 5)
	assert.Len(t, rec.Quiz, 4)

	for _, q := range rec.Quiz {
		assert.Contains(t, q.Options, q.CorrectAnswer)
		assert.Len(t, q.Options, 4)
	}

	// persisted, created + updated
	stored, err := repo.Get(context.Background(), "user-1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, longTranscript, stored.Transcript)
	assert.Equal(t, 2, repo.saveCalls)
}

func TestAnalyzeQuizIDsUnique(t *testing.T) {
	repo := newMemRepo()
	summary, points, quiz := generatedContent()
	gen := &stubGenerator{hasKey: true, summary: summary, points: points, quiz: quiz}
	svc := newService(repo, stubFetcher{text: longTranscript}, gen)

	rec, _, err := svc.Analyze(context.Background(), AnalyzeCommand{UserID: "u", VideoURL: "https://youtu.be/abc12345678"})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, q := range rec.Quiz {
		require.NotEmpty(t, q.ID)
		assert.False(t, seen[q.ID], "duplicate quiz id %s", q.ID)
		seen[q.ID] = true
	}
}

func TestAnalyzeShortTranscriptUsesMock(t *testing.T) {
	repo := newMemRepo()
	gen := &stubGenerator{hasKey: true}
	svc := newService(repo, stubFetcher{text: "ten words only"}, gen)

	rec, dbg, err := svc.Analyze(context.Background(), AnalyzeCommand{
		UserID:     "user-1",
		VideoURL:   "https://youtu.be/abc12345678",
		VideoTitle: "Intro",
	})
	require.NoError(t, err)

	assert.True(t, dbg.UsedMock)
	assert.NotEmpty(t, dbg.Reason)
	assert.Equal(t, domain.StatusCompleted, rec.Status)
	assert.Equal(t,
		`This analysis for "Intro" provides a practical overview with core concepts, real-world examples, and suggested next steps for deeper learning.`,
		rec.Summary,
	)

	require.Len(t, rec.KeyPoints, 5)
	titles := make([]string, 0, 5)
	for _, p := range rec.KeyPoints {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Core Concepts", "Real Examples", "Best Practices", "Challenges", "Next Steps"}, titles)

	require.Len(t, rec.Quiz, 4)
	for _, q := range rec.Quiz {
		assert.Contains(t, q.Options, q.CorrectAnswer)
	}

	// model must not be consulted at all on the short path
	assert.Zero(t, gen.calls)
}

func TestAnalyzeFetchFailureUsesMock(t *testing.T) {
	repo := newMemRepo()
	gen := &stubGenerator{hasKey: true}
	svc := newService(repo, stubFetcher{err: errors.New("no captions")}, gen)

	rec, dbg, err := svc.Analyze(context.Background(), AnalyzeCommand{UserID: "u", VideoURL: "https://youtu.be/abc12345678"})
	require.NoError(t, err)

	assert.True(t, dbg.UsedMock)
	assert.Contains(t, dbg.Reason, "transcript unavailable")
	assert.Zero(t, dbg.TranscriptLength)
	assert.Equal(t, domain.StatusCompleted, rec.Status)
}

func TestAnalyzeGeneratorFailureDiscardsWholeBatch(t *testing.T) {
	repo := newMemRepo()
	summary, points, _ := generatedContent()
	gen := &stubGenerator{
		hasKey:  true,
		summary: summary,
		points:  points,
		quizErr: errors.New("model timeout"),
	}
	svc := newService(repo, stubFetcher{text: longTranscript}, gen)

	rec, dbg, err := svc.Analyze(context.Background(), AnalyzeCommand{
		UserID: "u", VideoURL: "https://youtu.be/abc12345678", VideoTitle: "Raft",
	})
	require.NoError(t, err)

	// partial success is never kept: one failed call voids all three
	assert.True(t, dbg.UsedMock)
	assert.Contains(t, dbg.Reason, "generation failed")
	assert.NotEqual(t, summary, rec.Summary)
	assert.True(t, strings.Contains(rec.Summary, "Raft"))
	assert.Len(t, rec.KeyPoints, 5)
	assert.Equal(t, "Core Concepts", rec.KeyPoints[0].Title)
}

func TestAnalyzeNoCredentialsUsesMock(t *testing.T) {
	repo := newMemRepo()
	gen := &stubGenerator{hasKey: false}
	svc := newService(repo, stubFetcher{text: longTranscript}, gen)

	rec, dbg, err := svc.Analyze(context.Background(), AnalyzeCommand{UserID: "u", VideoURL: "https://youtu.be/abc12345678"})
	require.NoError(t, err)

	assert.True(t, dbg.UsedMock)
	assert.False(t, dbg.HasModelKey)
	assert.Equal(t, "model credentials missing", dbg.Reason)
	assert.Zero(t, gen.calls)
	assert.Equal(t, domain.StatusCompleted, rec.Status)
}

func TestAnalyzeMissingVideoURL(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, stubFetcher{}, &stubGenerator{})

	_, _, err := svc.Analyze(context.Background(), AnalyzeCommand{UserID: "u", VideoURL: "  "})
	require.ErrorIs(t, err, ErrMissingVideoURL)
	assert.Zero(t, repo.saveCalls)
}

func TestAnalyzeDefaultsTitle(t *testing.T) {
	repo := newMemRepo()
	gen := &stubGenerator{hasKey: true}
	svc := newService(repo, stubFetcher{text: "short"}, gen)

	rec, _, err := svc.Analyze(context.Background(), AnalyzeCommand{UserID: "u", VideoURL: "https://youtu.be/abc12345678"})
	require.NoError(t, err)
	assert.Equal(t, "Untitled Video", rec.VideoTitle)
	assert.Contains(t, rec.Summary, "Untitled Video")
}

func TestAnalyzeFinalSaveFailureCleansUp(t *testing.T) {
	repo := newMemRepo()
	repo.failFrom = 2
	gen := &stubGenerator{hasKey: true}
	svc := newService(repo, stubFetcher{text: "short"}, gen)

	_, _, err := svc.Analyze(context.Background(), AnalyzeCommand{UserID: "u", VideoURL: "https://youtu.be/abc12345678"})
	require.Error(t, err)

	// the processing row from the first save must not linger
	assert.Empty(t, repo.recs)
}

func TestAnalyzeInitialSaveFailurePropagates(t *testing.T) {
	repo := newMemRepo()
	repo.failFrom = 1
	svc := newService(repo, stubFetcher{text: "short"}, &stubGenerator{hasKey: true})

	_, _, err := svc.Analyze(context.Background(), AnalyzeCommand{UserID: "u", VideoURL: "https://youtu.be/abc12345678"})
	require.Error(t, err)
	assert.Empty(t, repo.recs)
}

func TestHistoryNewestFirstWithoutTranscript(t *testing.T) {
	repo := newMemRepo()
	gen := &stubGenerator{hasKey: true}
	svc := &Service{Repo: repo, Transcripts: stubFetcher{text: "short"}, Generator: gen, Clock: fixedClock{t: time.Now()}}

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := &domain.Analysis{
			ID:         domain.AnalysisID(fmt.Sprintf("0000000%d-0000-0000-0000-000000000000", i)),
			UserID:     "u",
			VideoURL:   "https://youtu.be/abc12345678",
			Transcript: "raw captions",
			Status:     domain.StatusCompleted,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.Save(context.Background(), rec))
	}

	list, err := svc.History(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].CreatedAt.After(list[i].CreatedAt))
	}
	for _, a := range list {
		assert.Empty(t, a.Transcript)
	}
}

func TestDeleteOwnershipIsolation(t *testing.T) {
	repo := newMemRepo()
	svc := newService(repo, stubFetcher{text: "short"}, &stubGenerator{hasKey: true})

	rec, _, err := svc.Analyze(context.Background(), AnalyzeCommand{UserID: "owner", VideoURL: "https://youtu.be/abc12345678"})
	require.NoError(t, err)

	// a different caller sees not-found, never permission-denied
	err = svc.Delete(context.Background(), "intruder", rec.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "intruder", rec.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), "owner", rec.ID))
	_, err = svc.Get(context.Background(), "owner", rec.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
