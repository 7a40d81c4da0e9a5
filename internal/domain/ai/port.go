package ai

import (
	"context"

	"github.com/rakhadjo/vidlearn/internal/domain/analysis"
)

// Generator port for the language-model provider. Quiz questions come back
// without ids; the pipeline assigns them.
type Generator interface {
	GenerateSummary(ctx context.Context, transcript, videoTitle string) (string, error)
	GenerateKeyPoints(ctx context.Context, transcript, videoTitle string) ([]analysis.KeyPoint, error)
	GenerateQuiz(ctx context.Context, transcript, videoTitle string) ([]analysis.QuizQuestion, error)
	// HasCredentials reports whether the provider is configured at all.
	HasCredentials() bool
}
