package analysis

import (
	"fmt"

	domain "github.com/rakhadjo/vidlearn/internal/domain/analysis"
)

// Deterministic placeholder content, substituted whenever the transcript or
// the model is unavailable. The record itself does not distinguish mock from
// generated output; only the Debug annotation does.

func mockSummary(videoTitle string) string {
	return fmt.Sprintf(`This analysis for %q provides a practical overview with core concepts, real-world examples, and suggested next steps for deeper learning.`, videoTitle)
}

func mockKeyPoints() []domain.KeyPoint {
	return []domain.KeyPoint{
		{
			Title:       "Core Concepts",
			Description: "The foundational ideas the video is built around, introduced step by step.",
		},
		{
			Title:       "Real Examples",
			Description: "Worked examples that show the concepts applied to concrete situations.",
		},
		{
			Title:       "Best Practices",
			Description: "Industry-standard approaches and methodologies worth adopting.",
		},
		{
			Title:       "Challenges",
			Description: "Common pitfalls viewers run into and how to avoid them.",
		},
		{
			Title:       "Next Steps",
			Description: "Suggested directions for practice and deeper study after watching.",
		},
	}
}

func mockQuiz() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{
			QuestionText: "What is the primary focus of the video?",
			Options: []string{
				"Introduction with practical examples",
				"Advanced technical details only",
				"Historical background",
				"Competitor analysis",
			},
			CorrectAnswer: "Introduction with practical examples",
		},
		{
			QuestionText: "Which concept was emphasized the most?",
			Options: []string{
				"Theoretical knowledge",
				"Practical applications and real-world scenarios",
				"Historical facts",
				"Mathematical proofs",
			},
			CorrectAnswer: "Practical applications and real-world scenarios",
		},
		{
			QuestionText: "What are the common challenges mentioned?",
			Options: []string{
				"High costs only",
				"Technical and practical pitfalls to avoid",
				"Weather-related issues",
				"Government regulations",
			},
			CorrectAnswer: "Technical and practical pitfalls to avoid",
		},
		{
			QuestionText: "What does the video recommend for further learning?",
			Options: []string{
				"Stop learning after this video",
				"Exploration and practice",
				"Only theoretical study",
				"Professional certification only",
			},
			CorrectAnswer: "Exploration and practice",
		},
	}
}
