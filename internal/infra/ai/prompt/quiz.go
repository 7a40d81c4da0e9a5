package prompt

import "fmt"

// GetQuizSystemPrompt provides strict directions and schema for JSON output.
func GetQuizSystemPrompt() string {
	return `You are an expert quiz creator for educational content. You must produce one valid JSON object only (no markdown, no commentary, no code fences) following this schema:

{
  "questions": [
    {
      "questionText": "<clear, specific question>",
      "options": ["<A>", "<B>", "<C>", "<D>"],
      "correctAnswer": "<must match one of options exactly>"
    }
  ]
}

The questions array must contain exactly 4 items, each with exactly 4 options.`
}

// GetQuizUserPrompt builds the quiz request around transcript + title.
func GetQuizUserPrompt(transcript, videoTitle string) string {
	return fmt.Sprintf(`You are an AI assistant creating quiz questions for students.

Video Title: %s

Transcript:
%s

Task: Create exactly 4 multiple-choice quiz questions based on the content of this video. Make questions test understanding, not just recall, and include a mix of difficulty levels. Respond with the JSON object per schema.`, videoTitle, transcript)
}
