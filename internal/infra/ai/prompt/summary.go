package prompt

import "fmt"

// GetSummarySystemPrompt sets the analyzer persona for summary generation.
func GetSummarySystemPrompt() string {
	return "You are an expert educational content analyzer who creates clear, concise summaries for students."
}

// GetSummaryUserPrompt builds the summary request around transcript + title.
func GetSummaryUserPrompt(transcript, videoTitle string) string {
	return fmt.Sprintf(`You are an AI assistant helping students learn from videos.

Video Title: %s

Transcript:
%s

Task: Create a comprehensive summary (3-5 sentences) of the main ideas and key takeaways from this video. Focus on the most important concepts and learning points.

Summary:`, videoTitle, transcript)
}
