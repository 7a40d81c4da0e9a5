package prompt

import "fmt"

// GetKeyPointsSystemPrompt provides strict directions and schema for JSON output.
func GetKeyPointsSystemPrompt() string {
	return `You are an expert at identifying and extracting key learning points from educational content. You must produce one valid JSON object only (no markdown, no commentary, no code fences) following this schema:

{
  "keyPoints": [
    {"title": "<3-6 words>", "description": "<1-2 sentences>"}
  ]
}

The keyPoints array must contain exactly 5 items.`
}

// GetKeyPointsUserPrompt builds the key-point request around transcript + title.
func GetKeyPointsUserPrompt(transcript, videoTitle string) string {
	return fmt.Sprintf(`You are an AI assistant helping students learn from videos.

Video Title: %s

Transcript:
%s

Task: Extract exactly 5 key learning points from this video. For each point, provide a short title (3-6 words) and a brief description (1-2 sentences). Respond with the JSON object per schema.`, videoTitle, transcript)
}
