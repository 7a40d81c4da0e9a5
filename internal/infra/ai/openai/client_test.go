package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/rakhadjo/vidlearn/internal/domain/ai"
)

func TestNoAPIKeyFailsFast(t *testing.T) {
	c := NewClient("", "gpt-3.5-turbo")
	assert.False(t, c.HasCredentials())

	_, err := c.GenerateSummary(context.Background(), "transcript", "title")
	require.ErrorIs(t, err, domai.ErrNoAPIKey)
	_, err = c.GenerateKeyPoints(context.Background(), "transcript", "title")
	require.ErrorIs(t, err, domai.ErrNoAPIKey)
	_, err = c.GenerateQuiz(context.Background(), "transcript", "title")
	require.ErrorIs(t, err, domai.ErrNoAPIKey)
}

func TestDecodeKeyPoints(t *testing.T) {
	valid := `{"keyPoints":[
		{"title":"One","description":"d1"},
		{"title":"Two","description":"d2"},
		{"title":"Three","description":"d3"},
		{"title":"Four","description":"d4"},
		{"title":"Five","description":"d5"},
		{"title":"Six","description":"d6"}
	]}`

	points, err := decodeKeyPoints(valid)
	require.NoError(t, err)
	// extra items are truncated, like the upstream slice(0, 5)
	require.Len(t, points, 5)
	assert.Equal(t, "One", points[0].Title)
	assert.Equal(t, "Five", points[4].Title)
}

func TestDecodeKeyPointsFailsClosed(t *testing.T) {
	cases := map[string]string{
		"not json":           `key points: one, two`,
		"wrong shape":        `{"points":[]}`,
		"too few":            `{"keyPoints":[{"title":"a","description":"b"}]}`,
		"empty description":  `{"keyPoints":[{"title":"a","description":""},{"title":"b","description":"x"},{"title":"c","description":"x"},{"title":"d","description":"x"},{"title":"e","description":"x"}]}`,
		"array not object":   `[{"title":"a","description":"b"}]`,
		"json inside prose":  `Here you go: {"keyPoints":[]} hope it helps`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeKeyPoints(raw)
			require.ErrorIs(t, err, domai.ErrMalformedOutput)
		})
	}
}

func TestDecodeQuiz(t *testing.T) {
	valid := `{"questions":[
		{"questionText":"Q1?","options":["a","b","c","d"],"correctAnswer":"a"},
		{"questionText":"Q2?","options":["a","b","c","d"],"correctAnswer":"b"},
		{"questionText":"Q3?","options":["a","b","c","d"],"correctAnswer":"c"},
		{"questionText":"Q4?","options":["a","b","c","d"],"correctAnswer":"d"},
		{"questionText":"Q5?","options":["a","b","c","d"],"correctAnswer":"a"}
	]}`

	quiz, err := decodeQuiz(valid)
	require.NoError(t, err)
	require.Len(t, quiz, 4)
	for _, q := range quiz {
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.CorrectAnswer)
		assert.Empty(t, q.ID) // ids are assigned by the pipeline, not here
	}
}

func TestDecodeQuizFailsClosed(t *testing.T) {
	cases := map[string]string{
		"not json":  `1. What is Go?`,
		"too few":   `{"questions":[{"questionText":"Q?","options":["a","b","c","d"],"correctAnswer":"a"}]}`,
		"three options": `{"questions":[
			{"questionText":"Q1?","options":["a","b","c"],"correctAnswer":"a"},
			{"questionText":"Q2?","options":["a","b","c","d"],"correctAnswer":"b"},
			{"questionText":"Q3?","options":["a","b","c","d"],"correctAnswer":"c"},
			{"questionText":"Q4?","options":["a","b","c","d"],"correctAnswer":"d"}
		]}`,
		"answer not an option": `{"questions":[
			{"questionText":"Q1?","options":["a","b","c","d"],"correctAnswer":"e"},
			{"questionText":"Q2?","options":["a","b","c","d"],"correctAnswer":"b"},
			{"questionText":"Q3?","options":["a","b","c","d"],"correctAnswer":"c"},
			{"questionText":"Q4?","options":["a","b","c","d"],"correctAnswer":"d"}
		]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeQuiz(raw)
			require.ErrorIs(t, err, domai.ErrMalformedOutput)
		})
	}
}
