package quiz

import "errors"

// ErrNoQuiz indicates the record exists but has no quiz to grade.
var ErrNoQuiz = errors.New("no quiz available for this video")

// ErrMissingFields indicates the submit body lacked videoId or answers.
var ErrMissingFields = errors.New("video id and answers are required")
