package domain

import "errors"

var (
	ErrQuestionRequired  = errors.New("question is required")
	ErrInvalidValidation = errors.New("invalid answer validation mode")
)

var (
	ErrAnswerMissingData = errors.New("answer has no data object")
	ErrAnswerNoQuestion  = errors.New("answer does not echo the question")
	ErrPurportCount      = errors.New("answer purport count out of range")
	ErrPurportIncomplete = errors.New("purport is missing required fields")
	ErrNoSuggestions     = errors.New("answer has no practical suggestions")
)
