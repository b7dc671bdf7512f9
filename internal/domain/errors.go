package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been created.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrParticipantNotFound is returned when an id does not match anyone on the wheel.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrPoolNotFound means a loader has no questions for a language/category pair.
	ErrPoolNotFound = errors.New("question pool not found")
	// ErrRemoteUnavailable means the question generator is not configured or over budget.
	ErrRemoteUnavailable = errors.New("remote question generator unavailable")
	// ErrMalformedPayload means the generator answered with an unusable body.
	ErrMalformedPayload = errors.New("malformed question payload")
	// ErrInvalidCategory indicates an unknown category value.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidDifficulty indicates an unknown difficulty value.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrInvalidLanguage indicates an unsupported language.
	ErrInvalidLanguage = errors.New("invalid language")
	// ErrIncompleteQuestion is returned when a custom question lacks its text or answer.
	ErrIncompleteQuestion = errors.New("question and answer are required")
	// ErrQuestionNotFound is returned when a custom question id does not exist.
	ErrQuestionNotFound = errors.New("question not found")
)
