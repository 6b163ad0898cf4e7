package quiz

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrAnswerLocked is returned when a round has already been answered.
	ErrAnswerLocked = errors.New("answer already submitted for this round")
	// ErrNoQuestion is returned when no round is in progress.
	ErrNoQuestion = errors.New("no question in progress")
)

// Result is the outcome of one guess.
type Result struct {
	Correct  bool
	Expected string
	Score    int
}

// Session tracks the streak score and the current round.
type Session struct {
	ID uuid.UUID

	selector *Selector
	score    int
	question *Question
	locked   bool
}

// NewSession creates an idle session.
func NewSession(selector *Selector) *Session {
	return &Session{ID: uuid.New(), selector: selector}
}

// Start resets the score and loads the first question.
func (s *Session) Start() (Question, error) {
	s.score = 0
	s.question = nil
	return s.Next()
}

// Next discards the current round and loads a new one.
func (s *Session) Next() (Question, error) {
	q, err := s.selector.Next(s.question)
	if err != nil {
		return Question{}, err
	}
	s.question = &q
	s.locked = false
	return q, nil
}

// Skip replaces the current question without touching the score.
func (s *Session) Skip() (Question, error) {
	return s.Next()
}

// Evaluate compares guess against the expected character name, exactly and
// case-sensitively. A hit extends the streak by one; anything else resets
// it to zero. The round is locked afterwards.
func (s *Session) Evaluate(guess string) (Result, error) {
	if s.question == nil {
		return Result{}, ErrNoQuestion
	}
	if s.locked {
		return Result{}, ErrAnswerLocked
	}

	correct := guess == s.question.Expected
	if correct {
		s.score++
	} else {
		s.score = 0
	}
	s.locked = true

	return Result{Correct: correct, Expected: s.question.Expected, Score: s.score}, nil
}

// Score returns the current streak.
func (s *Session) Score() int { return s.score }

// Question returns the current round, if any.
func (s *Session) Question() (Question, bool) {
	if s.question == nil {
		return Question{}, false
	}
	return *s.question, true
}

// Locked reports whether the current round has been answered.
func (s *Session) Locked() bool { return s.locked }

// End clears the current round, keeping the session ID.
func (s *Session) End() {
	s.question = nil
	s.locked = false
}
