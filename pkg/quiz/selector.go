package quiz

import (
	"math/rand"

	"voicelines/pkg/domain"
)

// repeatAttempts bounds resampling when the drawn line equals the previous one.
const repeatAttempts = 8

// Question is one quiz round.
type Question struct {
	Line     domain.Line
	Expected string
	Display  string
	AudioURL string
}

// Selector draws questions from an Index. A character is chosen uniformly
// among eligible characters, then one of its valid lines uniformly.
type Selector struct {
	index    *Index
	rng      *rand.Rand
	baseHost string
}

// NewSelector builds a selector. A nil rng uses a time-seeded source.
func NewSelector(index *Index, rng *rand.Rand, baseHost string) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if baseHost == "" {
		baseHost = domain.DefaultBaseHost
	}
	return &Selector{index: index, rng: rng, baseHost: baseHost}
}

// Next returns a new question. When previous is set and the index has more
// than one line, the same line is avoided.
func (s *Selector) Next(previous *Question) (Question, error) {
	if s.index == nil || len(s.index.candidates) == 0 {
		return Question{}, ErrNoEligibleQuestion
	}

	q := s.draw()
	if previous != nil && s.index.total > 1 {
		for range repeatAttempts {
			if !sameLine(q, *previous) {
				break
			}
			q = s.draw()
		}
	}
	return q, nil
}

func (s *Selector) draw() Question {
	c := s.index.candidates[s.rng.Intn(len(s.index.candidates))]
	line := c.lines[s.rng.Intn(len(c.lines))]
	return Question{
		Line:     line,
		Expected: c.hero,
		Display:  DisplayText(line.Text),
		AudioURL: domain.ResolveAudio(s.baseHost, line.Audio),
	}
}

func sameLine(a, b Question) bool {
	return a.Expected == b.Expected && a.Line == b.Line
}
