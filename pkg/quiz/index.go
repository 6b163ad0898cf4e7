package quiz

import (
	"errors"

	"voicelines/pkg/domain"
)

// MinCharacterLines is the number of lines a character must exceed to be
// picked as a quiz answer.
const MinCharacterLines = 5

// ErrNoEligibleQuestion is returned when no character in the dataset has
// enough lines with at least one valid prompt among them.
var ErrNoEligibleQuestion = errors.New("no eligible quiz question")

type candidate struct {
	hero  string
	lines []domain.Line
}

// Index holds the valid prompt lines of every eligible character.
type Index struct {
	candidates []candidate
	total      int
}

// NewIndex scans the dataset once. It fails with ErrNoEligibleQuestion when
// nothing qualifies.
func NewIndex(ds *domain.Dataset, v *Validator) (*Index, error) {
	if v == nil {
		v = NewValidator(nil)
	}

	idx := &Index{}
	for _, char := range ds.Characters() {
		if len(char.Lines) <= MinCharacterLines {
			continue
		}
		var valid []domain.Line
		for _, line := range char.Lines {
			if v.IsValid(line.Text) {
				valid = append(valid, line)
			}
		}
		if len(valid) == 0 {
			continue
		}
		idx.candidates = append(idx.candidates, candidate{hero: char.Hero, lines: valid})
		idx.total += len(valid)
	}

	if len(idx.candidates) == 0 {
		return nil, ErrNoEligibleQuestion
	}
	return idx, nil
}

// Characters returns the number of eligible characters.
func (i *Index) Characters() int { return len(i.candidates) }

// Lines returns the number of valid prompt lines across all characters.
func (i *Index) Lines() int { return i.total }
