package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidTerm   = errors.New("invalid term")
	ErrDuplicateTerm = errors.New("duplicate term id")
)

// Term is one enrichment-analysis result row (a GO or KEGG term).
// Significance is an FDR or p-value, lower is more significant. NaN marks a missing value.
type Term struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Significance float64  `json:"significance"`
	GeneSet      []string `json:"gene_set"`
}

// MissingSignificance is the value used when the loader had no score for a term.
func MissingSignificance() float64 {
	return math.NaN()
}

func (t Term) HasSignificance() bool {
	return !math.IsNaN(t.Significance)
}

// HasGenes reports whether the term can take part in clustering.
func (t Term) HasGenes() bool {
	return len(t.GeneSet) > 0
}

type termJSON struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Significance *float64 `json:"significance"`
	GeneSet      []string `json:"gene_set"`
}

// A missing significance is written as null.
func (t Term) MarshalJSON() ([]byte, error) {
	out := termJSON{ID: t.ID, Description: t.Description, GeneSet: t.GeneSet}
	if t.HasSignificance() {
		sig := t.Significance
		out.Significance = &sig
	}
	return json.Marshal(out)
}

func (t *Term) UnmarshalJSON(data []byte) error {
	var in termJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.ID = in.ID
	t.Description = in.Description
	t.GeneSet = in.GeneSet
	if in.Significance != nil {
		t.Significance = *in.Significance
	} else {
		t.Significance = MissingSignificance()
	}
	return nil
}

// ValidateTerms checks the per-collection invariants: ids are present and unique,
// significance is non-negative when given.
func ValidateTerms(terms []Term) error {
	seen := make(map[string]int, len(terms))
	for i, t := range terms {
		if t.ID == "" {
			return fmt.Errorf("%w: term at position %d has no id", ErrInvalidTerm, i)
		}
		if prev, ok := seen[t.ID]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateTerm, t.ID, prev, i)
		}
		seen[t.ID] = i
		if t.HasSignificance() && (t.Significance < 0 || math.IsInf(t.Significance, 0)) {
			return fmt.Errorf("%w: %q has significance %v", ErrInvalidTerm, t.ID, t.Significance)
		}
	}
	return nil
}
