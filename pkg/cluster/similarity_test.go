package cluster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/termclust/pkg/model"
)

func term(id string, sig float64, genes ...string) model.Term {
	return model.Term{ID: id, Description: "term " + id, Significance: sig, GeneSet: genes}
}

func TestBuildSimilarityMatrix(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected float64
	}{
		{"identical sets", []string{"g1", "g2", "g3"}, []string{"g3", "g2", "g1"}, 1.0},
		{"disjoint sets", []string{"g1", "g2"}, []string{"g9", "g10"}, 0.0},
		{"partial overlap", []string{"g1", "g2", "g3"}, []string{"g1", "g2", "g4"}, 0.5},
		{"subset", []string{"g1"}, []string{"g1", "g2", "g3", "g4"}, 0.25},
		{"duplicate genes counted once", []string{"g1", "g1", "g2"}, []string{"g1", "g2"}, 1.0},
		{"case sensitive ids", []string{"TP53"}, []string{"tp53"}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildSimilarityMatrix([]model.Term{term("a", 0.1, tt.a...), term("b", 0.1, tt.b...)})
			require.Equal(t, 2, m.Len())
			assert.InDelta(t, tt.expected, m.At(0, 1), 1e-12)
			assert.Equal(t, m.At(0, 1), m.At(1, 0))
			assert.Equal(t, 1.0, m.At(0, 0))
		})
	}
}

func TestSimilarityMatrixSymmetryAndRange(t *testing.T) {
	terms := make([]model.Term, 0, 12)
	for i := 0; i < 12; i++ {
		genes := make([]string, 0, 6)
		for g := i; g < i+1+i%5; g++ {
			genes = append(genes, fmt.Sprintf("g%d", g%9))
		}
		terms = append(terms, term(fmt.Sprintf("T%02d", i), 0.01, genes...))
	}

	m := BuildSimilarityMatrix(terms)
	dense := m.Dense()
	require.Len(t, dense, len(terms))
	for i := range dense {
		require.Len(t, dense[i], len(terms))
		for j := range dense[i] {
			assert.Equal(t, dense[i][j], dense[j][i], "symmetry at %d,%d", i, j)
			assert.GreaterOrEqual(t, dense[i][j], 0.0)
			assert.LessOrEqual(t, dense[i][j], 1.0)
		}
	}
}

func TestBuildSimilarityMatrixSmall(t *testing.T) {
	assert.Equal(t, 0, BuildSimilarityMatrix(nil).Len())
	one := BuildSimilarityMatrix([]model.Term{term("a", 0.1, "g1")})
	assert.Equal(t, 1, one.Len())
	assert.Empty(t, one.Distances())
}

func TestJaccardEmptyUnion(t *testing.T) {
	sets := geneBitsets([]model.Term{term("a", 0.1), term("b", 0.1)})
	assert.Equal(t, 0.0, jaccard(sets[0], sets[1]))
}

func TestCondensedIndex(t *testing.T) {
	n := 5
	k := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			assert.Equal(t, k, condensedIndex(n, i, j))
			assert.Equal(t, k, condensedIndex(n, j, i))
			k++
		}
	}
}
