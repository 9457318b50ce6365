package cluster

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/yumyai/termclust/pkg/model"
)

// SimilarityMatrix is a symmetric n x n Jaccard similarity matrix, stored condensed
// (upper triangle, row-major, diagonal omitted).
type SimilarityMatrix struct {
	n    int
	data []float64
}

func (m *SimilarityMatrix) Len() int {
	return m.n
}

// At returns similarity(i, j). The diagonal is 1.
func (m *SimilarityMatrix) At(i, j int) float64 {
	if i == j {
		return 1
	}
	return m.data[condensedIndex(m.n, i, j)]
}

// Dense expands the matrix into n rows of n values.
func (m *SimilarityMatrix) Dense() [][]float64 {
	out := make([][]float64, m.n)
	for i := range out {
		out[i] = make([]float64, m.n)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// Distances returns the condensed distance vector 1 - similarity.
func (m *SimilarityMatrix) Distances() []float64 {
	out := make([]float64, len(m.data))
	for k, s := range m.data {
		out[k] = 1 - s
	}
	return out
}

// condensedIndex maps a pair (i != j) into the condensed upper-triangle layout.
func condensedIndex(n, i, j int) int {
	if i > j {
		i, j = j, i
	}
	return n*i - i*(i+1)/2 + (j - i - 1)
}

// geneBitsets interns every gene once across the collection and returns one bitset per term.
func geneBitsets(terms []model.Term) []*bitset.BitSet {
	index := model.NewGeneIndex()
	interned := make([][]int, len(terms))
	for i, t := range terms {
		interned[i] = index.InternSet(t.GeneSet)
	}

	sets := make([]*bitset.BitSet, len(terms))
	for i, idxs := range interned {
		b := bitset.New(uint(index.Len()))
		for _, idx := range idxs {
			b.Set(uint(idx))
		}
		sets[i] = b
	}
	return sets
}

// jaccard is |a ∩ b| / |a ∪ b|, or 0 when the union is empty.
func jaccard(a, b *bitset.BitSet) float64 {
	union := a.UnionCardinality(b)
	if union == 0 {
		return 0
	}
	return float64(a.IntersectionCardinality(b)) / float64(union)
}

// BuildSimilarityMatrix computes pairwise Jaccard similarity over the terms' gene sets.
// Callers pass only terms with non-empty gene sets.
func BuildSimilarityMatrix(terms []model.Term) *SimilarityMatrix {
	n := len(terms)
	m := &SimilarityMatrix{n: n}
	if n < 2 {
		return m
	}
	m.data = make([]float64, n*(n-1)/2)

	sets := geneBitsets(terms)
	k := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m.data[k] = jaccard(sets[i], sets[j])
			k++
		}
	}
	return m
}
