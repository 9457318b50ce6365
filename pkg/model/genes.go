package model

// GeneIndex interns gene identifiers into dense integer indices, once per collection.
// Identifiers are used verbatim, no case folding or synonym resolution.
type GeneIndex struct {
	ids   map[string]int
	genes []string
}

func NewGeneIndex() *GeneIndex {
	return &GeneIndex{ids: make(map[string]int)}
}

func (g *GeneIndex) Intern(gene string) int {
	if idx, ok := g.ids[gene]; ok {
		return idx
	}
	idx := len(g.genes)
	g.ids[gene] = idx
	g.genes = append(g.genes, gene)
	return idx
}

// InternSet returns the distinct indices of a gene set, in first-seen order.
func (g *GeneIndex) InternSet(genes []string) []int {
	out := make([]int, 0, len(genes))
	seen := make(map[int]struct{}, len(genes))
	for _, gene := range genes {
		idx := g.Intern(gene)
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	return out
}

func (g *GeneIndex) Lookup(gene string) (int, bool) {
	idx, ok := g.ids[gene]
	return idx, ok
}

func (g *GeneIndex) Gene(idx int) string {
	return g.genes[idx]
}

func (g *GeneIndex) Len() int {
	return len(g.genes)
}
