package cluster

import (
	"math"
	"sort"
)

// cutTolerance absorbs rounding in averaged distances so a pair sitting exactly on the
// threshold is joined.
const cutTolerance = 1e-9

// Merge is one step of the dendrogram. A and B are leaf indices standing for the two
// clusters joined; the merged cluster keeps A's slot.
type Merge struct {
	A, B     int
	Distance float64
	Size     int
}

// AverageLinkage builds the full dendrogram of n points from a condensed distance vector
// using average linkage (UPGMA), following the nearest-neighbour chain. Without tied
// distances this is the same tree as greedy closest-pair merging. When several pairs sit
// at the same height the chain may join them in a different order than the greedy
// procedure: a point's nearest neighbour is its chain predecessor if tied, otherwise the
// lowest-index candidate. The result is still reproducible for a fixed input order.
// Merges are returned sorted by distance (stable on discovery order).
func AverageLinkage(dist []float64, n int) []Merge {
	if n < 2 {
		return nil
	}
	d := make([]float64, len(dist))
	copy(d, dist)

	size := make([]int, n)
	active := make([]bool, n)
	for i := range size {
		size[i] = 1
		active[i] = true
	}

	merges := make([]Merge, 0, n-1)
	chain := make([]int, 0, n)

	for len(merges) < n-1 {
		if len(chain) == 0 {
			for i := 0; i < n; i++ {
				if active[i] {
					chain = append(chain, i)
					break
				}
			}
		}

		var a, b int
		var ab float64
		for {
			a = chain[len(chain)-1]
			prev := -1
			best, bestDist := -1, math.Inf(1)
			if len(chain) > 1 {
				prev = chain[len(chain)-2]
				best, bestDist = prev, d[condensedIndex(n, a, prev)]
			}
			for c := 0; c < n; c++ {
				if c == a || !active[c] {
					continue
				}
				if dc := d[condensedIndex(n, a, c)]; dc < bestDist {
					best, bestDist = c, dc
				}
			}
			if best == prev {
				b, ab = prev, bestDist
				chain = chain[:len(chain)-2]
				break
			}
			chain = append(chain, best)
		}

		keep, drop := a, b
		if drop < keep {
			keep, drop = drop, keep
		}
		sk, sd := float64(size[keep]), float64(size[drop])
		for c := 0; c < n; c++ {
			if c == keep || c == drop || !active[c] {
				continue
			}
			kc, dc := condensedIndex(n, keep, c), condensedIndex(n, drop, c)
			d[kc] = (sk*d[kc] + sd*d[dc]) / (sk + sd)
		}
		active[drop] = false
		size[keep] += size[drop]
		merges = append(merges, Merge{A: keep, B: drop, Distance: ab, Size: size[keep]})
	}

	sort.SliceStable(merges, func(i, j int) bool {
		return merges[i].Distance < merges[j].Distance
	})
	return merges
}

// CutTree assigns flat labels to n leaves: two leaves share a label iff they are joined
// at or below threshold. Labels are numbered from 0 in order of each label's first leaf.
func CutTree(merges []Merge, n int, threshold float64) []int {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	for _, m := range merges {
		if m.Distance > threshold+cutTolerance {
			continue
		}
		ra, rb := find(m.A), find(m.B)
		if ra == rb {
			continue
		}
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	labels := make([]int, n)
	byRoot := make(map[int]int)
	for i := 0; i < n; i++ {
		root := find(i)
		label, ok := byRoot[root]
		if !ok {
			label = len(byRoot)
			byRoot[root] = label
		}
		labels[i] = label
	}
	return labels
}

// FlatClusters runs average linkage over the similarity matrix and cuts the tree at
// 1 - similarityThreshold.
func FlatClusters(sim *SimilarityMatrix, similarityThreshold float64) []int {
	n := sim.Len()
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []int{0}
	}
	merges := AverageLinkage(sim.Distances(), n)
	return CutTree(merges, n, 1-similarityThreshold)
}
