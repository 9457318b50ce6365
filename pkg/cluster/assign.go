package cluster

import (
	"fmt"
	"slices"

	"github.com/yumyai/termclust/logger"
	"github.com/yumyai/termclust/pkg/model"
	"go.uber.org/zap"
)

// Cluster is a group of at least two terms that co-cluster at the configured threshold.
type Cluster struct {
	ID               int      `json:"cluster_id"`
	Members          []string `json:"members"`
	RepresentativeID string   `json:"representative_id"`
}

func (c Cluster) Size() int {
	return len(c.Members)
}

// Warning marks a degraded but usable result.
type Warning struct {
	ClusterID int    `json:"cluster_id"`
	Message   string `json:"message"`
}

// Assignment is the annotated collection plus its non-singleton clusters, ordered by id.
type Assignment struct {
	Terms    []model.AnnotatedTerm
	Clusters []Cluster
	Warnings []Warning
}

// ClusterMap returns cluster id -> member ids. Singletons never appear.
func (a *Assignment) ClusterMap() map[int][]string {
	out := make(map[int][]string, len(a.Clusters))
	for _, c := range a.Clusters {
		out[c.ID] = slices.Clone(c.Members)
	}
	return out
}

// Assign maps flat labels back onto the full term list. valid[k] is the position in terms
// of the k-th clustered term and labels[k] its flat label. Terms outside valid, and groups
// of one, end up Unclustered. Cluster ids are sequential from 0 in order of first label
// occurrence.
func Assign(terms []model.Term, valid []int, labels []int) (*Assignment, error) {
	if len(valid) != len(labels) {
		return nil, fmt.Errorf("assign: %d valid terms but %d labels", len(valid), len(labels))
	}

	out := &Assignment{Terms: make([]model.AnnotatedTerm, len(terms))}
	for i, t := range terms {
		t.GeneSet = slices.Clone(t.GeneSet)
		out.Terms[i] = model.AnnotatedTerm{Term: t, Membership: model.Unclustered()}
	}

	var order []int
	groups := make(map[int][]int)
	for k, label := range labels {
		if _, seen := groups[label]; !seen {
			order = append(order, label)
		}
		groups[label] = append(groups[label], valid[k])
	}

	nextID := 0
	for _, label := range order {
		members := groups[label]
		if len(members) < 2 {
			continue
		}
		id := nextID
		nextID++

		c := Cluster{ID: id, Members: make([]string, len(members))}
		for m, pos := range members {
			out.Terms[pos].Membership = model.Member(id)
			c.Members[m] = terms[pos].ID
		}

		rep, ok := selectRepresentative(terms, members)
		if !ok {
			msg := "no significance values in cluster, representative is the first member in input order"
			logger.Warn("Degraded representative selection",
				zap.Int("cluster_id", id), zap.String("term", terms[rep].ID))
			out.Warnings = append(out.Warnings, Warning{ClusterID: id, Message: msg})
		}
		out.Terms[rep].IsRepresentative = true
		c.RepresentativeID = terms[rep].ID
		out.Clusters = append(out.Clusters, c)
	}
	return out, nil
}

// selectRepresentative picks the member with the lowest significance, first in input
// order on ties. Members without a significance are skipped; if none has one, the first
// member is returned with ok == false.
func selectRepresentative(terms []model.Term, members []int) (int, bool) {
	best := -1
	for _, pos := range members {
		if !terms[pos].HasSignificance() {
			continue
		}
		if best == -1 || terms[pos].Significance < terms[best].Significance {
			best = pos
		}
	}
	if best == -1 {
		return members[0], false
	}
	return best, true
}
