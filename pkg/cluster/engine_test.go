package cluster

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/termclust/pkg/model"
)

func configWith(threshold float64) Config {
	cfg := DefaultConfig()
	cfg.SimilarityThreshold = threshold
	return cfg
}

func TestRunThreeTerms(t *testing.T) {
	terms := []model.Term{
		term("A", 0.01, "g1", "g2", "g3"),
		term("B", 0.04, "g1", "g2", "g4"),
		term("C", 0.5, "g9", "g10"),
	}

	res, err := Run(terms, configWith(0.3))
	require.NoError(t, err)

	assert.Equal(t, map[int][]string{0: {"A", "B"}}, res.ClusterMap)
	assert.True(t, res.Terms[0].IsRepresentative)
	assert.False(t, res.Terms[1].IsRepresentative)
	assert.Equal(t, -1, res.Terms[2].Membership.ClusterID())
	assert.False(t, res.Terms[2].IsRepresentative)

	rep, ok := res.Representative(0)
	require.True(t, ok)
	assert.Equal(t, "A", rep.ID)

	assert.Equal(t, 1, res.Summary.NSingletons)
	assert.Equal(t, 1, res.Summary.NValid)
}

func TestRunEmptyInput(t *testing.T) {
	res, err := Run(nil, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Terms)
	assert.Empty(t, res.ClusterMap)

	res, err = Run([]model.Term{term("A", 0.1), term("B", 0.2)}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Terms, 2)
	assert.Empty(t, res.ClusterMap)
	for _, at := range res.Terms {
		assert.False(t, at.Membership.IsClustered())
	}
}

func TestRunRejectsConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"min cluster size 1", Config{SimilarityThreshold: 0.7, MinClusterSize: 1, MaxClusterSize: 100}},
		{"max below min", Config{SimilarityThreshold: 0.7, MinClusterSize: 5, MaxClusterSize: 4}},
		{"threshold zero", Config{SimilarityThreshold: 0, MinClusterSize: 2, MaxClusterSize: 100}},
		{"threshold above one", Config{SimilarityThreshold: 1.2, MinClusterSize: 2, MaxClusterSize: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run([]model.Term{term("A", 0.1, "g1")}, tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestRunRejectsTerms(t *testing.T) {
	_, err := Run([]model.Term{term("A", 0.1, "g1"), term("A", 0.2, "g2")}, DefaultConfig())
	assert.ErrorIs(t, err, model.ErrDuplicateTerm)

	_, err = Run([]model.Term{term("A", -0.1, "g1")}, DefaultConfig())
	assert.ErrorIs(t, err, model.ErrInvalidTerm)
}

func TestRunAllSingletons(t *testing.T) {
	terms := []model.Term{term("A", 0.1, "g1"), term("B", 0.1, "g2"), term("C", 0.1, "g3")}
	res, err := Run(terms, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, res.ClusterMap)
	assert.Equal(t, 3, res.Summary.NSingletons)
}

func TestRunAllIdentical(t *testing.T) {
	terms := []model.Term{
		term("A", 0.3, "g1", "g2"),
		term("B", 0.01, "g2", "g1"),
		term("C", 0.01, "g1", "g2"),
	}
	res, err := Run(terms, configWith(1.0))
	require.NoError(t, err)
	assert.Equal(t, map[int][]string{0: {"A", "B", "C"}}, res.ClusterMap)
	assert.Equal(t, "B", res.Clusters[0].RepresentativeID)
}

func randomTerms(seed int64, n, genes int) []model.Term {
	r := rand.New(rand.NewSource(seed))
	terms := make([]model.Term, n)
	for i := range terms {
		size := 1 + r.Intn(8)
		set := make([]string, 0, size)
		base := r.Intn(genes)
		for k := 0; k < size; k++ {
			set = append(set, fmt.Sprintf("g%d", (base+r.Intn(6))%genes))
		}
		if r.Intn(15) == 0 {
			set = nil
		}
		terms[i] = term(fmt.Sprintf("GO:%07d", i), r.Float64()/10, set...)
	}
	return terms
}

func TestRunProperties(t *testing.T) {
	terms := randomTerms(42, 120, 60)
	res, err := Run(terms, configWith(0.4))
	require.NoError(t, err)

	// Partition completeness.
	require.Len(t, res.Terms, len(terms))
	for i, at := range res.Terms {
		assert.Equal(t, terms[i].ID, at.ID)
	}

	inMap := make(map[string]int)
	for id, members := range res.ClusterMap {
		assert.GreaterOrEqual(t, len(members), 2)
		for _, m := range members {
			_, dup := inMap[m]
			assert.False(t, dup, "%s in two clusters", m)
			inMap[m] = id
		}
	}

	byID := make(map[string]model.AnnotatedTerm)
	for _, at := range res.Terms {
		byID[at.ID] = at
		if id, ok := inMap[at.ID]; ok {
			assert.Equal(t, id, at.Membership.ClusterID())
		} else {
			assert.Equal(t, -1, at.Membership.ClusterID())
			assert.False(t, at.IsRepresentative)
		}
	}

	// Exactly one representative per cluster, with minimal significance.
	for id, members := range res.ClusterMap {
		reps := 0
		min := byID[members[0]].Significance
		for _, m := range members {
			if byID[m].Significance < min {
				min = byID[m].Significance
			}
		}
		for _, m := range members {
			if byID[m].IsRepresentative {
				reps++
				assert.Equal(t, min, byID[m].Significance, "cluster %d", id)
			}
		}
		assert.Equal(t, 1, reps, "cluster %d", id)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	terms := randomTerms(7, 80, 40)
	first, err := Run(terms, configWith(0.35))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := Run(terms, configWith(0.35))
		require.NoError(t, err)
		assert.Equal(t, first.Terms, again.Terms)
		assert.Equal(t, first.ClusterMap, again.ClusterMap)
	}
}

func TestRunStricterThresholdRefines(t *testing.T) {
	terms := randomTerms(11, 100, 50)
	thresholds := []float64{0.1, 0.25, 0.4, 0.6, 0.8, 1.0}

	var prev *Result
	for _, th := range thresholds {
		res, err := Run(terms, configWith(th))
		require.NoError(t, err)
		if prev != nil {
			assert.GreaterOrEqual(t, res.Summary.NSingletons, prev.Summary.NSingletons, "threshold %v", th)
			for _, members := range res.ClusterMap {
				// Every stricter cluster sits inside one looser cluster.
				looser := prev.Terms[indexOf(terms, members[0])].Membership.ClusterID()
				require.NotEqual(t, -1, looser)
				for _, m := range members {
					assert.Equal(t, looser, prev.Terms[indexOf(terms, m)].Membership.ClusterID())
				}
				assert.LessOrEqual(t, len(members), len(prev.ClusterMap[looser]))
			}
		}
		prev = res
	}
}

func indexOf(terms []model.Term, id string) int {
	for i, t := range terms {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func TestRunDoesNotModifyInput(t *testing.T) {
	terms := randomTerms(3, 30, 20)
	snapshot := make([]model.Term, len(terms))
	for i, t := range terms {
		snapshot[i] = t
		snapshot[i].GeneSet = append([]string(nil), t.GeneSet...)
	}
	_, err := Run(terms, configWith(0.3))
	require.NoError(t, err)
	assert.Equal(t, snapshot, terms)
}

func TestResultJSONRoundTrip(t *testing.T) {
	terms := []model.Term{
		term("A", 0.01, "g1"),
		term("B", 0.2, "g1"),
		term("C", 0.3, "g7"),
	}
	res, err := Run(terms, DefaultConfig())
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, res.Terms, decoded.Terms)
	assert.Equal(t, res.ClusterMap, decoded.ClusterMap)
	assert.Equal(t, 0, decoded.Terms[0].Membership.ClusterID())
	assert.True(t, decoded.Terms[0].IsRepresentative)
	assert.Equal(t, -1, decoded.Terms[2].Membership.ClusterID())
}
