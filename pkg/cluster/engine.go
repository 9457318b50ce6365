// Package cluster groups GO/KEGG enrichment terms whose gene sets overlap.
//
// Run is a pure synchronous pipeline: Jaccard similarity over interned gene bitsets,
// average-linkage hierarchical clustering cut at 1 - similarity threshold, singleton
// removal, representative selection and size classification. It holds no state between
// calls and never modifies its input, so it may be called from any goroutine.
package cluster

import (
	"fmt"
	"time"

	"github.com/yumyai/termclust/logger"
	"github.com/yumyai/termclust/pkg/model"
	"go.uber.org/zap"
)

type Result struct {
	Config     Config                `json:"config"`
	Terms      []model.AnnotatedTerm `json:"terms"`
	Clusters   []Cluster             `json:"clusters"`
	ClusterMap map[int][]string      `json:"cluster_map"`
	Summary    Summary               `json:"summary"`
	Warnings   []Warning             `json:"warnings,omitempty"`
}

func Run(terms []model.Term, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidateTerms(terms); err != nil {
		return nil, err
	}

	start := time.Now()

	valid := make([]int, 0, len(terms))
	validTerms := make([]model.Term, 0, len(terms))
	for i, t := range terms {
		if t.HasGenes() {
			valid = append(valid, i)
			validTerms = append(validTerms, t)
		}
	}

	sim := BuildSimilarityMatrix(validTerms)
	labels := FlatClusters(sim, cfg.SimilarityThreshold)

	assignment, err := Assign(terms, valid, labels)
	if err != nil {
		return nil, fmt.Errorf("cluster run: %w", err)
	}

	res := &Result{
		Config:     cfg,
		Terms:      assignment.Terms,
		Clusters:   assignment.Clusters,
		ClusterMap: assignment.ClusterMap(),
		Summary:    Classify(assignment, cfg.MinClusterSize, cfg.MaxClusterSize),
		Warnings:   assignment.Warnings,
	}

	logger.Debug("Clustering finished",
		zap.Int("terms", len(terms)),
		zap.Int("with_genes", len(validTerms)),
		zap.Int("clusters", len(res.Clusters)),
		zap.Int("singletons", res.Summary.NSingletons),
		zap.Float64("similarity_threshold", cfg.SimilarityThreshold),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// Representative returns the representative term of a cluster.
func (r *Result) Representative(clusterID int) (model.AnnotatedTerm, bool) {
	for _, t := range r.Terms {
		if t.IsRepresentative && t.Membership.ClusterID() == clusterID {
			return t, true
		}
	}
	return model.AnnotatedTerm{}, false
}
