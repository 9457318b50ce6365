package cluster

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("invalid clustering configuration")

const (
	DefaultSimilarityThreshold = 0.7
	DefaultMinClusterSize      = 2
	DefaultMaxClusterSize      = 100
)

type Config struct {
	// Two terms end up together when their gene sets join at or above this Jaccard similarity.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
	MinClusterSize      int     `json:"min_cluster_size" yaml:"min_cluster_size"`
	MaxClusterSize      int     `json:"max_cluster_size" yaml:"max_cluster_size"`
}

func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MinClusterSize:      DefaultMinClusterSize,
		MaxClusterSize:      DefaultMaxClusterSize,
	}
}

// Validate rejects a configuration outright. Values are never clamped.
func (c Config) Validate() error {
	if math.IsNaN(c.SimilarityThreshold) || c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be in (0, 1], got %v", ErrInvalidConfig, c.SimilarityThreshold)
	}
	if c.MinClusterSize < 2 {
		return fmt.Errorf("%w: min_cluster_size must be at least 2, got %d", ErrInvalidConfig, c.MinClusterSize)
	}
	if c.MaxClusterSize < c.MinClusterSize {
		return fmt.Errorf("%w: max_cluster_size (%d) must be >= min_cluster_size (%d)",
			ErrInvalidConfig, c.MaxClusterSize, c.MinClusterSize)
	}
	return nil
}

// DistanceThreshold is the dendrogram cut height matching the similarity threshold.
func (c Config) DistanceThreshold() float64 {
	return 1 - c.SimilarityThreshold
}
