package request

import (
	"github.com/yumyai/termclust/pkg/cluster"
	"github.com/yumyai/termclust/pkg/db"
	"github.com/yumyai/termclust/pkg/model"
)

// ClusterRequest asks for a clustering run over a stored dataset or an inline term list.
// Unset parameters fall back to the server defaults.
type ClusterRequest struct {
	DatasetID           string       `json:"dataset_id"`
	Terms               []model.Term `json:"terms"`
	SimilarityThreshold *float64     `json:"similarity_threshold"`
	MinClusterSize      *int         `json:"min_cluster_size"`
	MaxClusterSize      *int         `json:"max_cluster_size"`
}

// Config overlays the request parameters on defaults. It does not validate.
func (r ClusterRequest) Config(defaults cluster.Config) cluster.Config {
	cfg := defaults
	if r.SimilarityThreshold != nil {
		cfg.SimilarityThreshold = *r.SimilarityThreshold
	}
	if r.MinClusterSize != nil {
		cfg.MinClusterSize = *r.MinClusterSize
	}
	if r.MaxClusterSize != nil {
		cfg.MaxClusterSize = *r.MaxClusterSize
	}
	return cfg
}

type ClusterSubmitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// DatasetImportRequest stores a term collection under a dataset id, replacing any
// earlier copy. Terms keep the order given.
type DatasetImportRequest struct {
	Dataset db.Dataset   `json:"dataset"`
	Terms   []model.Term `json:"terms"`
}
