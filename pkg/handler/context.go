package handler

// DI for all handlers.

import (
	"github.com/yumyai/termclust/pkg/cluster"
	"github.com/yumyai/termclust/pkg/db"
)

type AppContext struct {
	Store    *db.EnrichmentDB
	Jobs     *ClusterJobManager
	Defaults cluster.Config
}
