package handler

import "net/http"

func NewRouter(app *AppContext) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", app.HealthCheck)
	mux.HandleFunc("GET /api/v1/datasets", app.DatasetsHandler)
	mux.HandleFunc("POST /api/v1/datasets", app.ImportDatasetHandler)
	mux.HandleFunc("POST /api/v1/cluster", app.SubmitClusterHandler)
	mux.HandleFunc("GET /api/v1/cluster/jobs/{job_id}", app.ClusterJobHandler)

	return mux
}
