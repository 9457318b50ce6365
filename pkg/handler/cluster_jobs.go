package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumyai/termclust/logger"
	"github.com/yumyai/termclust/pkg/cluster"
	"github.com/yumyai/termclust/pkg/model"
)

// ClusterJobStatus represents the lifecycle of a clustering run.
type ClusterJobStatus string

const (
	ClusterJobQueued     ClusterJobStatus = "queued"
	ClusterJobRunning    ClusterJobStatus = "running"
	ClusterJobCompleted  ClusterJobStatus = "completed"
	ClusterJobFailed     ClusterJobStatus = "failed"
	ClusterJobSuperseded ClusterJobStatus = "superseded"
)

// ClusterJob tracks one background clustering run.
type ClusterJob struct {
	ID        string           `json:"job_id"`
	Key       string           `json:"key,omitempty"`
	Status    ClusterJobStatus `json:"status"`
	Result    *cluster.Result  `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (j *ClusterJob) finished() bool {
	return j.Status == ClusterJobCompleted || j.Status == ClusterJobFailed || j.Status == ClusterJobSuperseded
}

type runFunc func([]model.Term, cluster.Config) (*cluster.Result, error)

// ClusterJobManager runs the clustering engine off the request goroutine and keeps job
// states indexed by job ID. A new job for a key supersedes the previous one for that key;
// the superseded run finishes but its result is dropped.
type ClusterJobManager struct {
	mu     sync.RWMutex
	jobs   map[string]*ClusterJob
	latest map[string]string
	run    runFunc
	wg     sync.WaitGroup
}

// NewClusterJobManager constructs a job manager with no jobs.
func NewClusterJobManager() *ClusterJobManager {
	return newClusterJobManager(cluster.Run)
}

func newClusterJobManager(run runFunc) *ClusterJobManager {
	return &ClusterJobManager{
		jobs:   make(map[string]*ClusterJob),
		latest: make(map[string]string),
		run:    run,
	}
}

// Submit registers a queued job and starts it. An empty key never supersedes anything.
func (m *ClusterJobManager) Submit(key string, terms []model.Term, cfg cluster.Config) ClusterJob {
	now := time.Now()
	job := &ClusterJob{
		ID:        uuid.NewString(),
		Key:       key,
		Status:    ClusterJobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	if key != "" {
		if prev, ok := m.jobs[m.latest[key]]; ok && !prev.finished() {
			prev.Status = ClusterJobSuperseded
			prev.UpdatedAt = now
			logger.Debug("Clustering job superseded", zap.String("job_id", prev.ID), zap.String("by", job.ID))
		}
		m.latest[key] = job.ID
	}
	snapshot := *job
	m.mu.Unlock()

	m.wg.Add(1)
	go m.execute(job.ID, terms, cfg)
	return snapshot
}

func (m *ClusterJobManager) execute(jobID string, terms []model.Term, cfg cluster.Config) {
	defer m.wg.Done()

	m.updateJob(jobID, func(job *ClusterJob) {
		job.Status = ClusterJobRunning
	})

	start := time.Now()
	res, err := m.run(terms, cfg)

	m.updateJob(jobID, func(job *ClusterJob) {
		if err != nil {
			job.Status = ClusterJobFailed
			job.Error = err.Error()
			return
		}
		job.Status = ClusterJobCompleted
		job.Result = res
	})

	if err != nil {
		logger.Warn("Clustering job failed", zap.String("job_id", jobID), zap.Error(err))
		return
	}
	logger.Info("Clustering job finished",
		zap.String("job_id", jobID),
		zap.Int("terms", len(terms)),
		zap.Duration("duration", time.Since(start)))
}

// GetJob returns a copy of the job state.
func (m *ClusterJobManager) GetJob(jobID string) (ClusterJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return ClusterJob{}, false
	}
	return *job, true
}

// Wait blocks until every submitted job has returned.
func (m *ClusterJobManager) Wait() {
	m.wg.Wait()
}

// updateJob applies update unless the job was superseded, whose state is final.
func (m *ClusterJobManager) updateJob(jobID string, update func(job *ClusterJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok || job.Status == ClusterJobSuperseded {
		return
	}

	update(job)
	job.UpdatedAt = time.Now()
}
