// Package jobs runs catalog batches in the background, one transcript at a
// time, persisting progress, per-item outcomes and logs.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

const (
	TypeCatalogBatch = "catalog_batch"

	StatusQueued   = "queued"
	StatusRunning  = "running"
	StatusDone     = "done"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)

// Processor runs one transcript through the pipeline.
type Processor interface {
	Process(ctx context.Context, in domain.TranscriptText) (*domain.PipelineResponse, error)
}

type Deps struct {
	Jobs        ports.JobRepository
	Pipeline    Processor
	Logger      *slog.Logger
	ItemTimeout time.Duration
}

type Runner struct {
	d      Deps
	mu     sync.Mutex
	active map[int64]context.CancelFunc
	wg     sync.WaitGroup
	em     ports.EventEmitter
}

func NewRunner(d Deps) *Runner {
	if d.ItemTimeout <= 0 {
		d.ItemTimeout = 60 * time.Second
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Runner{d: d, active: map[int64]context.CancelFunc{}}
}

func (r *Runner) SetEmitter(em ports.EventEmitter) { r.em = em }

type BatchParams struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
}

// StartBatch records the job and its items, then processes them in the
// background. The returned id is usable immediately.
func (r *Runner) StartBatch(ctx context.Context, p BatchParams, items []domain.BatchItem) (int64, error) {
	if len(items) == 0 {
		return 0, errors.New("batch has no items")
	}
	paramsJSON, _ := json.Marshal(p)
	job := &domain.Job{Type: TypeCatalogBatch, Status: StatusQueued, ParamsRaw: string(paramsJSON), Total: len(items)}
	id, err := r.d.Jobs.Create(ctx, job)
	if err != nil {
		return 0, err
	}
	itemIDs := make([]int64, len(items))
	for i, it := range items {
		ji := &domain.JobItem{JobID: id, ItemKey: it.Key, Status: StatusQueued}
		if it.LanguageHint != domain.Unknown {
			lang := string(it.LanguageHint)
			ji.Language = &lang
		}
		if itemIDs[i], err = r.d.Jobs.AddItem(ctx, ji); err != nil {
			_ = r.d.Jobs.UpdateProgress(ctx, id, 0, len(items), StatusFailed)
			return 0, fmt.Errorf("record batch item %s: %w", it.Key, err)
		}
	}
	_ = r.d.Jobs.UpdateProgress(ctx, id, 0, len(items), StatusRunning)
	r.emit("job.started", map[string]any{"job_id": id, "total": len(items), "filename": p.Filename})
	r.log(ctx, id, "info", fmt.Sprintf("job started: file=%s format=%s items=%d", p.Filename, p.Format, len(items)))

	cctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.active[id] = cancel
	r.mu.Unlock()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.runBatch(cctx, id, items, itemIDs)
	}()
	return id, nil
}

func (r *Runner) runBatch(ctx context.Context, jobID int64, items []domain.BatchItem, itemIDs []int64) {
	defer r.finish(jobID)
	// bookkeeping must outlive cancellation
	store := context.WithoutCancel(ctx)
	total, done, failed := len(items), 0, 0
	for i, it := range items {
		if ctx.Err() != nil {
			_ = r.d.Jobs.UpdateProgress(store, jobID, done, total, StatusCanceled)
			r.log(store, jobID, "warn", fmt.Sprintf("job canceled after %d of %d items", done, total))
			r.emit("job.progress", map[string]any{"job_id": jobID, "done": done, "total": total, "status": StatusCanceled})
			return
		}
		r.emit("job.item.start", map[string]any{"job_id": jobID, "key": it.Key})
		_ = r.d.Jobs.UpdateItem(store, itemIDs[i], StatusRunning, "", "")

		ictx, cancel := context.WithTimeout(ctx, r.d.ItemTimeout)
		resp, err := r.d.Pipeline.Process(ictx, domain.TranscriptText{Text: it.Text, LanguageHint: it.LanguageHint})
		cancel()
		if err == nil {
			err = itemError(resp)
		}
		if err != nil {
			failed++
			_ = r.d.Jobs.UpdateItem(store, itemIDs[i], StatusFailed, "", err.Error())
			r.log(store, jobID, "error", fmt.Sprintf("%s: %v", it.Key, err))
			r.emit("job.item.done", map[string]any{"job_id": jobID, "key": it.Key, "error": err.Error()})
		} else {
			entryID := ""
			if resp.CatalogEntry != nil {
				entryID = resp.CatalogEntry.ID
			}
			_ = r.d.Jobs.UpdateItem(store, itemIDs[i], StatusDone, entryID, "")
			r.emit("job.item.done", map[string]any{"job_id": jobID, "key": it.Key, "entry_id": entryID, "language": resp.DetectedLanguage, "method": resp.ExtractedDetails.Method})
		}
		done++
		_ = r.d.Jobs.UpdateProgress(store, jobID, done, total, StatusRunning)
		r.emit("job.progress", map[string]any{"job_id": jobID, "done": done, "total": total, "status": StatusRunning})
	}
	status := StatusDone
	if failed == total {
		status = StatusFailed
	}
	_ = r.d.Jobs.UpdateProgress(store, jobID, done, total, status)
	r.log(store, jobID, "info", fmt.Sprintf("job finished: %d ok, %d failed", done-failed, failed))
	r.emit("job.progress", map[string]any{"job_id": jobID, "done": done, "total": total, "status": status})
}

// itemError reports a pipeline run that produced no catalog entry.
func itemError(resp *domain.PipelineResponse) error {
	switch {
	case !resp.ExtractedDetails.Success:
		return fmt.Errorf("extraction failed: %s", resp.ExtractedDetails.Error)
	case resp.CatalogError != "":
		return fmt.Errorf("catalog write failed: %s", resp.CatalogError)
	}
	return nil
}

func (r *Runner) finish(jobID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.active[jobID]; ok {
		cancel()
		delete(r.active, jobID)
	}
}

func (r *Runner) log(ctx context.Context, jobID int64, level, message string) {
	_ = r.d.Jobs.AddLog(ctx, &domain.JobLog{JobID: jobID, Level: level, Message: message})
	r.d.Logger.Info("job log", "job_id", jobID, "level", level, "message", message)
	r.emit("job.log", map[string]any{"job_id": jobID, "level": level, "message": message, "ts": time.Now().UTC().Format(time.RFC3339)})
}

func (r *Runner) emit(name string, payload any) {
	if r.em != nil {
		r.em.Emit(name, payload)
	}
}

// Cancel stops a running job. It reports false for unknown or finished jobs.
func (r *Runner) Cancel(jobID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.active[jobID]; ok {
		cancel()
		delete(r.active, jobID)
		return true
	}
	return false
}

// CancelAll stops every running job and returns how many were signalled.
func (r *Runner) CancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.active)
	for id, cancel := range r.active {
		cancel()
		delete(r.active, id)
	}
	return n
}

// Wait blocks until every started job has finished.
func (r *Runner) Wait() { r.wg.Wait() }

// Status bundles a job with its items and most recent logs.
type Status struct {
	Job   *domain.Job       `json:"job"`
	Items []*domain.JobItem `json:"items"`
	Logs  []*domain.JobLog  `json:"logs"`
}

func (r *Runner) Status(ctx context.Context, jobID int64) (*Status, error) {
	j, err := r.d.Jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	items, err := r.d.Jobs.ListItems(ctx, jobID)
	if err != nil {
		return nil, err
	}
	logs, err := r.d.Jobs.ListLogs(ctx, jobID, 200)
	if err != nil {
		return nil, err
	}
	return &Status{Job: j, Items: items, Logs: logs}, nil
}

func (r *Runner) List(ctx context.Context, limit int) ([]*domain.Job, error) {
	return r.d.Jobs.List(ctx, limit)
}
