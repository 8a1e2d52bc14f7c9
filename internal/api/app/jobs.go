package app

import (
	"context"
	"fmt"
	"time"

	"voicecat/internal/usecase/importer"
	"voicecat/internal/usecase/jobs"
)

type JobsAPI struct {
	r   *jobs.Runner
	imp *importer.Service
}

func NewJobsAPI(r *jobs.Runner, imp *importer.Service) *JobsAPI { return &JobsAPI{r: r, imp: imp} }

type StartBatchRequest struct {
	Filename string
	Format   string
	Content  []byte
}

type StartJobResponse struct {
	JobID int64 `json:"job_id"`
	Items int   `json:"items"`
}

// StartBatch parses the upload and starts a background job over its rows.
// Parse failures are input errors.
func (a *JobsAPI) StartBatch(ctx context.Context, req StartBatchRequest) (StartJobResponse, error) {
	items, err := a.imp.Import(ctx, importer.ImportArgs{Filename: req.Filename, Format: req.Format, Content: req.Content})
	if err != nil {
		return StartJobResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	jid, err := a.r.StartBatch(ctx, jobs.BatchParams{Filename: req.Filename, Format: req.Format}, items)
	if err != nil {
		return StartJobResponse{}, err
	}
	return StartJobResponse{JobID: jid, Items: len(items)}, nil
}

func (a *JobsAPI) Cancel(jobID int64) bool { return a.r.Cancel(jobID) }

type JobDTO struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	Total     int    `json:"total"`
	CreatedAt string `json:"created_at"`
}

type JobItemDTO struct {
	ID       int64   `json:"id"`
	Key      string  `json:"key"`
	EntryID  *string `json:"entry_id"`
	Language *string `json:"language"`
	Status   string  `json:"status"`
	Error    string  `json:"error,omitempty"`
}

type JobLogDTO struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type JobStatusDTO struct {
	JobDTO
	Items []*JobItemDTO `json:"items"`
	Logs  []*JobLogDTO  `json:"logs"`
}

func (a *JobsAPI) Get(ctx context.Context, jobID int64) (*JobStatusDTO, error) {
	st, err := a.r.Status(ctx, jobID)
	if err != nil {
		return nil, err
	}
	out := &JobStatusDTO{
		JobDTO: JobDTO{ID: st.Job.ID, Type: st.Job.Type, Status: st.Job.Status, Progress: st.Job.Progress, Total: st.Job.Total, CreatedAt: st.Job.CreatedAt.Format(time.RFC3339)},
		Items:  make([]*JobItemDTO, 0, len(st.Items)),
		Logs:   make([]*JobLogDTO, 0, len(st.Logs)),
	}
	for _, it := range st.Items {
		out.Items = append(out.Items, &JobItemDTO{ID: it.ID, Key: it.ItemKey, EntryID: it.EntryID, Language: it.Language, Status: it.Status, Error: it.Error})
	}
	for _, l := range st.Logs {
		out.Logs = append(out.Logs, &JobLogDTO{Time: l.Time.Format(time.RFC3339), Level: l.Level, Message: l.Message})
	}
	return out, nil
}

func (a *JobsAPI) List(ctx context.Context, limit int) ([]*JobDTO, error) {
	js, err := a.r.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*JobDTO, 0, len(js))
	for _, j := range js {
		out = append(out, &JobDTO{ID: j.ID, Type: j.Type, Status: j.Status, Progress: j.Progress, Total: j.Total, CreatedAt: j.CreatedAt.Format(time.RFC3339)})
	}
	return out, nil
}
