package ports

import (
	"context"
	"errors"

	"voicecat/internal/domain"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

type CatalogRepository interface {
	Create(ctx context.Context, e *domain.CatalogEntry) error
	Get(ctx context.Context, id string) (*domain.CatalogEntry, error)
	List(ctx context.Context) ([]*domain.CatalogEntry, error)
	Update(ctx context.Context, id string, patch domain.CatalogPatch) (*domain.CatalogEntry, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]*domain.CatalogEntry, error)
}

type JobRepository interface {
	Create(ctx context.Context, j *domain.Job) (int64, error)
	UpdateProgress(ctx context.Context, jobID int64, done, total int, status string) error
	AddItem(ctx context.Context, ji *domain.JobItem) (int64, error)
	UpdateItem(ctx context.Context, itemID int64, status, entryID, errMsg string) error
	AddLog(ctx context.Context, jl *domain.JobLog) error
	Get(ctx context.Context, jobID int64) (*domain.Job, error)
	List(ctx context.Context, limit int) ([]*domain.Job, error)
	ListItems(ctx context.Context, jobID int64) ([]*domain.JobItem, error)
	ListLogs(ctx context.Context, jobID int64, limit int) ([]*domain.JobLog, error)
}

type TemplateRepository interface {
	Get(ctx context.Context, typ, role string) (*domain.Template, error)
	Upsert(ctx context.Context, t *domain.Template) error
}

type CacheRepository interface {
	Get(ctx context.Context, src, srcLang, tgtLang, provider, model string) (*domain.CacheEntry, error)
	Put(ctx context.Context, entry *domain.CacheEntry) error
}
