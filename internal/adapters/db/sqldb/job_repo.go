package sqldb

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

type JobRepo struct{ *Repo }

func NewJobRepo(db *sql.DB, dialect Dialect) *JobRepo { return &JobRepo{NewRepo(db, dialect)} }

var jobColumns = []string{"id", "type", "status", "params_json", "progress", "total", "created_at", "updated_at"}

func (r *JobRepo) Create(ctx context.Context, j *domain.Job) (int64, error) {
	now := formatTime(r.now())
	q := r.SQ.Insert("jobs").Columns("type", "status", "params_json", "progress", "total", "created_at", "updated_at").
		Values(j.Type, j.Status, j.ParamsRaw, j.Progress, j.Total, now, now)
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	j.ID = id
	j.CreatedAt = parseTime(now)
	j.UpdatedAt = j.CreatedAt
	return id, nil
}

func (r *JobRepo) UpdateProgress(ctx context.Context, jobID int64, done, total int, status string) error {
	q := r.SQ.Update("jobs").
		Set("progress", done).
		Set("total", total).
		Set("status", status).
		Set("updated_at", formatTime(r.now())).
		Where(sq.Eq{"id": jobID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *JobRepo) AddItem(ctx context.Context, ji *domain.JobItem) (int64, error) {
	now := formatTime(r.now())
	q := r.SQ.Insert("job_items").Columns("job_id", "item_key", "entry_id", "language", "status", "error", "created_at", "updated_at").
		Values(ji.JobID, ji.ItemKey, ji.EntryID, ji.Language, ji.Status, ji.Error, now, now)
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	ji.ID = id
	return id, nil
}

// UpdateItem records an item outcome. An empty entryID leaves the column NULL.
func (r *JobRepo) UpdateItem(ctx context.Context, itemID int64, status, entryID, errMsg string) error {
	var entry *string
	if entryID != "" {
		entry = &entryID
	}
	q := r.SQ.Update("job_items").
		Set("status", status).
		Set("entry_id", entry).
		Set("error", errMsg).
		Set("updated_at", formatTime(r.now())).
		Where(sq.Eq{"id": itemID})
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *JobRepo) AddLog(ctx context.Context, jl *domain.JobLog) error {
	q := r.SQ.Insert("job_logs").Columns("job_id", "ts", "level", "message").
		Values(jl.JobID, formatTime(r.now()), jl.Level, jl.Message)
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *JobRepo) Get(ctx context.Context, jobID int64) (*domain.Job, error) {
	q := r.SQ.Select(jobColumns...).From("jobs").Where(sq.Eq{"id": jobID}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	j, err := scanJob(r.DB.QueryRowContext(ctx, sqlStr, args...))
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	return j, err
}

func (r *JobRepo) List(ctx context.Context, limit int) ([]*domain.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.SQ.Select(jobColumns...).From("jobs").OrderBy("id DESC").Limit(uint64(limit))
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func scanJob(s scanner) (*domain.Job, error) {
	var j domain.Job
	var created, updated string
	if err := s.Scan(&j.ID, &j.Type, &j.Status, &j.ParamsRaw, &j.Progress, &j.Total, &created, &updated); err != nil {
		return nil, err
	}
	j.CreatedAt = parseTime(created)
	j.UpdatedAt = parseTime(updated)
	return &j, nil
}

func (r *JobRepo) ListItems(ctx context.Context, jobID int64) ([]*domain.JobItem, error) {
	q := r.SQ.Select("id", "job_id", "item_key", "entry_id", "language", "status", "error", "created_at", "updated_at").
		From("job_items").Where(sq.Eq{"job_id": jobID}).OrderBy("id")
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.JobItem{}
	for rows.Next() {
		var ji domain.JobItem
		var entry, lang sql.NullString
		var created, updated string
		if err := rows.Scan(&ji.ID, &ji.JobID, &ji.ItemKey, &entry, &lang, &ji.Status, &ji.Error, &created, &updated); err != nil {
			return nil, err
		}
		if entry.Valid {
			v := entry.String
			ji.EntryID = &v
		}
		if lang.Valid {
			v := lang.String
			ji.Language = &v
		}
		ji.CreatedAt = parseTime(created)
		ji.UpdatedAt = parseTime(updated)
		out = append(out, &ji)
	}
	return out, rows.Err()
}

func (r *JobRepo) ListLogs(ctx context.Context, jobID int64, limit int) ([]*domain.JobLog, error) {
	if limit <= 0 {
		limit = 200
	}
	q := r.SQ.Select("id", "job_id", "ts", "level", "message").From("job_logs").
		Where(sq.Eq{"job_id": jobID}).OrderBy("id DESC").Limit(uint64(limit))
	sqlStr, args, _ := q.ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.JobLog
	for rows.Next() {
		var jl domain.JobLog
		var ts string
		if err := rows.Scan(&jl.ID, &jl.JobID, &ts, &jl.Level, &jl.Message); err != nil {
			return nil, err
		}
		jl.Time = parseTime(ts)
		out = append(out, &jl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// newest N, returned oldest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
