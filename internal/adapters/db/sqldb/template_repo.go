package sqldb

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"voicecat/internal/domain"
)

type TemplateRepo struct{ *Repo }

func NewTemplateRepo(db *sql.DB, dialect Dialect) *TemplateRepo {
	return &TemplateRepo{NewRepo(db, dialect)}
}

// Get returns the stored override for (typ, role), or nil when the built-in
// template applies.
func (r *TemplateRepo) Get(ctx context.Context, typ, role string) (*domain.Template, error) {
	q := r.SQ.Select("id", "type", "role", "body", "updated_at").From("templates").
		Where(sq.Eq{"type": typ, "role": role}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var t domain.Template
	var updated string
	if err := row.Scan(&t.ID, &t.Type, &t.Role, &t.Body, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	t.UpdatedAt = parseTime(updated)
	return &t, nil
}

func (r *TemplateRepo) Upsert(ctx context.Context, t *domain.Template) error {
	now := r.now()
	q := r.SQ.Insert("templates").Columns("type", "role", "body", "updated_at").
		Values(t.Type, t.Role, t.Body, formatTime(now)).
		Suffix(r.upsertSuffix([]string{"type", "role"}, "body", "updated_at"))
	sqlStr, args, _ := q.ToSql()
	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return err
	}
	t.UpdatedAt = parseTime(formatTime(now))
	return nil
}
