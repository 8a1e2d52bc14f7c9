package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

type CatalogRepo struct {
	*Repo
	ids ports.IDGenerator
}

func NewCatalogRepo(db *sql.DB, dialect Dialect, ids ports.IDGenerator) *CatalogRepo {
	return &CatalogRepo{Repo: NewRepo(db, dialect), ids: ids}
}

var catalogColumns = []string{
	"id", "title", "description", "category", "price", "quantity", "unit",
	"unit_price", "total", "brand", "color", "size", "material", "origin", "tags_json",
	"source_language", "transcript", "created_at", "updated_at",
}

func (r *CatalogRepo) Create(ctx context.Context, e *domain.CatalogEntry) error {
	now := r.now().UTC()
	id := r.ids.NewID()
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return err
	}
	q := r.SQ.Insert("catalog_entries").Columns(catalogColumns...).
		Values(id, e.Title, e.Description, e.Category, e.Price, e.Quantity, e.Unit,
			e.UnitPrice, e.Total, e.Brand, e.Color, e.Size, e.Material, e.Origin, tags,
			string(e.SourceLanguage), e.Transcript, formatTime(now), formatTime(now))
	sqlStr, args, _ := q.ToSql()
	if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return err
	}
	e.ID = id
	e.CreatedAt = parseTime(formatTime(now))
	e.UpdatedAt = e.CreatedAt
	return nil
}

func (r *CatalogRepo) Get(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	return r.get(ctx, r.DB, id)
}

func (r *CatalogRepo) get(ctx context.Context, db querier, id string) (*domain.CatalogEntry, error) {
	q := r.SQ.Select(catalogColumns...).From("catalog_entries").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()
	e, err := scanEntry(db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	return e, err
}

func (r *CatalogRepo) List(ctx context.Context) ([]*domain.CatalogEntry, error) {
	return r.query(ctx, r.SQ.Select(catalogColumns...).From("catalog_entries"))
}

// Search matches the query case-insensitively against title, description,
// category and brand. An empty query lists everything.
func (r *CatalogRepo) Search(ctx context.Context, query string) ([]*domain.CatalogEntry, error) {
	b := r.SQ.Select(catalogColumns...).From("catalog_entries")
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		var or sq.Or
		for _, col := range []string{"title", "description", "category", "brand"} {
			or = append(or, sq.Expr("LOWER("+col+") LIKE ? ESCAPE '!'", pattern))
		}
		b = b.Where(or)
	}
	return r.query(ctx, b)
}

func (r *CatalogRepo) query(ctx context.Context, b sq.SelectBuilder) ([]*domain.CatalogEntry, error) {
	sqlStr, args, _ := b.OrderBy("updated_at DESC", "id DESC").ToSql()
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.CatalogEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update applies patch inside a transaction so concurrent patches do not
// overwrite each other's fields.
func (r *CatalogRepo) Update(ctx context.Context, id string, patch domain.CatalogPatch) (*domain.CatalogEntry, error) {
	var out *domain.CatalogEntry
	err := WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		e, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.Apply(e)
		tags, err := encodeTags(e.Tags)
		if err != nil {
			return err
		}
		now := formatTime(r.now())
		q := r.SQ.Update("catalog_entries").SetMap(map[string]any{
			"title": e.Title, "description": e.Description, "category": e.Category,
			"price": e.Price, "quantity": e.Quantity, "unit": e.Unit,
			"unit_price": e.UnitPrice, "total": e.Total,
			"brand": e.Brand, "color": e.Color, "size": e.Size,
			"material": e.Material, "origin": e.Origin, "tags_json": tags,
			"updated_at": now,
		}).Where(sq.Eq{"id": id})
		sqlStr, args, _ := q.ToSql()
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return err
		}
		e.UpdatedAt = parseTime(now)
		out = e
		return nil
	})
	return out, err
}

func (r *CatalogRepo) Delete(ctx context.Context, id string) error {
	q := r.SQ.Delete("catalog_entries").Where(sq.Eq{"id": id})
	sqlStr, args, _ := q.ToSql()
	res, err := r.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*domain.CatalogEntry, error) {
	var e domain.CatalogEntry
	var price, unitPrice, total sql.NullFloat64
	var tags, lang, created, updated string
	if err := s.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &price, &e.Quantity, &e.Unit,
		&unitPrice, &total, &e.Brand, &e.Color, &e.Size, &e.Material, &e.Origin, &tags,
		&lang, &e.Transcript, &created, &updated); err != nil {
		return nil, err
	}
	e.Price = nullFloat(price)
	e.UnitPrice = nullFloat(unitPrice)
	e.Total = nullFloat(total)
	if tags != "" {
		_ = json.Unmarshal([]byte(tags), &e.Tags)
	}
	e.SourceLanguage = domain.Language(lang)
	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	return &e, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	return string(b), err
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string { return likeEscaper.Replace(s) }
