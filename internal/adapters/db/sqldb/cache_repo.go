package sqldb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"

	sq "github.com/Masterminds/squirrel"

	"voicecat/internal/domain"
)

type CacheRepo struct{ *Repo }

func NewCacheRepo(db *sql.DB, dialect Dialect) *CacheRepo { return &CacheRepo{NewRepo(db, dialect)} }

// sourceHash keys the unique index; MySQL cannot index unbounded TEXT.
func sourceHash(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

func (r *CacheRepo) Get(ctx context.Context, src, srcLang, tgtLang, provider, model string) (*domain.CacheEntry, error) {
	q := r.SQ.Select(
		"id",
		"source_text",
		"src_lang",
		"tgt_lang",
		"provider",
		"model",
		"translation",
		"created_at",
	).
		From("cache").
		Where(sq.Eq{
			"source_hash": sourceHash(src),
			"src_lang":    srcLang,
			"tgt_lang":    tgtLang,
			"provider":    provider,
			"model":       model,
		}).
		Limit(1)
	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var e domain.CacheEntry
	var created string
	if err := row.Scan(
		&e.ID,
		&e.SourceText,
		&e.SrcLang,
		&e.TgtLang,
		&e.Provider,
		&e.Model,
		&e.Translation,
		&created,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	e.CreatedAt = parseTime(created)
	return &e, nil
}

func (r *CacheRepo) Put(ctx context.Context, entry *domain.CacheEntry) error {
	q := r.SQ.
		Insert("cache").
		Columns(
			"source_hash",
			"source_text",
			"src_lang",
			"tgt_lang",
			"provider",
			"model",
			"translation",
			"created_at",
		).
		Values(
			sourceHash(entry.SourceText),
			entry.SourceText,
			entry.SrcLang,
			entry.TgtLang,
			entry.Provider,
			entry.Model,
			entry.Translation,
			formatTime(r.now()),
		).
		Suffix(r.upsertSuffix([]string{"source_hash", "src_lang", "tgt_lang", "provider", "model"}, "translation"))
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}
