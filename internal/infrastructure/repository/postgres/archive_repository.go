package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/statline/gameday/internal/domain/archive"
	qb "github.com/statline/gameday/internal/platform/querybuilder"
)

// ArchiveRepository persists raw upstream payloads keyed by
// (source, entity_type, entity_key). Re-fetches overwrite in place so the
// table holds the latest copy of every document.
type ArchiveRepository struct {
	db *sqlx.DB
}

func NewArchiveRepository(db *sqlx.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) Upsert(ctx context.Context, payloads []archive.Payload) error {
	if len(payloads) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert feed payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range payloads {
		fetchedAt := item.FetchedAt
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}

		insertModel := feedPayloadInsertModel{
			Source:     item.Source,
			EntityType: item.EntityType,
			EntityKey:  item.EntityKey,
			GamePk:     item.GamePk,
			Payload:    string(item.Payload),
			Hash:       item.Hash,
			FetchedAt:  fetchedAt,
		}

		query, args, err := qb.InsertModel("raw_feed_payloads", insertModel, `ON CONFLICT (source, entity_type, entity_key)
DO UPDATE SET
    game_pk = EXCLUDED.game_pk,
    payload = EXCLUDED.payload,
    hash = EXCLUDED.hash,
    fetched_at = EXCLUDED.fetched_at`)
		if err != nil {
			return fmt.Errorf("build upsert feed payload query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert feed payload entity=%s key=%s: %w", item.EntityType, item.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert feed payloads tx: %w", err)
	}

	return nil
}

func (r *ArchiveRepository) FindByGamePk(ctx context.Context, gamePk int64, limit int) ([]archive.Payload, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := qb.Select("id", "source", "entity_type", "entity_key", "game_pk", "payload", "hash", "fetched_at").
		From("raw_feed_payloads").
		Where(qb.Eq("game_pk", gamePk)).
		OrderBy("fetched_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find feed payloads query: %w", err)
	}

	var rows []archive.Payload
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find feed payloads game_pk=%d: %w", gamePk, err)
	}

	return rows, nil
}

type feedPayloadInsertModel struct {
	Source     string    `db:"source"`
	EntityType string    `db:"entity_type"`
	EntityKey  string    `db:"entity_key"`
	GamePk     int64     `db:"game_pk"`
	Payload    string    `db:"payload"`
	Hash       string    `db:"hash"`
	FetchedAt  time.Time `db:"fetched_at"`
}
