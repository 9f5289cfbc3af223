// Package archive models raw upstream payload retention. Archival is
// best-effort bookkeeping for offline analysis and never gates the shaping
// pipeline.
package archive

import (
	"context"
	"time"
)

// Payload is one fetched upstream document.
type Payload struct {
	ID         int64     `db:"id"`
	Source     string    `db:"source"`
	EntityType string    `db:"entity_type"`
	EntityKey  string    `db:"entity_key"`
	GamePk     int64     `db:"game_pk"`
	Payload    []byte    `db:"payload"`
	Hash       string    `db:"hash"`
	FetchedAt  time.Time `db:"fetched_at"`
}

const (
	EntityTypeSchedule = "schedule"
	EntityTypeLiveFeed = "live_feed"
	EntityTypePerson   = "person"
)

// Repository stores fetched payloads keyed by (source, entity_type,
// entity_key); re-fetches of the same key overwrite in place.
type Repository interface {
	Upsert(ctx context.Context, payloads []Payload) error
	FindByGamePk(ctx context.Context, gamePk int64, limit int) ([]Payload, error)
}
