// Package storage persists finished digests to Postgres so past runs stay
// queryable.
//
// Expected schema:
//
//	CREATE TABLE digests (
//	    id         BIGSERIAL PRIMARY KEY,
//	    topic      TEXT        NOT NULL,
//	    timeframe  TEXT        NOT NULL,
//	    bullets    TEXT        NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//
//	CREATE TABLE digest_citations (
//	    id        BIGSERIAL PRIMARY KEY,
//	    digest_id BIGINT NOT NULL REFERENCES digests (id) ON DELETE CASCADE,
//	    position  INT    NOT NULL,
//	    title     TEXT   NOT NULL,
//	    source    TEXT   NOT NULL,
//	    url       TEXT   NOT NULL,
//	    published TEXT   NOT NULL
//	);
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/0x0BSoD/newsdigest/internal/model"
)

type DigestStorage struct {
	db *sqlx.DB
}

func NewDigestStorage(db *sqlx.DB) *DigestStorage {
	return &DigestStorage{db: db}
}

func (s *DigestStorage) Save(ctx context.Context, topic string, timeframe model.Timeframe, result model.SummaryResult) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var digestID int64
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO digests (topic, timeframe, bullets) VALUES ($1, $2, $3) RETURNING id`,
		topic, string(timeframe), strings.Join(result.Bullets, "\n"),
	).Scan(&digestID)
	if err != nil {
		return fmt.Errorf("insert digest: %w", err)
	}

	for i, c := range result.Citations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO digest_citations (digest_id, position, title, source, url, published)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			digestID, i, c.Title, c.Source, c.URL, c.Date,
		); err != nil {
			return fmt.Errorf("insert citation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Recent returns the bullets of the latest digests for a topic, newest
// first.
func (s *DigestStorage) Recent(ctx context.Context, topic string, limit int) ([]model.SummaryResult, error) {
	type digestRow struct {
		ID      int64  `db:"id"`
		Bullets string `db:"bullets"`
	}

	var rows []digestRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, bullets FROM digests WHERE topic = $1 ORDER BY created_at DESC LIMIT $2`,
		topic, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select digests: %w", err)
	}

	results := make([]model.SummaryResult, 0, len(rows))
	for _, row := range rows {
		var citations []model.Citation
		err := s.db.SelectContext(ctx, &citations,
			`SELECT title, source, url, published FROM digest_citations WHERE digest_id = $1 ORDER BY position`,
			row.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("select citations: %w", err)
		}

		results = append(results, model.SummaryResult{
			Bullets:   strings.Split(row.Bullets, "\n"),
			Citations: citations,
		})
	}

	return results, nil
}
