package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xtding233/craft-odds/internal/cost"
	"github.com/xtding233/craft-odds/internal/refdata"
)

// Meta keys written by SaveStore.
const (
	MetaVersion    = "version"
	MetaImportedAt = "imported_at"
)

// ErrEmpty is returned by LoadStore when no snapshot was ever saved.
var ErrEmpty = errors.New("no reference data snapshot stored")

// SaveStore replaces the stored snapshot with s in one transaction.
func (db *DB) SaveStore(ctx context.Context, s *refdata.Store) error {
	if s == nil {
		return errors.New("nil snapshot")
	}
	return db.InTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"level_chances", "leaves", "tools", "ranks"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		toolStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tools (name, ordinal, has_price, currency, per_attempt, bundle_price, bundle_size)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing tool statement: %w", err)
		}
		defer func() { _ = toolStmt.Close() }()

		for i, t := range s.Tools() {
			p, hasPrice := s.Price(t.Name)
			if _, err := toolStmt.ExecContext(ctx, t.Name, i, hasPrice,
				p.Currency, p.PerAttempt, p.BundlePrice, p.BundleSize); err != nil {
				return fmt.Errorf("inserting tool %s: %w", t.Name, err)
			}
		}

		for i, r := range s.Ranks() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO ranks (name, ordinal, visible) VALUES (?, ?, ?)`,
				r.Name, i, r.Visible); err != nil {
				return fmt.Errorf("inserting rank %s: %w", r.Name, err)
			}
		}

		leafStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO leaves (id, tool, option_name, slot_type, race, rank_name, slot_count, has_levels)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing leaf statement: %w", err)
		}
		defer func() { _ = leafStmt.Close() }()

		levelStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO level_chances (leaf_id, ordinal, level_key, level, percent)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing level statement: %w", err)
		}
		defer func() { _ = levelStmt.Close() }()

		// leaf ids follow walk order, which is what LoadStore replays
		var walkErr error
		id := 0
		s.Walk(func(tool, option, slot, race, rank string, leaf *refdata.Leaf) {
			if walkErr != nil || leaf == nil {
				return
			}
			id++
			if _, err := leafStmt.ExecContext(ctx, id, tool, option, slot, race, rank,
				leaf.SlotCount, leaf.HasLevels()); err != nil {
				walkErr = fmt.Errorf("inserting leaf %s/%s/%s/%s/%s: %w", tool, option, slot, race, rank, err)
				return
			}
			for j, lc := range leaf.Levels {
				if _, err := levelStmt.ExecContext(ctx, id, j, lc.Key, lc.Level, lc.Percent); err != nil {
					walkErr = fmt.Errorf("inserting level %s of leaf %d: %w", lc.Key, id, err)
					return
				}
			}
		})
		if walkErr != nil {
			return walkErr
		}

		if err := setMeta(ctx, tx, MetaVersion, s.Version); err != nil {
			return err
		}
		return setMeta(ctx, tx, MetaImportedAt, time.Now().UTC().Format(time.RFC3339))
	})
}

// LoadStore rebuilds the stored snapshot in its original enumeration order
// and validates it.
func (db *DB) LoadStore(ctx context.Context) (*refdata.Store, error) {
	version, err := db.Meta(ctx, MetaVersion)
	if err != nil {
		return nil, err
	}
	b := refdata.NewBuilder(version)

	ntools, err := db.loadTools(ctx, b)
	if err != nil {
		return nil, err
	}
	if ntools == 0 {
		return nil, ErrEmpty
	}
	if err := db.loadRanks(ctx, b); err != nil {
		return nil, err
	}
	levels, err := db.loadLevels(ctx)
	if err != nil {
		return nil, err
	}
	if err := db.loadLeaves(ctx, b, levels); err != nil {
		return nil, err
	}

	s := b.Build()
	if err := refdata.Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (db *DB) loadTools(ctx context.Context, b *refdata.Builder) (int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name, has_price, currency, per_attempt, bundle_price, bundle_size
		FROM tools ORDER BY ordinal
	`)
	if err != nil {
		return 0, fmt.Errorf("querying tools: %w", err)
	}
	defer func() { _ = rows.Close() }()

	n := 0
	for rows.Next() {
		var (
			name     string
			hasPrice bool
			p        cost.Price
		)
		if err := rows.Scan(&name, &hasPrice, &p.Currency, &p.PerAttempt, &p.BundlePrice, &p.BundleSize); err != nil {
			return 0, fmt.Errorf("scanning tool: %w", err)
		}
		b.AddTool(name)
		if hasPrice {
			b.SetPrice(name, p)
		}
		n++
	}
	return n, rows.Err()
}

func (db *DB) loadRanks(ctx context.Context, b *refdata.Builder) error {
	rows, err := db.QueryContext(ctx, `SELECT name, visible FROM ranks ORDER BY ordinal`)
	if err != nil {
		return fmt.Errorf("querying ranks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			name    string
			visible bool
		)
		if err := rows.Scan(&name, &visible); err != nil {
			return fmt.Errorf("scanning rank: %w", err)
		}
		b.AddRank(name, visible)
	}
	return rows.Err()
}

func (db *DB) loadLevels(ctx context.Context) (map[int64][]refdata.LevelChance, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT leaf_id, level_key, level, percent
		FROM level_chances ORDER BY leaf_id, ordinal
	`)
	if err != nil {
		return nil, fmt.Errorf("querying level chances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64][]refdata.LevelChance)
	for rows.Next() {
		var (
			id int64
			lc refdata.LevelChance
		)
		if err := rows.Scan(&id, &lc.Key, &lc.Level, &lc.Percent); err != nil {
			return nil, fmt.Errorf("scanning level chance: %w", err)
		}
		out[id] = append(out[id], lc)
	}
	return out, rows.Err()
}

func (db *DB) loadLeaves(ctx context.Context, b *refdata.Builder, levels map[int64][]refdata.LevelChance) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, tool, option_name, slot_type, race, rank_name, slot_count, has_levels
		FROM leaves ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("querying leaves: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id                            int64
			tool, option, slot, race, rnk string
			slotCount                     int
			hasLevels                     bool
		)
		if err := rows.Scan(&id, &tool, &option, &slot, &race, &rnk, &slotCount, &hasLevels); err != nil {
			return fmt.Errorf("scanning leaf: %w", err)
		}
		leaf := &refdata.Leaf{SlotCount: slotCount}
		if hasLevels {
			leaf.Levels = levels[id]
			if leaf.Levels == nil {
				leaf.Levels = []refdata.LevelChance{}
			}
		}
		b.AddLeaf(tool, option, slot, race, rnk, leaf)
	}
	return rows.Err()
}
