// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Tables written by the blog before it moved to goose migrations.
// blog_posts kept its name and is adopted by the first migration.
const (
	legacyUsersTable    = "user"
	legacyCommentsTable = "pst__comments"
)

const (
	importLegacyUsers = `INSERT INTO users (id, name, email, password, role)
SELECT id, name, email, password, CASE WHEN id = 1 THEN 'owner' ELSE 'reader' END
FROM "user"`

	importLegacyComments = `INSERT INTO comments (id, post_id, name, comment)
SELECT id, post_id, name, comment FROM pst__comments`

	// Post ids referenced by comments must never be handed out again.
	bumpPostSequence = `UPDATE sqlite_sequence
SET seq = MAX(seq, COALESCE((SELECT MAX(post_id) FROM comments), 0))
WHERE name = 'blog_posts'`

	insertPostSequence = `INSERT INTO sqlite_sequence (name, seq)
SELECT 'blog_posts', (SELECT MAX(post_id) FROM comments)
WHERE NOT EXISTS (SELECT 1 FROM sqlite_sequence WHERE name = 'blog_posts')
  AND (SELECT MAX(post_id) FROM comments) IS NOT NULL`
)

// ImportLegacyTables copies accounts and comments from the tables of earlier
// SQLite deployments into users and comments. Each table is imported only
// while its target is still empty, so running it again is a no-op.
// Imported password hashes keep their original format.
func ImportLegacyTables(ctx context.Context, db *sql.DB) error {
	return RunInTx(ctx, db, func(q *Queries) error {
		users, err := importLegacy(ctx, q.db, legacyUsersTable, "users", importLegacyUsers)
		if err != nil {
			return err
		}
		comments, err := importLegacy(ctx, q.db, legacyCommentsTable, "comments", importLegacyComments)
		if err != nil {
			return err
		}
		if comments > 0 {
			for _, stmt := range []string{bumpPostSequence, insertPostSequence} {
				if _, err := q.db.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("reserving post ids: %w", err)
				}
			}
		}
		if users > 0 || comments > 0 {
			slog.Info("imported legacy tables", "users", users, "comments", comments)
		}
		return nil
	})
}

func importLegacy(ctx context.Context, db DBTX, source, target, stmt string) (int64, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, source).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("looking up table %s: %w", source, err)
	}
	if exists == 0 {
		return 0, nil
	}

	var rows int
	// target is one of the constants above.
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+target).Scan(&rows); err != nil {
		return 0, fmt.Errorf("counting %s: %w", target, err)
	}
	if rows > 0 {
		return 0, nil
	}

	res, err := db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("importing %s: %w", source, err)
	}
	return res.RowsAffected()
}
