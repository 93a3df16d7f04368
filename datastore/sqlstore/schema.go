/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"bufio"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

//go:embed schema/*.sql
var schemas embed.FS

// DB is a database handle bound to its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to dsn, checks the connection and applies the schema.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}
	out := &DB{DB: db, Dialect: dialect}
	if err := Migrate(ctx, out); err != nil {
		_ = db.Close()
		return nil, err
	}
	return out, nil
}

// Migrate applies the dialect's embedded DDL. Statements are idempotent.
func Migrate(ctx context.Context, db *DB) error {
	ddl, err := schemas.ReadFile(db.Dialect.Schema)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	for _, stmt := range SplitStatements(string(ddl)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

// SplitStatements splits a semicolon-terminated DDL script into executable statements.
// It drops blank lines and single-line comments that start with "--".
func SplitStatements(ddl string) []string {
	scanner := bufio.NewScanner(strings.NewReader(ddl))
	var stmts []string
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}

	if tail := strings.TrimSpace(current.String()); tail != "" {
		stmts = append(stmts, tail)
	}

	return stmts
}
