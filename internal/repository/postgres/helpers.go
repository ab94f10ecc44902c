package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

// dbtx is satisfied by *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// mapWriteError converts constraint violations into client errors. conflict
// is the message used for unique violations.
func mapWriteError(err error, conflict string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.Conflict(conflict)
		case pgForeignKeyViolation:
			return apperror.WithKind(apperror.KindValidation, "", "Referenced resource does not exist")
		case pgCheckViolation:
			return apperror.WithKind(apperror.KindValidation, "", "Value violates a data constraint")
		}
	}
	return err
}

// mapReadError reports missing rows and malformed ids (a UUID column fed
// something that is not a UUID) as domain.ErrNotFound.
func mapReadError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidText {
		return domain.ErrNotFound
	}
	return err
}

func checkAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// whereBuilder accumulates positional conditions. A cond refers to its
// placeholder as %[1]d, which may appear more than once.
type whereBuilder struct {
	conds []string
	args  []any
}

func newWhere(base ...string) *whereBuilder {
	return &whereBuilder{conds: append([]string(nil), base...)}
}

func (w *whereBuilder) add(cond string, v any) {
	w.args = append(w.args, v)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET args and returns the clause.
func (w *whereBuilder) page(q domain.PageQuery) (string, []any) {
	args := append(append([]any(nil), w.args...), q.PageSize, q.Offset())
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}
