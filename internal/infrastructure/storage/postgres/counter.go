package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"inventory/internal/domain/counter"
)

const counterTable = "sys_counters"

// CounterRepo is the sequence store on sys_counters.
//
// Counter calls are executed outside of business transactions by the caller,
// so an increment is committed as soon as it returns.
type CounterRepo struct {
	txm QuerierSource
}

// QuerierSource yields the querier for a context. *TxManager implements it.
type QuerierSource interface {
	GetQuerier(ctx context.Context) Querier
}

// NewCounterRepo creates a new counter repository.
func NewCounterRepo(txm QuerierSource) *CounterRepo {
	return &CounterRepo{txm: txm}
}

func (r *CounterRepo) FindByName(ctx context.Context, name string) (counter.Counter, bool, error) {
	var c counter.Counter
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		"SELECT name, value FROM "+counterTable+" WHERE name = $1", name).Scan(&c.Name, &c.Value)
	if errors.Is(err, pgx.ErrNoRows) {
		return counter.Counter{}, false, nil
	}
	if err != nil {
		return counter.Counter{}, false, fmt.Errorf("select %s: %w", counterTable, err)
	}
	return c, true, nil
}

// Create relies on the primary key on name: ON CONFLICT DO NOTHING leaves the
// winner's row untouched and reports zero affected rows to the loser.
func (r *CounterRepo) Create(ctx context.Context, name string, initial int64) (counter.CreateOutcome, error) {
	tag, err := r.txm.GetQuerier(ctx).Exec(ctx,
		"INSERT INTO "+counterTable+" (name, value) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING",
		name, initial)
	if err != nil {
		if _, dup := UniqueViolation(err); dup {
			return counter.AlreadyExists, nil
		}
		return 0, fmt.Errorf("insert %s: %w", counterTable, err)
	}
	if tag.RowsAffected() == 0 {
		return counter.AlreadyExists, nil
	}
	return counter.Created, nil
}

func (r *CounterRepo) IncrementAndGet(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		"UPDATE "+counterTable+" SET value = value + 1 WHERE name = $1 RETURNING value",
		name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("increment counter %q: not found", name)
	}
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", counterTable, err)
	}
	return value, nil
}

var _ counter.Repository = (*CounterRepo)(nil)
