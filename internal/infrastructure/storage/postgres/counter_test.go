package postgres

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/domain/counter"
)

type mockRow struct {
	vals []any
	err  error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	for i, d := range dest {
		switch ptr := d.(type) {
		case *string:
			*ptr = m.vals[i].(string)
		case *int64:
			*ptr = m.vals[i].(int64)
		}
	}
	return nil
}

// mockQuerier emulates sys_counters with a map, recognising the three
// statements CounterRepo issues.
type mockQuerier struct {
	mu      sync.Mutex
	rows    map[string]int64
	execErr error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{rows: make(map[string]int64)}
}

func (m *mockQuerier) GetQuerier(context.Context) Querier { return m }

func (m *mockQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.execErr != nil {
		return pgconn.CommandTag{}, m.execErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !strings.HasPrefix(sql, "INSERT INTO sys_counters") {
		return pgconn.CommandTag{}, errors.New("unexpected exec: " + sql)
	}
	name := args[0].(string)
	if _, ok := m.rows[name]; ok {
		return pgconn.NewCommandTag("INSERT 0 0"), nil
	}
	m.rows[name] = args[1].(int64)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := args[0].(string)
	v, ok := m.rows[name]
	if !ok {
		return &mockRow{err: pgx.ErrNoRows}
	}
	switch {
	case strings.HasPrefix(sql, "SELECT"):
		return &mockRow{vals: []any{name, v}}
	case strings.HasPrefix(sql, "UPDATE"):
		v++
		m.rows[name] = v
		return &mockRow{vals: []any{v}}
	}
	return &mockRow{err: errors.New("unexpected query: " + sql)}
}

func TestCounterRepo_CreateOutcomes(t *testing.T) {
	ctx := context.Background()
	repo := NewCounterRepo(newMockQuerier())

	res, err := repo.Create(ctx, "sale", 0)
	require.NoError(t, err)
	assert.Equal(t, counter.Created, res)

	res, err = repo.Create(ctx, "sale", 0)
	require.NoError(t, err)
	assert.Equal(t, counter.AlreadyExists, res)
}

func TestCounterRepo_UniqueViolationIsAlreadyExists(t *testing.T) {
	q := newMockQuerier()
	q.execErr = &pgconn.PgError{Code: "23505", ConstraintName: "sys_counters_pkey"}
	repo := NewCounterRepo(q)

	res, err := repo.Create(context.Background(), "sale", 0)
	require.NoError(t, err)
	assert.Equal(t, counter.AlreadyExists, res)
}

func TestCounterRepo_StorageErrorPropagates(t *testing.T) {
	q := newMockQuerier()
	q.execErr = errors.New("connection refused")
	repo := NewCounterRepo(q)

	_, err := repo.Create(context.Background(), "sale", 0)
	assert.ErrorIs(t, err, q.execErr)
}

func TestCounterRepo_WithAllocator(t *testing.T) {
	ctx := context.Background()
	repo := NewCounterRepo(newMockQuerier())
	a := counter.NewAllocator(repo, counter.Config{LegacySkipFirst: true})

	_, found, err := repo.FindByName(ctx, "sale")
	require.NoError(t, err)
	assert.False(t, found)

	v, err := a.NextValue(ctx, "sale")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	c, found, err := repo.FindByName(ctx, "sale")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, counter.Counter{Name: "sale", Value: 2}, c)
}

func TestCounterRepo_IncrementMissing(t *testing.T) {
	_, err := NewCounterRepo(newMockQuerier()).IncrementAndGet(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
