package counter

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
)

// fakeRepo is a mutex-guarded sequence store. Hooks let tests stall or fail
// individual steps.
type fakeRepo struct {
	mu        sync.Mutex
	values    map[string]int64
	creates   int
	onFind    func()
	findErr   error
	incErr    error
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{values: make(map[string]int64)}
}

func (r *fakeRepo) FindByName(_ context.Context, name string) (Counter, bool, error) {
	if r.findErr != nil {
		return Counter{}, false, r.findErr
	}
	r.mu.Lock()
	v, ok := r.values[name]
	r.mu.Unlock()
	if r.onFind != nil {
		r.onFind()
	}
	return Counter{Name: name, Value: v}, ok, nil
}

func (r *fakeRepo) Create(_ context.Context, name string, initial int64) (CreateOutcome, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.values[name]; ok {
		return AlreadyExists, nil
	}
	r.values[name] = initial
	r.creates++
	return Created, nil
}

func (r *fakeRepo) IncrementAndGet(_ context.Context, name string) (int64, error) {
	if r.incErr != nil {
		return 0, r.incErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.values[name]; !ok {
		return 0, errors.New("counter missing")
	}
	r.values[name]++
	return r.values[name], nil
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveAllocation(_, outcome string) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, outcome)
	o.mu.Unlock()
}

func TestNextValue_FirstAllocationReturnsOne(t *testing.T) {
	a := NewAllocator(newFakeRepo(), Config{})

	v, err := a.NextValue(context.Background(), "sale")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

// The previous system stored 1 on creation and then incremented, so its first
// number was 2. LegacySkipFirst keeps that numbering.
func TestNextValue_LegacySkipFirstReturnsTwo(t *testing.T) {
	a := NewAllocator(newFakeRepo(), Config{LegacySkipFirst: true})

	v, err := a.NextValue(context.Background(), "sale")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	v, err = a.NextValue(context.Background(), "sale")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestNextValue_SequentialStrictlyIncreasing(t *testing.T) {
	a := NewAllocator(newFakeRepo(), Config{})
	ctx := context.Background()

	prev := int64(0)
	for i := 0; i < 50; i++ {
		v, err := a.NextValue(ctx, "sale")
		require.NoError(t, err)
		require.Equal(t, prev+1, v, "call %d", i)
		prev = v
	}
}

func TestNextValue_NamesAreIndependent(t *testing.T) {
	a := NewAllocator(newFakeRepo(), Config{})
	ctx := context.Background()

	v0, err := a.NextValue(ctx, "sale")
	require.NoError(t, err)
	v1, err := a.NextValue(ctx, "sale")
	require.NoError(t, err)
	p0, err := a.NextValue(ctx, "purchase")
	require.NoError(t, err)

	assert.Equal(t, v0+1, v1)
	assert.Equal(t, int64(1), p0)
}

func TestNextValue_ConcurrentFirstUseRaceLoserRecovers(t *testing.T) {
	repo := newFakeRepo()
	obs := &recordingObserver{}

	// Hold both callers after their lookup until each has seen the counter
	// missing, forcing both into Create.
	var barrier sync.WaitGroup
	barrier.Add(2)
	repo.onFind = func() {
		barrier.Done()
		barrier.Wait()
	}

	a := NewAllocator(repo, Config{}, WithObserver(obs))

	var wg sync.WaitGroup
	results := make([]int64, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = a.NextValue(context.Background(), "sale")
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, results[0], results[1])
	assert.ElementsMatch(t, []int64{1, 2}, results)
	assert.Equal(t, 1, repo.creates)
	assert.Len(t, repo.values, 1)
	assert.ElementsMatch(t, []string{OutcomeCreated, OutcomeRaceLost}, obs.outcomes)
}

func TestNextValue_ManyConcurrentCallersNoDuplicates(t *testing.T) {
	a := NewAllocator(newFakeRepo(), Config{})

	const n = 64
	var wg sync.WaitGroup
	ch := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := a.NextValue(context.Background(), "sale")
			assert.NoError(t, err)
			ch <- v
		}()
	}
	wg.Wait()
	close(ch)

	seen := make(map[int64]bool, n)
	for v := range ch {
		assert.False(t, seen[v], "duplicate value %d", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)
	for v := int64(1); v <= n; v++ {
		assert.True(t, seen[v], "missing value %d", v)
	}
}

func TestNextValue_StorageErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name  string
		setup func(r *fakeRepo)
	}{
		{"find", func(r *fakeRepo) { r.findErr = boom }},
		{"create", func(r *fakeRepo) { r.createErr = boom }},
		{"increment", func(r *fakeRepo) { r.incErr = boom }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			tt.setup(repo)
			obs := &recordingObserver{}
			a := NewAllocator(repo, Config{}, WithObserver(obs))

			_, err := a.NextValue(context.Background(), "sale")
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, []string{OutcomeError}, obs.outcomes)
		})
	}
}

func TestNextValue_EmptyNameIsValidationError(t *testing.T) {
	a := NewAllocator(newFakeRepo(), Config{})

	_, err := a.NextValue(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
