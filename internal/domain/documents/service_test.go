package documents_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/counter"
	"inventory/internal/domain/documents"
	"inventory/internal/infrastructure/storage/memory"
)

var issuedAt = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	products *product.Service
	docs     *documents.Service
}

func newFixture(t *testing.T, cfg counter.Config) *fixture {
	t.Helper()
	store := memory.NewStore()
	return newFixtureWithRepo(t, store, store.Documents, cfg)
}

func newFixtureWithRepo(t *testing.T, store *memory.Store, repo documents.Repository, cfg counter.Config) *fixture {
	t.Helper()
	allocator := counter.NewAllocator(store.Counters, cfg)
	docs := documents.NewService(
		repo,
		documents.NewProductResolver(store.Products, 4),
		allocator,
		store.TxManager,
	).WithClock(func() time.Time { return issuedAt })
	return &fixture{
		store:    store,
		products: product.NewService(store.Products),
		docs:     docs,
	}
}

func (f *fixture) addProduct(t *testing.T, code, price string) *product.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), &product.Product{
		Code:  code,
		Name:  "Product " + code,
		Price: types.MustMoney(price),
	})
	require.NoError(t, err)
	return p
}

func saleInput(ref string, items ...documents.ItemInput) documents.CreateInput {
	return documents.CreateInput{Reference: ref, Concept: "sale", Items: items}
}

func item(p *product.Product, qty int64) documents.ItemInput {
	return documents.ItemInput{ProductID: p.ID.String(), Quantity: qty}
}

func TestCreateAssemblesDocument(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, counter.Config{})
	a := f.addProduct(t, "A", "10")
	b := f.addProduct(t, "B", "5")

	desc := "counter sale"
	in := saleInput("INV-1", item(a, 2), item(b, 1))
	in.Description = &desc

	doc, err := f.docs.Create(ctx, in)
	require.NoError(t, err)

	assert.False(t, id.IsNil(doc.ID))
	assert.Equal(t, "INV-1", doc.Reference)
	assert.Equal(t, "sale", doc.Concept)
	assert.Equal(t, int64(1), doc.Consecutive)
	assert.Equal(t, issuedAt, doc.DateTime)
	assert.Equal(t, &desc, doc.Description)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, 1, doc.Items[0].LineNo)
	assert.Equal(t, a.ID, doc.Items[0].ProductID)
	assert.Equal(t, int64(2), doc.Items[0].Quantity)
	assert.True(t, doc.Items[0].Price.Equal(types.MustMoney("10")))
	assert.Equal(t, 2, doc.Items[1].LineNo)
	assert.True(t, doc.Total().Equal(types.MustMoney("25")))
	assert.Equal(t, 1, f.store.Documents.Count())
}

func TestCreateUnknownProductConsumesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, counter.Config{})
	a := f.addProduct(t, "A", "10")

	tests := []struct {
		name  string
		items []documents.ItemInput
	}{
		{"missing id", []documents.ItemInput{item(a, 1), {ProductID: id.New().String(), Quantity: 1}}},
		{"malformed id", []documents.ItemInput{{ProductID: "not-a-uuid", Quantity: 1}, item(a, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.docs.Create(ctx, saleInput("BAD-"+tt.name, tt.items...))
			require.Error(t, err)
			assert.True(t, apperror.IsNotFound(err), "got %v", err)
			assert.Zero(t, f.store.Documents.Count())
			assert.Empty(t, f.store.Counters.All())
		})
	}

	doc, err := f.docs.Create(ctx, saleInput("OK-1", item(a, 1)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Consecutive)
}

func TestCreateKeepsPriceSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, counter.Config{})
	a := f.addProduct(t, "A", "10.0")
	b := f.addProduct(t, "B", "5.0")

	_, err := f.docs.Create(ctx, saleInput("SNAP-1", item(a, 2), item(b, 1)))
	require.NoError(t, err)

	_, err = f.products.Update(ctx, a.ID, product.UpdateInput{
		Code: a.Code, Name: a.Name, Price: types.MustMoney("99.0"),
	})
	require.NoError(t, err)

	doc, err := f.docs.GetByReference(ctx, "SNAP-1")
	require.NoError(t, err)
	require.Len(t, doc.Items, 2)
	assert.True(t, doc.Items[0].Price.Equal(types.MustMoney("10")), "got %s", doc.Items[0].Price)
	assert.True(t, doc.Items[1].Price.Equal(types.MustMoney("5")))

	// The live product is attached for display, with its new price.
	require.NotNil(t, doc.Items[0].Product)
	assert.True(t, doc.Items[0].Product.Price.Equal(types.MustMoney("99")))
}

func TestCreateConsecutivePerConcept(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, counter.Config{})
	a := f.addProduct(t, "A", "1")

	s0, err := f.docs.Create(ctx, saleInput("S-1", item(a, 1)))
	require.NoError(t, err)
	s1, err := f.docs.Create(ctx, saleInput("S-2", item(a, 1)))
	require.NoError(t, err)
	p0, err := f.docs.Create(ctx, documents.CreateInput{
		Reference: "P-1", Concept: "purchase", Items: []documents.ItemInput{item(a, 3)},
	})
	require.NoError(t, err)

	assert.Equal(t, s0.Consecutive+1, s1.Consecutive)
	assert.Equal(t, int64(1), p0.Consecutive)
}

func TestCreateLegacySkipFirst(t *testing.T) {
	f := newFixture(t, counter.Config{LegacySkipFirst: true})
	a := f.addProduct(t, "A", "1")

	doc, err := f.docs.Create(context.Background(), saleInput("S-1", item(a, 1)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Consecutive)
}

func TestCreateDuplicateReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, counter.Config{})
	a := f.addProduct(t, "A", "1")

	_, err := f.docs.Create(ctx, saleInput("DUP", item(a, 1)))
	require.NoError(t, err)

	_, err = f.docs.Create(ctx, saleInput("DUP", item(a, 1)))
	assert.True(t, apperror.IsDuplicate(err))

	c := f.store.Counters.All()
	require.Len(t, c, 1)
	assert.Equal(t, int64(1), c[0].Value)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, counter.Config{})
	a := f.addProduct(t, "A", "1")

	tests := []struct {
		name string
		in   documents.CreateInput
	}{
		{"no reference", documents.CreateInput{Concept: "sale", Items: []documents.ItemInput{item(a, 1)}}},
		{"no concept", documents.CreateInput{Reference: "R", Items: []documents.ItemInput{item(a, 1)}}},
		{"no items", documents.CreateInput{Reference: "R", Concept: "sale"}},
		{"zero quantity", saleInput("R", item(a, 0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.docs.Create(context.Background(), tt.in)
			assert.True(t, apperror.IsValidation(err), "got %v", err)
		})
	}
	assert.Empty(t, f.store.Counters.All())
}

type failingRepo struct {
	documents.Repository
	fail bool
}

func (r *failingRepo) Create(ctx context.Context, doc *documents.Document) error {
	if r.fail {
		return errors.New("disk full")
	}
	return r.Repository.Create(ctx, doc)
}

// A write failing after allocation loses that number; the next document
// continues after it.
func TestCreateStorageFailureLeavesGap(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := &failingRepo{Repository: store.Documents, fail: true}
	f := newFixtureWithRepo(t, store, repo, counter.Config{})
	a := f.addProduct(t, "A", "1")

	_, err := f.docs.Create(ctx, saleInput("S-1", item(a, 1)))
	require.Error(t, err)
	assert.False(t, apperror.IsNotFound(err))

	repo.fail = false
	doc, err := f.docs.Create(ctx, saleInput("S-1", item(a, 1)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Consecutive)
}

func TestCreateConcurrentDistinctConsecutives(t *testing.T) {
	f := newFixture(t, counter.Config{})
	a := f.addProduct(t, "A", "1")

	const n = 20
	var wg sync.WaitGroup
	got := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := f.docs.Create(context.Background(), saleInput(fmt.Sprintf("C-%d", i), item(a, 1)))
			if assert.NoError(t, err) {
				got[i] = doc.Consecutive
			}
		}(i)
	}
	wg.Wait()

	expected := make([]int64, n)
	for i := range expected {
		expected[i] = int64(i + 1)
	}
	assert.ElementsMatch(t, expected, got)
}

func TestGetByReferenceUnknown(t *testing.T) {
	f := newFixture(t, counter.Config{})

	_, err := f.docs.GetByReference(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListFiltersByConcept(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, counter.Config{})
	a := f.addProduct(t, "A", "1")

	for _, in := range []documents.CreateInput{
		saleInput("S-1", item(a, 1)),
		saleInput("S-2", item(a, 1)),
		{Reference: "P-1", Concept: "purchase", Items: []documents.ItemInput{item(a, 1)}},
	} {
		_, err := f.docs.Create(ctx, in)
		require.NoError(t, err)
	}

	res, err := f.docs.List(ctx, domain.ListFilter{Concept: "sale"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalCount)
	for _, d := range res.Items {
		assert.Equal(t, "sale", d.Concept)
		require.NotNil(t, d.Items[0].Product)
	}
}
