package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
	"inventory/internal/core/entity"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain"
	"inventory/internal/domain/catalogs/product"
)

func newProduct(code, name, price string) *product.Product {
	return &product.Product{
		Base:  entity.NewBase(time.Now()),
		Code:  code,
		Name:  name,
		Price: types.MustMoney(price),
	}
}

func TestProductStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	desc := "red"
	p := newProduct("A1", "Apple", "10")
	p.Description = &desc
	require.NoError(t, s.Create(ctx, p))

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Price = types.MustMoney("99")
	*got.Description = "green"

	again, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, again.Price.Equal(types.MustMoney("10")))
	assert.Equal(t, "red", *again.Description)
}

func TestProductStoreDuplicateCode(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	require.NoError(t, s.Create(ctx, newProduct("A1", "Apple", "1")))

	err := s.Create(ctx, newProduct("A1", "Apricot", "2"))
	assert.True(t, apperror.IsDuplicate(err))

	other := newProduct("B1", "Banana", "3")
	require.NoError(t, s.Create(ctx, other))
	other.Code = "A1"
	other.Touch(time.Now())
	assert.True(t, apperror.IsDuplicate(s.Update(ctx, other)))
}

func TestProductStoreRejectsStaleUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	p := newProduct("A1", "Apple", "10")
	require.NoError(t, s.Create(ctx, p))

	first, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	second, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)

	first.Price = types.MustMoney("20")
	first.Touch(time.Now())
	require.NoError(t, s.Update(ctx, first))

	second.Price = types.MustMoney("30")
	second.Touch(time.Now())
	err = s.Update(ctx, second)
	assert.True(t, apperror.IsConflict(err))

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.True(t, got.Price.Equal(types.MustMoney("20")))
}

func TestProductStoreUpdateWithoutBumpConflicts(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	p := newProduct("A1", "Apple", "10")
	require.NoError(t, s.Create(ctx, p))

	p.Name = "Green apple"
	assert.True(t, apperror.IsConflict(s.Update(ctx, p)))
}

func TestProductStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()

	_, err := s.GetByID(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))

	assert.True(t, apperror.IsNotFound(s.Update(ctx, newProduct("X", "X", "1"))))
}

func TestProductStoreListSearchAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	for _, p := range []*product.Product{
		newProduct("C3", "Cherry", "1"),
		newProduct("A1", "Apple", "1"),
		newProduct("B2", "Pineapple", "1"),
	} {
		require.NoError(t, s.Create(ctx, p))
	}

	res, err := s.List(ctx, domain.ListFilter{Search: "apple"})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "A1", res.Items[0].Code)
	assert.Equal(t, "B2", res.Items[1].Code)
	assert.Equal(t, int64(2), res.TotalCount)
}
