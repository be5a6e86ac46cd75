package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory/internal/core/entity"
	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/documents"
)

func TestProductRecordRoundTrip(t *testing.T) {
	desc := "crisp"
	p := &product.Product{
		Base:        entity.NewBase(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
		Code:        "A1",
		Name:        "Apple",
		Price:       types.MustMoney("10.1234"),
		Description: &desc,
	}

	rec, err := toProductRecord(p)
	require.NoError(t, err)
	assert.Equal(t, p.ID.String(), rec.ID)
	assert.Equal(t, "10.1234", rec.Price.String())

	// Through BSON as the driver would.
	raw, err := bson.Marshal(rec)
	require.NoError(t, err)
	var decoded productRecord
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got, err := fromProductRecord(decoded)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Code, got.Code)
	assert.True(t, p.Price.Equal(got.Price))
	assert.Equal(t, desc, *got.Description)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
}

func TestDocumentRecordRoundTrip(t *testing.T) {
	doc := &documents.Document{
		ID:          id.New(),
		Reference:   "INV-1",
		Concept:     "sale",
		Consecutive: 7,
		DateTime:    time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		Items: []documents.Item{
			{LineNo: 1, ProductID: id.New(), Quantity: 2, Price: types.MustMoney("10")},
			{LineNo: 2, ProductID: id.New(), Quantity: 1, Price: types.MustMoney("5.5")},
		},
	}

	rec, err := toDocumentRecord(doc)
	require.NoError(t, err)
	raw, err := bson.Marshal(rec)
	require.NoError(t, err)
	var decoded documentRecord
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got, err := fromDocumentRecord(decoded)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Consecutive, got.Consecutive)
	assert.True(t, doc.DateTime.Equal(got.DateTime))
	assert.Nil(t, got.Description)
	require.Len(t, got.Items, 2)
	for i := range doc.Items {
		assert.Equal(t, doc.Items[i].ProductID, got.Items[i].ProductID)
		assert.Equal(t, doc.Items[i].Quantity, got.Items[i].Quantity)
		assert.True(t, doc.Items[i].Price.Equal(got.Items[i].Price))
	}
}

func TestFromProductRecordBadID(t *testing.T) {
	_, err := fromProductRecord(productRecord{ID: "nope", Price: primitive.NewDecimal128(0, 0)})
	require.Error(t, err)
}

func TestProductSearchFilter(t *testing.T) {
	assert.Empty(t, productSearchFilter("  "))

	f := productSearchFilter("a.b")
	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	re := or[0].(bson.M)["code"].(primitive.Regex)
	assert.Equal(t, `a\.b`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestIndexSpecsAreUnique(t *testing.T) {
	specs := indexSpecs()
	require.Len(t, specs[counterCollection], 1)
	assert.True(t, *specs[counterCollection][0].Options.Unique)
	assert.True(t, *specs[documentCollection][0].Options.Unique)
}
