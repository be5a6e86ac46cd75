package document_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/id"
	"inventory/internal/core/types"
	"inventory/internal/domain"
	"inventory/internal/domain/documents"
)

func TestDocumentListQuery(t *testing.T) {
	repo := NewDocumentRepo(nil)

	sql, args, err := repo.listQuery(domain.ListFilter{Concept: "sale", Limit: 20, Offset: 40}).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, reference, concept, consecutive, datetime, description FROM documents "+
			"WHERE concept = $1 ORDER BY datetime DESC, id DESC LIMIT 20 OFFSET 40",
		sql)
	assert.Equal(t, []any{"sale"}, args)

	sql, args, err = repo.listQuery(domain.ListFilter{Limit: 5}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestDocumentInsertItems(t *testing.T) {
	repo := NewDocumentRepo(nil)
	doc := &documents.Document{
		ID:          id.New(),
		Reference:   "INV-1",
		Concept:     "sale",
		Consecutive: 3,
		DateTime:    time.Now().UTC(),
		Items: []documents.Item{
			{LineNo: 1, ProductID: id.New(), Quantity: 2, Price: types.MustMoney("10")},
			{LineNo: 2, ProductID: id.New(), Quantity: 1, Price: types.MustMoney("5")},
		},
	}

	sql, args, err := repo.insertItems(doc).ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql,
		"INSERT INTO document_items (document_id,line_no,product_id,quantity,price) VALUES ($1,$2,$3,$4,$5),($6,"), sql)
	require.Len(t, args, 10)
	assert.Equal(t, doc.ID, args[0])
	assert.Equal(t, 2, args[6])
	assert.Equal(t, doc.Items[1].Price, args[9])
}
