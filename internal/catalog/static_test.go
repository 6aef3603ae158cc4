package catalog

import (
	"context"
	"testing"

	"yoolivery/internal/domain/model"
	repo "yoolivery/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRepository_List(t *testing.T) {
	ctx := context.Background()
	r := NewStaticRepository(Default())

	all, total, err := r.List(ctx, repo.ProductListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, all, 5)
	//名前順
	assert.Equal(t, "Hills Brandy 750ml", all[0].Name)

	beers, total, err := r.List(ctx, repo.ProductListQuery{Category: model.CategoryBeer})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, p := range beers {
		assert.Equal(t, model.CategoryBeer, p.Category)
	}

	//ブランドも検索対象、大文字小文字は無視
	hits, _, err := r.List(ctx, repo.ProductListQuery{Search: "imphal BREW"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "beer-dry-imphal-500", hits[0].ID)

	hits, _, err = r.List(ctx, repo.ProductListQuery{Category: model.CategoryRum, Search: "kingfisher"})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStaticRepository_ListPaging(t *testing.T) {
	ctx := context.Background()
	r := NewStaticRepository(Default())

	page1, total, err := r.List(ctx, repo.ProductListQuery{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page1, 2)

	page3, _, err := r.List(ctx, repo.ProductListQuery{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	page9, _, err := r.List(ctx, repo.ProductListQuery{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page9)

	//(page-1)*limitが溢れるほど大きいページでも空を返す
	huge, total, err := r.List(ctx, repo.ProductListQuery{Page: 100000000000000001, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, huge)
	assert.Equal(t, int64(5), total)

	none, _, err := r.List(ctx, repo.ProductListQuery{Page: 2, Limit: 2, Search: "no such drink"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStaticRepository_FindByID(t *testing.T) {
	r := NewStaticRepository(Default())

	p, err := r.FindByID(context.Background(), "rum-oldmonk-750")
	require.NoError(t, err)
	assert.Equal(t, int64(56000), p.PricePaise)

	_, err = r.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStaticRepository_CountByCategory(t *testing.T) {
	counts, err := NewStaticRepository(Default()).CountByCategory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.CategoryBeer])
	assert.Equal(t, int64(0), counts[model.CategoryWine])
}
