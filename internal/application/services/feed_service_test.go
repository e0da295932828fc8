package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnLuoRidge/Lovely-AIP/internal/application/services"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/catalog"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
)

func TestFeedService_BookListsRSS(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	owner := &user.User{ID: uuid.New(), Name: "Ada"}
	_, err := f.lists.Create(ctx, owner, &catalog.CreateBookListRequest{Title: "Winter & Snow", Description: "Cold nights"})
	require.NoError(t, err)

	feed := services.NewFeedService(f.lists, services.FeedConfig{Title: "Knight Frank Booklist", Author: "Knight Frank"}, nil)
	rss, err := feed.BookListsRSS(ctx, "http://books.example.com/", "/api/feed/booklists")
	require.NoError(t, err)

	assert.Contains(t, rss, `<rss version="2.0"`)
	assert.Contains(t, rss, "<title>Knight Frank Booklist</title>")
	assert.Contains(t, rss, "Winter &amp; Snow")
	assert.Contains(t, rss, "http://books.example.com/booklist/winter-and-snow")
}

type failingLists struct{ ports.BookListService }

func (failingLists) Newest(ctx context.Context, n int64) ([]catalog.BookList, error) {
	return nil, errors.New("backend down")
}

func TestFeedService_PropagatesListError(t *testing.T) {
	feed := services.NewFeedService(failingLists{}, services.FeedConfig{}, nil)
	_, err := feed.BookListsRSS(context.Background(), "http://x", "/feed")
	assert.Error(t, err)
}
