package ports

import (
	"context"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/catalog"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
)

type CategoryService interface {
	ListParents(ctx context.Context) ([]catalog.Category, error)
	ListWithBooks(ctx context.Context) ([]catalog.CategoryWithBooks, error)
	GetByID(ctx context.Context, id string, page catalog.BookPage) (*catalog.CategoryDetail, error)
	GetBySlug(ctx context.Context, slug string, page catalog.BookPage) (*catalog.CategoryDetail, error)
	Create(ctx context.Context, req *catalog.CreateCategoryRequest) (*catalog.Category, error)
	AddSubCategory(ctx context.Context, id string, req *catalog.AddSubCategoryRequest) (*catalog.Category, error)
	Delete(ctx context.Context, id string) error
}

type BookService interface {
	Get(ctx context.Context, id string) (*catalog.Book, error)
	Create(ctx context.Context, req *catalog.BookRequest) (*catalog.Book, error)
	Update(ctx context.Context, id string, req *catalog.BookRequest) (*catalog.Book, error)
	Delete(ctx context.Context, id string) error
}

type BookListService interface {
	List(ctx context.Context, page, pageSize int64) ([]catalog.BookList, error)
	Get(ctx context.Context, id string) (*catalog.BookList, error)
	Create(ctx context.Context, owner *user.User, req *catalog.CreateBookListRequest) (*catalog.BookList, error)
	ToggleLike(ctx context.Context, id, userID string) (*catalog.BookList, error)
	Delete(ctx context.Context, id, userID string, isStaff bool) error
	Newest(ctx context.Context, n int64) ([]catalog.BookList, error)
}

type FeedService interface {
	BookListsRSS(ctx context.Context, baseURL, feedPath string) (string, error)
}
