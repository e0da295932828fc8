package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/catalog"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/query"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/utils"
)

const listWithBooksConcurrency = 8

type CategoryService struct {
	reader ports.DocumentStore
	writer ports.DocumentWriter
	cache  ports.CacheInvalidator
	logger *logrus.Logger
}

// NewCategoryService reads through reader (normally the query cache) and
// writes through writer, invalidating cache tags after each write.
func NewCategoryService(reader ports.DocumentStore, writer ports.DocumentWriter, cache ports.CacheInvalidator, logger *logrus.Logger) ports.CategoryService {
	return &CategoryService{reader: reader, writer: writer, cache: cache, logger: logger}
}

func (s *CategoryService) allCategories(ctx context.Context) ([]catalog.Category, error) {
	q := query.Find(catalog.CollectionCategory).
		SortBy("name", query.Asc).
		WithCache(catalog.TagCategories)
	return findAll[catalog.Category](ctx, s.reader, q)
}

// ListParents returns every category that is not another category's
// sub-category, sorted by name.
func (s *CategoryService) ListParents(ctx context.Context) ([]catalog.Category, error) {
	all, err := s.allCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return catalog.ParentsOnly(all), nil
}

// ListWithBooks returns the parent categories each with all of its books.
func (s *CategoryService) ListWithBooks(ctx context.Context) ([]catalog.CategoryWithBooks, error) {
	parents, err := s.ListParents(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.CategoryWithBooks, len(parents))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listWithBooksConcurrency)
	for i, c := range parents {
		g.Go(func() error {
			books, err := findAll[catalog.Book](gctx, s.reader, booksOf(c.ID, catalog.BookPage{}))
			if err != nil {
				return fmt.Errorf("failed to list books of category %s: %w", c.ID, err)
			}
			out[i] = catalog.CategoryWithBooks{
				ID:            c.ID,
				Slug:          c.Slug,
				Name:          c.Name,
				SubCategories: c.SubCategories,
				Books:         books,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// booksOf is the cached query for a category's books. Every variant shares the
// category tag so one invalidation clears all pages and orderings.
func booksOf(categoryID string, page catalog.BookPage) query.Query {
	q := query.Find(catalog.CollectionBook).Where("category", categoryID)
	if dir, ok := query.ParseDirection(page.PublishSort); ok {
		q = q.SortBy("publishDate", dir)
	}
	if dir, ok := query.ParseDirection(page.PriceSort); ok {
		q = q.SortBy("price", dir)
	}
	if page.PageSize > 0 {
		q = q.Page(page.Page, page.PageSize)
	}
	return q.WithCache(catalog.CategoryTag(categoryID))
}

func (s *CategoryService) GetByID(ctx context.Context, id string, page catalog.BookPage) (*catalog.CategoryDetail, error) {
	q := query.Find(catalog.CollectionCategory).Where("_id", id).WithCache(catalog.CategoryTag(id))
	return s.detail(ctx, q, page)
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string, page catalog.BookPage) (*catalog.CategoryDetail, error) {
	q := query.Find(catalog.CollectionCategory).Where("slug", slug).WithCache(catalog.CategorySlugTag(slug))
	return s.detail(ctx, q, page)
}

func (s *CategoryService) detail(ctx context.Context, q query.Query, page catalog.BookPage) (*catalog.CategoryDetail, error) {
	c, err := findOne[catalog.Category](ctx, s.reader, q, ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}
	books, err := findAll[catalog.Book](ctx, s.reader, booksOf(c.ID, page))
	if err != nil {
		return nil, fmt.Errorf("failed to list books of category %s: %w", c.ID, err)
	}
	return &catalog.CategoryDetail{
		ID:            c.ID,
		Slug:          c.Slug,
		Name:          c.Name,
		SubCategories: c.SubCategories,
		Books:         books,
	}, nil
}

func (s *CategoryService) Create(ctx context.Context, req *catalog.CreateCategoryRequest) (*catalog.Category, error) {
	taken, err := exists(ctx, s.reader, catalog.CollectionCategory, "name", req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if taken {
		return nil, ErrCategoryExists
	}

	slug, err := utils.UniqueSlug(ctx, req.Name, func(ctx context.Context, candidate string) (bool, error) {
		return exists(ctx, s.reader, catalog.CollectionCategory, "slug", candidate)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	now := utils.Now()
	c := &catalog.Category{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Slug:          slug,
		SubCategories: []catalog.SubCategory{},
		CreateDate:    now,
		UpdateDate:    now,
	}
	if err := s.writer.Insert(ctx, catalog.CollectionCategory, c.ID, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, catalog.TagCategories)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"category_id": c.ID, "slug": c.Slug}).Info("category created")
	}
	return c, nil
}

// AddSubCategory prepends the category named by req (slug first, then id) to
// the sub-categories of id. Adding an existing sub-category is a no-op.
func (s *CategoryService) AddSubCategory(ctx context.Context, id string, req *catalog.AddSubCategoryRequest) (*catalog.Category, error) {
	parent, err := s.liveByField(ctx, "_id", id)
	if err != nil {
		return nil, err
	}

	var sub *catalog.Category
	if req.Slug != "" {
		sub, err = s.liveByField(ctx, "slug", req.Slug)
	} else {
		sub, err = s.liveByField(ctx, "_id", req.ID)
	}
	if err != nil {
		return nil, err
	}
	if sub.ID == parent.ID {
		return nil, ErrInvalidSubCategory
	}
	if parent.HasSub(sub.ID) {
		return parent, nil
	}

	parent.SubCategories = append([]catalog.SubCategory{{SubID: sub.ID, SubName: sub.Name}}, parent.SubCategories...)
	parent.UpdateDate = utils.Now()
	if err := s.writer.Replace(ctx, catalog.CollectionCategory, parent.ID, parent); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	invalidate(ctx, s.cache, s.logger,
		catalog.CategoryTag(parent.ID),
		catalog.CategorySlugTag(parent.Slug),
		catalog.TagCategories,
	)
	return parent, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	c, err := s.liveByField(ctx, "_id", id)
	if err != nil {
		return err
	}
	if err := s.writer.Delete(ctx, catalog.CollectionCategory, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	invalidate(ctx, s.cache, s.logger,
		catalog.CategoryTag(c.ID),
		catalog.CategorySlugTag(c.Slug),
		catalog.TagCategories,
	)
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"category_id": id}).Info("category deleted")
	}
	return nil
}

// liveByField reads one category bypassing the cache, for use on write paths.
func (s *CategoryService) liveByField(ctx context.Context, field, value string) (*catalog.Category, error) {
	q := query.Find(catalog.CollectionCategory).Where(field, value)
	return findOne[catalog.Category](ctx, s.reader, q, ErrCategoryNotFound)
}
