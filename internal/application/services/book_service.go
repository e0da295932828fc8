package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/catalog"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/query"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/utils"
)

type BookService struct {
	reader ports.DocumentStore
	writer ports.DocumentWriter
	cache  ports.CacheInvalidator
	logger *logrus.Logger
}

func NewBookService(reader ports.DocumentStore, writer ports.DocumentWriter, cache ports.CacheInvalidator, logger *logrus.Logger) ports.BookService {
	return &BookService{reader: reader, writer: writer, cache: cache, logger: logger}
}

func (s *BookService) Get(ctx context.Context, id string) (*catalog.Book, error) {
	q := query.Find(catalog.CollectionBook).Where("_id", id).WithCache(catalog.BookTag(id))
	return findOne[catalog.Book](ctx, s.reader, q, ErrBookNotFound)
}

func (s *BookService) live(ctx context.Context, id string) (*catalog.Book, error) {
	return findOne[catalog.Book](ctx, s.reader, query.Find(catalog.CollectionBook).Where("_id", id), ErrBookNotFound)
}

func (s *BookService) requireCategory(ctx context.Context, id string) error {
	ok, err := exists(ctx, s.reader, catalog.CollectionCategory, "_id", id)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *BookService) Create(ctx context.Context, req *catalog.BookRequest) (*catalog.Book, error) {
	if err := s.requireCategory(ctx, req.Category); err != nil {
		return nil, err
	}
	slug, err := utils.UniqueSlug(ctx, req.Title, func(ctx context.Context, candidate string) (bool, error) {
		return exists(ctx, s.reader, catalog.CollectionBook, "slug", candidate)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	now := utils.Now()
	b := &catalog.Book{
		ID:          uuid.NewString(),
		Title:       req.Title,
		ISBN:        req.ISBN,
		Authors:     req.Authors,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		PublishDate: req.PublishDate.UTC().Truncate(time.Second),
		Slug:        slug,
		CreateDate:  now,
		UpdateDate:  now,
	}
	if err := s.writer.Insert(ctx, catalog.CollectionBook, b.ID, b); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, catalog.CategoryTag(b.Category))

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"book_id": b.ID, "category_id": b.Category}).Info("book created")
	}
	return b, nil
}

// Update replaces every editable field. Moving a book to another category
// invalidates both categories.
func (s *BookService) Update(ctx context.Context, id string, req *catalog.BookRequest) (*catalog.Book, error) {
	b, err := s.live(ctx, id)
	if err != nil {
		return nil, err
	}
	oldCategory := b.Category
	if req.Category != oldCategory {
		if err := s.requireCategory(ctx, req.Category); err != nil {
			return nil, err
		}
	}

	b.Title = req.Title
	b.ISBN = req.ISBN
	b.Authors = req.Authors
	b.Description = req.Description
	b.Category = req.Category
	b.Price = req.Price
	b.PublishDate = req.PublishDate.UTC().Truncate(time.Second)
	b.UpdateDate = utils.Now()
	if err := s.writer.Replace(ctx, catalog.CollectionBook, id, b); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	tags := []string{catalog.BookTag(id), catalog.CategoryTag(oldCategory)}
	if b.Category != oldCategory {
		tags = append(tags, catalog.CategoryTag(b.Category))
	}
	invalidate(ctx, s.cache, s.logger, tags...)
	return b, nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	b, err := s.live(ctx, id)
	if err != nil {
		return err
	}
	if err := s.writer.Delete(ctx, catalog.CollectionBook, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, catalog.BookTag(id), catalog.CategoryTag(b.Category))
	return nil
}
