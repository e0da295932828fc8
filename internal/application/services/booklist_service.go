package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/catalog"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/query"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/domain/user"
	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
	"github.com/AnLuoRidge/Lovely-AIP/internal/utils"
)

type BookListService struct {
	reader ports.DocumentStore
	writer ports.DocumentWriter
	cache  ports.CacheInvalidator
	logger *logrus.Logger
}

func NewBookListService(reader ports.DocumentStore, writer ports.DocumentWriter, cache ports.CacheInvalidator, logger *logrus.Logger) ports.BookListService {
	return &BookListService{reader: reader, writer: writer, cache: cache, logger: logger}
}

// List returns book lists newest first. A non-positive pageSize returns all.
func (s *BookListService) List(ctx context.Context, page, pageSize int64) ([]catalog.BookList, error) {
	q := query.Find(catalog.CollectionBookList).SortBy("createDate", query.Desc)
	if pageSize > 0 {
		q = q.Page(page, pageSize)
	}
	lists, err := findAll[catalog.BookList](ctx, s.reader, q.WithCache(catalog.TagBookLists))
	if err != nil {
		return nil, fmt.Errorf("failed to list booklists: %w", err)
	}
	return lists, nil
}

// Newest returns the n most recently updated book lists.
func (s *BookListService) Newest(ctx context.Context, n int64) ([]catalog.BookList, error) {
	q := query.Find(catalog.CollectionBookList).
		SortBy("updateDate", query.Desc).
		Take(n).
		WithCache(catalog.TagBookLists)
	lists, err := findAll[catalog.BookList](ctx, s.reader, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list newest booklists: %w", err)
	}
	return lists, nil
}

func (s *BookListService) Get(ctx context.Context, id string) (*catalog.BookList, error) {
	q := query.Find(catalog.CollectionBookList).Where("_id", id).WithCache(catalog.BookListTag(id))
	return findOne[catalog.BookList](ctx, s.reader, q, ErrBookListNotFound)
}

func (s *BookListService) live(ctx context.Context, id string) (*catalog.BookList, error) {
	return findOne[catalog.BookList](ctx, s.reader, query.Find(catalog.CollectionBookList).Where("_id", id), ErrBookListNotFound)
}

func (s *BookListService) Create(ctx context.Context, owner *user.User, req *catalog.CreateBookListRequest) (*catalog.BookList, error) {
	for _, entry := range req.Books {
		ok, err := exists(ctx, s.reader, catalog.CollectionBook, "_id", entry.BookID)
		if err != nil {
			return nil, fmt.Errorf("failed to check book: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBookNotFound, entry.BookID)
		}
	}

	slug, err := utils.UniqueSlug(ctx, req.Title, func(ctx context.Context, candidate string) (bool, error) {
		return exists(ctx, s.reader, catalog.CollectionBookList, "slug", candidate)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	books := req.Books
	if books == nil {
		books = []catalog.BookListEntry{}
	}
	now := utils.Now()
	bl := &catalog.BookList{
		ID:          uuid.NewString(),
		Title:       req.Title,
		User:        owner.ID.String(),
		Username:    owner.Name,
		Description: req.Description,
		Books:       books,
		Likes:       []catalog.Like{},
		Slug:        slug,
		CreateDate:  now,
		UpdateDate:  now,
	}
	if err := s.writer.Insert(ctx, catalog.CollectionBookList, bl.ID, bl); err != nil {
		return nil, fmt.Errorf("failed to create booklist: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, catalog.TagBookLists)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"booklist_id": bl.ID, "user_id": bl.User}).Info("booklist created")
	}
	return bl, nil
}

// ToggleLike likes the list for userID, or unlikes it if already liked.
func (s *BookListService) ToggleLike(ctx context.Context, id, userID string) (*catalog.BookList, error) {
	bl, err := s.live(ctx, id)
	if err != nil {
		return nil, err
	}
	bl.ToggleLike(userID)
	if err := s.writer.Replace(ctx, catalog.CollectionBookList, id, bl); err != nil {
		return nil, fmt.Errorf("failed to update booklist: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, catalog.BookListTag(id), catalog.TagBookLists)
	return bl, nil
}

// Delete removes the list. Only its owner or a staff member may do so.
func (s *BookListService) Delete(ctx context.Context, id, userID string, isStaff bool) error {
	bl, err := s.live(ctx, id)
	if err != nil {
		return err
	}
	if bl.User != userID && !isStaff {
		return ErrForbidden
	}
	if err := s.writer.Delete(ctx, catalog.CollectionBookList, id); err != nil {
		return fmt.Errorf("failed to delete booklist: %w", err)
	}
	invalidate(ctx, s.cache, s.logger, catalog.BookListTag(id), catalog.TagBookLists)
	return nil
}
