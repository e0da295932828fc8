package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/sirupsen/logrus"

	"github.com/AnLuoRidge/Lovely-AIP/internal/core/ports"
)

// FeedConfig describes the RSS channel.
type FeedConfig struct {
	Title       string
	Description string
	Author      string
	Size        int64
}

type FeedService struct {
	lists  ports.BookListService
	cfg    FeedConfig
	logger *logrus.Logger
}

func NewFeedService(lists ports.BookListService, cfg FeedConfig, logger *logrus.Logger) *FeedService {
	if cfg.Size <= 0 {
		cfg.Size = 10
	}
	return &FeedService{lists: lists, cfg: cfg, logger: logger}
}

// BookListsRSS renders the newest book lists as RSS 2.0. baseURL is the
// scheme and host the links should point at.
func (s *FeedService) BookListsRSS(ctx context.Context, baseURL, feedPath string) (string, error) {
	lists, err := s.lists.Newest(ctx, s.cfg.Size)
	if err != nil {
		return "", err
	}
	baseURL = strings.TrimRight(baseURL, "/")

	feed := &feeds.Feed{
		Title:       s.cfg.Title,
		Link:        &feeds.Link{Href: baseURL},
		Description: s.cfg.Description,
		Author:      &feeds.Author{Name: s.cfg.Author},
		Id:          baseURL + feedPath,
		Created:     time.Now().UTC(),
	}
	if len(lists) > 0 {
		feed.Updated = lists[0].UpdateDate
	}
	for _, bl := range lists {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       bl.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/booklist/%s", baseURL, bl.Slug)},
			Description: bl.Description,
			Author:      &feeds.Author{Name: bl.Username},
			Id:          bl.ID,
			Created:     bl.UpdateDate,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("failed to render booklist feed")
		}
		return "", fmt.Errorf("failed to render feed: %w", err)
	}
	return rss, nil
}
