// Package service contains the business logic layer of the diary server.
//
// THE THREE LAYERS:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, orchestrates image and entry storage
//	Repository (data layer)  → reads and writes diary entries
//
// DiaryService depends on two interfaces, repository.DiaryRepository and
// blob.Store. main.go decides which implementations to inject; tests inject
// hand-written fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/mini-diary/internal/apperror"
	"github.com/sakif/mini-diary/internal/blob"
	"github.com/sakif/mini-diary/internal/metrics"
	"github.com/sakif/mini-diary/internal/model"
	"github.com/sakif/mini-diary/internal/query"
	"github.com/sakif/mini-diary/internal/repository"
	"github.com/sakif/mini-diary/internal/richtext"
)

// DiaryService handles business logic for diary entries.
type DiaryService struct {
	repo      repository.DiaryRepository
	images    blob.Store
	logger    *slog.Logger
	allowWebP bool
}

// NewDiaryService wires a service. images may be nil, in which case any
// request carrying an image is rejected.
func NewDiaryService(repo repository.DiaryRepository, images blob.Store, logger *slog.Logger, allowWebP bool) *DiaryService {
	return &DiaryService{
		repo:      repo,
		images:    images,
		logger:    logger,
		allowWebP: allowWebP,
	}
}

// validateText applies the length rule to the raw text, markup included.
func validateText(text string) error {
	if richtext.IsValid(text) {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return apperror.ValidationFailed("text", "text is required")
	}
	return apperror.ValidationFailed("text",
		fmt.Sprintf("text must be %d characters or less (got %d)",
			richtext.MaxLength, utf8.RuneCountInString(strings.TrimSpace(text))))
}

func validateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperror.ValidationFailed("id", "diary ID is required")
	}
	return id, nil
}

// Create validates text and the optional image, stores the image, then the
// entry.
//
// ORDERING:
// Validation happens before any side effect, so a rejected request never
// leaves an orphan image. If the image was stored but the entry insert
// fails, the image is deleted again before returning.
func (s *DiaryService) Create(ctx context.Context, text string, image *blob.Upload) (diary *model.Diary, err error) {
	defer func() { metrics.RecordOperation("create", err) }()

	if err := validateText(text); err != nil {
		return nil, err
	}
	if image != nil {
		if s.images == nil {
			return nil, apperror.ValidationFailed("image", "image uploads are not enabled")
		}
		if err := blob.CheckImage(image.ContentType, image.Size, s.allowWebP); err != nil {
			return nil, err
		}
	}

	diary = &model.Diary{Text: text}

	if image != nil {
		url, err := s.images.Save(ctx, *image)
		metrics.RecordImage("save", err)
		if err != nil {
			s.logger.Error("failed to store image",
				slog.String("filename", image.Filename),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("storing image: %w", err)
		}
		diary.ImageURL = url
	}

	if err := s.repo.Create(ctx, diary); err != nil {
		s.logger.Error("failed to create diary", slog.String("error", err.Error()))
		if diary.ImageURL != "" {
			s.releaseImage(ctx, "rollback", diary.ImageURL)
		}
		return nil, fmt.Errorf("creating diary: %w", err)
	}

	s.logger.Info("diary created",
		slog.String("id", diary.ID),
		slog.Bool("has_image", diary.HasImage()),
	)
	s.refreshCount(ctx)

	return diary, nil
}

// GetByID returns apperror.ErrNotFound for an unknown id.
func (s *DiaryService) GetByID(ctx context.Context, id string) (diary *model.Diary, err error) {
	defer func() { metrics.RecordOperation("get", err) }()

	id, err = validateID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List validates p and evaluates it against the collection.
func (s *DiaryService) List(ctx context.Context, p query.Params) (res query.Result, err error) {
	defer func() { metrics.RecordOperation("list", err) }()

	if err := p.Validate(); err != nil {
		return query.Result{}, err
	}
	metrics.RecordListPage(p.Page)

	res, err = s.repo.Query(ctx, p)
	if err != nil {
		s.logger.Error("failed to list diaries", slog.String("error", err.Error()))
		return query.Result{}, fmt.Errorf("listing diaries: %w", err)
	}
	return res, nil
}

// Update replaces the text of an entry. The image is never touched.
func (s *DiaryService) Update(ctx context.Context, id, text string) (diary *model.Diary, err error) {
	defer func() { metrics.RecordOperation("update", err) }()

	id, err = validateID(id)
	if err != nil {
		return nil, err
	}
	if err := validateText(text); err != nil {
		return nil, err
	}

	diary, err = s.repo.UpdateText(ctx, id, text)
	if err != nil {
		return nil, err
	}

	s.logger.Info("diary updated", slog.String("id", diary.ID))
	return diary, nil
}

// Delete removes an entry and then its image.
//
// The entry is gone once the repository call succeeds. A failure to delete
// the image afterwards is logged and counted but not returned: the caller's
// request did succeed, and the orphaned file can be cleaned up later.
func (s *DiaryService) Delete(ctx context.Context, id string) (diary *model.Diary, err error) {
	defer func() { metrics.RecordOperation("delete", err) }()

	id, err = validateID(id)
	if err != nil {
		return nil, err
	}

	diary, err = s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	if diary.ImageURL != "" && s.images != nil {
		s.releaseImage(ctx, "delete", diary.ImageURL)
	}

	s.logger.Info("diary deleted", slog.String("id", id))
	s.refreshCount(ctx)

	return diary, nil
}

func (s *DiaryService) releaseImage(ctx context.Context, action, url string) {
	err := s.images.Delete(ctx, url)
	metrics.RecordImage(action, err)
	if err != nil {
		s.logger.Warn("failed to delete image",
			slog.String("action", action),
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
	}
}

func (s *DiaryService) refreshCount(ctx context.Context) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Warn("failed to count diaries", slog.String("error", err.Error()))
		return
	}
	metrics.SetEntries(n)
}

// Count returns the number of stored entries.
func (s *DiaryService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
