package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "tempo/backend/internal/errors"
	"tempo/backend/internal/model"
	"tempo/backend/internal/repository"
)

type LabelService struct {
	repo *repository.LabelRepository
}

func NewLabelService(repo *repository.LabelRepository) *LabelService {
	return &LabelService{repo: repo}
}

func (s *LabelService) List(ctx context.Context) ([]model.Label, *apperrors.APIError) {
	labels, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list labels")
	}
	return labels, nil
}

func (s *LabelService) Get(ctx context.Context, id int64) (*model.Label, *apperrors.APIError) {
	label, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("label_not_found", "label not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to get label")
	}
	return label, nil
}

func (s *LabelService) Create(ctx context.Context, name string) (*model.Label, *apperrors.APIError) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.BadRequest("invalid_label_name", "label name cannot be empty")
	}

	_, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return nil, apperrors.Conflict("label_exists", fmt.Sprintf("label %q already exists", name))
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("failed to query label")
	}

	label := model.Label{Name: name}
	if err := s.repo.Create(ctx, &label); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("label_exists", fmt.Sprintf("label %q already exists", name))
		}
		return nil, apperrors.Internal("failed to create label")
	}
	return &label, nil
}

func (s *LabelService) Delete(ctx context.Context, id int64) *apperrors.APIError {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("label_not_found", "label not found")
	}
	if err != nil {
		return apperrors.Internal("failed to delete label")
	}
	return nil
}
