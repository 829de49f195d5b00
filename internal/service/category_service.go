package service

import (
	"context"
	"fmt"

	"smart-planner/internal/model"
	"smart-planner/internal/repository"
)

// CategoryInput represents data to create or update a category.
type CategoryInput struct {
	Name        string
	Description string
	ColorCode   string
}

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	color := input.ColorCode
	if color == "" {
		color = model.DefaultCategoryColor
	}

	category := model.Category{
		Name:        input.Name,
		Description: input.Description,
		ColorCode:   color,
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	if input.ColorCode != "" {
		category.ColorCode = input.ColorCode
	}

	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

// Popular returns the ten most used categories.
func (s *CategoryService) Popular(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListPopular(ctx, 10)
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
