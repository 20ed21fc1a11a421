package service

import (
	"context"
	"fmt"
	"strings"

	"taskapp/internal/model"
	"taskapp/internal/repository"
)

// CategoryService implements category CRUD with the uniqueness and in-use
// rules. Validation runs before any transaction is opened.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List returns all persisted categories ordered by id. The "All" filter
// sentinel is not part of the result; callers prepend it when they need it.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

// Create validates and persists a new category with a freshly assigned id.
func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if err := s.checkName(ctx, name, model.UnassignedID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, name)
}

// Rename changes the category's name subject to the same rules as Create,
// except that the category's own current name does not count as a collision.
// Tasks referencing the old name are not updated.
func (s *CategoryService) Rename(ctx context.Context, category model.Category, newName string) (*model.Category, error) {
	if category.IsAll() {
		return nil, fmt.Errorf("%w: the %q pseudo-category cannot be renamed", model.ErrInvalidInput, model.AllCategoryName)
	}

	newName = strings.TrimSpace(newName)
	if err := s.checkName(ctx, newName, category.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Rename(ctx, category.ID, newName); err != nil {
		return nil, err
	}
	category.Name = newName
	return &category, nil
}

// Delete removes the category unless tasks still reference it.
func (s *CategoryService) Delete(ctx context.Context, category model.Category) error {
	if category.IsAll() {
		return fmt.Errorf("%w: the %q pseudo-category cannot be deleted", model.ErrInvalidInput, model.AllCategoryName)
	}
	return s.repo.Delete(ctx, category)
}

// checkName rejects empty names and names held by a category other than
// selfID. Matching is case-sensitive exact, like the unique index backing it.
func (s *CategoryService) checkName(ctx context.Context, name string, selfID int) error {
	if name == "" {
		return fmt.Errorf("%w: category name is required", model.ErrInvalidInput)
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: %q", model.ErrDuplicateName, name)
	}
	return nil
}
