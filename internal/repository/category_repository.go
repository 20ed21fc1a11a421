package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskapp/internal/event"
	"taskapp/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db  *gorm.DB
	bus *event.Bus
}

func NewCategoryRepository(db *gorm.DB, bus *event.Bus) *CategoryRepository {
	return &CategoryRepository{db: db, bus: bus}
}

// List returns all categories ordered ascending by id.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindByName returns the category with the exact given name, or nil when no
// such category exists. Matching is case-sensitive.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find category: %w", err)
	}
}

// Create allocates an id and inserts the category in one transaction.
func (r *CategoryRepository) Create(ctx context.Context, name string) (*model.Category, error) {
	category := model.Category{ID: model.UnassignedID, Name: name}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextID(tx, &model.Category{})
		if err != nil {
			return err
		}
		category.ID = id
		if err := tx.Create(&category).Error; err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.bus.Publish(event.Change{Kind: event.KindCategory, ID: category.ID})
	return &category, nil
}

// Rename updates the category's name. The referencing tasks keep the old
// name; see TaskService for the consequences of the loose reference.
func (r *CategoryRepository) Rename(ctx context.Context, id int, newName string) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Update("name", newName)
	if res.Error != nil {
		return fmt.Errorf("rename category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}

	r.bus.Publish(event.Change{Kind: event.KindCategory, ID: id})
	return nil
}

// Delete removes the category unless any task still references it. The
// in-use check and the delete share one transaction so a concurrent task
// insert cannot slip between them.
func (r *CategoryRepository) Delete(ctx context.Context, category model.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&model.Task{}).Where("category_name = ?", category.Name).Count(&refs).Error; err != nil {
			return fmt.Errorf("count referencing tasks: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("%w: %d task(s) reference %q", model.ErrCategoryInUse, refs, category.Name)
		}

		res := tx.Where("id = ?", category.ID).Delete(&model.Category{})
		if res.Error != nil {
			return fmt.Errorf("delete category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return model.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.bus.Publish(event.Change{Kind: event.KindCategory, ID: category.ID})
	return nil
}
