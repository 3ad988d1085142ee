package usecase

import (
	"context"

	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/pkg/e"
)

// CategoryUseCase отдаёт дерево категорий каталога.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
}

func NewCategoryUC(categoryRepo CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo}
}

// ListCategories возвращает категории в порядке отображения.
func (c *CategoryUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "CategoryUseCase.ListCategories"

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

func (c *CategoryUseCase) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	const op = "CategoryUseCase.GetCategory"

	category, err := c.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return category, nil
}
