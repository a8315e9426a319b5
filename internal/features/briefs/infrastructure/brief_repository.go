package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"specforge/internal/features/briefs/domain"
)

// BriefRepository persists briefs.
type BriefRepository interface {
	List(ctx context.Context) ([]domain.Brief, error)
	Get(ctx context.Context, id uint) (*domain.Brief, error)
	Create(ctx context.Context, brief *domain.Brief) error
	Delete(ctx context.Context, id uint) error
}

type briefRepository struct {
	db *gorm.DB
}

func NewBriefRepository(db *gorm.DB) BriefRepository {
	return &briefRepository{db: db}
}

// List returns all briefs newest first.
func (r *briefRepository) List(ctx context.Context) ([]domain.Brief, error) {
	var rows []BriefModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list briefs: %w", err)
	}

	briefs := make([]domain.Brief, 0, len(rows))
	for i := range rows {
		briefs = append(briefs, rows[i].toEntity())
	}
	return briefs, nil
}

func (r *briefRepository) Get(ctx context.Context, id uint) (*domain.Brief, error) {
	var row BriefModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBriefNotFound
		}
		return nil, fmt.Errorf("failed to get brief %d: %w", id, err)
	}
	brief := row.toEntity()
	return &brief, nil
}

// Create inserts brief and writes the assigned ID back into it.
func (r *briefRepository) Create(ctx context.Context, brief *domain.Brief) error {
	row, err := newBriefModel(brief)
	if err != nil {
		return fmt.Errorf("failed to encode brief: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create brief: %w", err)
	}
	brief.ID = row.ID
	brief.CreatedAt = row.CreatedAt.UTC()
	return nil
}

func (r *briefRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&BriefModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete brief %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrBriefNotFound
	}
	return nil
}
