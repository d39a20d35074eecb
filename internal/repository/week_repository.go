package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"weekly-planner/internal/model"
)

// WeekRepository manages per-user week rows: coaching context and the
// version counter guarding the week's task list.
type WeekRepository struct {
	db *gorm.DB
}

func NewWeekRepository(db *gorm.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

func (r *WeekRepository) GetOrCreate(ctx context.Context, userID uint, key model.WeekKey) (*model.Week, error) {
	var week model.Week
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND week_key = ?", userID, key).First(&week).Error
	switch {
	case err == nil:
		return &week, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		week = model.Week{UserID: userID, Key: key}
		if err := db.Create(&week).Error; err != nil {
			return nil, fmt.Errorf("create week: %w", err)
		}
		return &week, nil
	default:
		return nil, fmt.Errorf("find week: %w", err)
	}
}

// CoreContext is what coaching chat has learned about a week.
type CoreContext struct {
	Goal          string
	CurrentStatus string
	Constraints   string
}

// UpdateContext stores the non-empty fields of c. The version is left alone:
// it only tracks the task list.
func (r *WeekRepository) UpdateContext(ctx context.Context, week *model.Week, c CoreContext) error {
	updates := map[string]interface{}{}
	if c.Goal != "" {
		updates["goal"] = c.Goal
		week.Goal = c.Goal
	}
	if c.CurrentStatus != "" {
		updates["current_status"] = c.CurrentStatus
		week.CurrentStatus = c.CurrentStatus
	}
	if c.Constraints != "" {
		updates["constraints"] = c.Constraints
		week.Constraints = c.Constraints
	}
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Week{}).Where("id = ?", week.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update week context: %w", err)
	}
	return nil
}

// ListKeys returns every week key the user has a row for, oldest first.
func (r *WeekRepository) ListKeys(ctx context.Context, userID uint) ([]model.WeekKey, error) {
	var keys []model.WeekKey
	if err := r.db.WithContext(ctx).Model(&model.Week{}).Where("user_id = ?", userID).
		Order("week_key ASC").Pluck("week_key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
