package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"weekly-planner/internal/model"
)

// ErrWeekConflict reports that a week's task list changed after it was read.
var ErrWeekConflict = errors.New("week was modified concurrently")

// TaskRepository stores week-scoped task lists.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListByWeek returns the tasks of a week in stored order.
func (r *TaskRepository) ListByWeek(ctx context.Context, userID uint, key model.WeekKey) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND week = ?", userID, key).
		Order("position ASC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID uint, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByPrefix resolves a shortened task ID, as typed by a user.
func (r *TaskRepository) FindByPrefix(ctx context.Context, userID uint, prefix string) (*model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id LIKE ?", userID, prefix+"%").
		Limit(2).Find(&tasks).Error; err != nil {
		return nil, err
	}
	switch len(tasks) {
	case 0:
		return nil, gorm.ErrRecordNotFound
	case 1:
		return &tasks[0], nil
	default:
		return nil, fmt.Errorf("task id %q is ambiguous", prefix)
	}
}

// WeekWrite is the full replacement list of one week, together with the
// week row as it was read.
type WeekWrite struct {
	Week  model.Week
	Tasks []model.Task
}

// SaveWeeks replaces the task lists of the given weeks in one transaction.
// Each week's version must still match the one that was read; otherwise
// nothing is written and ErrWeekConflict is returned. On success the
// versions in writes are advanced.
func (r *TaskRepository) SaveWeeks(ctx context.Context, userID uint, writes []WeekWrite) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range writes {
			res := tx.Model(&model.Week{}).
				Where("id = ? AND user_id = ? AND version = ?", w.Week.ID, userID, w.Week.Version).
				Update("version", gorm.Expr("version + 1"))
			if res.Error != nil {
				return fmt.Errorf("bump week version: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrWeekConflict, w.Week.Key)
			}
		}

		// Delete every affected week before inserting so a task moving
		// between two of them never collides with its old row.
		for _, w := range writes {
			if err := tx.Where("user_id = ? AND week = ?", userID, w.Week.Key).Delete(&model.Task{}).Error; err != nil {
				return fmt.Errorf("clear week tasks: %w", err)
			}
		}

		for _, w := range writes {
			if len(w.Tasks) == 0 {
				continue
			}
			rows := make([]model.Task, len(w.Tasks))
			for i, t := range w.Tasks {
				t.UserID = userID
				t.Week = w.Week.Key
				t.Position = i
				rows[i] = t
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("insert week tasks: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i := range writes {
		writes[i].Week.Version++
	}
	return nil
}

// CountByUser returns how many tasks a user has across all weeks.
func (r *TaskRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
