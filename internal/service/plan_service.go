package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"weekly-planner/internal/metrics"
	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
	"weekly-planner/internal/repository"
)

// ErrEmptyText is returned when a user adds a task without text.
var ErrEmptyText = errors.New("task text is required")

// PlanService binds the plan engine to persistence. Every mutating call reads
// the weeks it touches into a fresh plan.Store, applies the change and writes
// back only the weeks the store marked dirty.
type PlanService struct {
	weekRepo *repository.WeekRepository
	taskRepo *repository.TaskRepository
	now      func() time.Time
}

func NewPlanService(weekRepo *repository.WeekRepository, taskRepo *repository.TaskRepository) *PlanService {
	return &PlanService{weekRepo: weekRepo, taskRepo: taskRepo, now: time.Now}
}

// Week returns the stored tasks of a week in their list order.
func (s *PlanService) Week(ctx context.Context, user *model.User, key model.WeekKey) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListByWeek(ctx, user.ID, key)
	if err != nil {
		return nil, fmt.Errorf("list week %s: %w", key, err)
	}
	store := plan.NewStore()
	store.Load(key, tasks)
	return store.Week(key), nil
}

// View returns the day-bucketed calendar of a week.
func (s *PlanService) View(ctx context.Context, user *model.User, key model.WeekKey, opts plan.ViewOptions) (map[model.Day][]model.Task, error) {
	tasks, err := s.Week(ctx, user, key)
	if err != nil {
		return nil, err
	}
	return plan.DayBuckets(tasks, opts), nil
}

// Completion returns the checked share of a week, or nil when it is empty.
func (s *PlanService) Completion(ctx context.Context, user *model.User, key model.WeekKey) (*float64, error) {
	tasks, err := s.Week(ctx, user, key)
	if err != nil {
		return nil, err
	}
	return plan.Completion(tasks), nil
}

// TaskCount returns how many tasks the user has planned across all weeks.
func (s *PlanService) TaskCount(ctx context.Context, user *model.User) (int64, error) {
	return s.taskRepo.CountByUser(ctx, user.ID)
}

// Weeks lists the weeks the user has planned, oldest first.
func (s *PlanService) Weeks(ctx context.Context, user *model.User) ([]model.WeekKey, error) {
	return s.weekRepo.ListKeys(ctx, user.ID)
}

// ResolveTask finds a task by its full ID or by a unique ID prefix.
func (s *PlanService) ResolveTask(ctx context.Context, user *model.User, ref string) (*model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, gorm.ErrRecordNotFound
	}
	task, err := s.taskRepo.FindByID(ctx, user.ID, ref)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.taskRepo.FindByPrefix(ctx, user.ID, ref)
}

// AddTask appends a task created directly by the user. The day may be left
// unscheduled.
func (s *PlanService) AddTask(ctx context.Context, user *model.User, key model.WeekKey, day model.Day, text string, status model.Status) (model.Task, error) {
	if strings.TrimSpace(text) == "" {
		return model.Task{}, ErrEmptyText
	}
	var added model.Task
	err := s.update(ctx, user, func(sess *session) error {
		if err := sess.load(ctx, key); err != nil {
			return err
		}
		added, _ = sess.store.Add(key, model.Task{Week: key, Day: day, Text: text, Status: plan.ParseUserStatus(string(status))})
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}
	log.Printf("[info] user %d added task %s to %s", user.ID, added.ID, key)
	return added, nil
}

// MergeProposals normalizes loosely typed proposal records and merges them
// into the week. It returns how many tasks were new. Repeating a merge adds
// nothing.
func (s *PlanService) MergeProposals(ctx context.Context, user *model.User, key model.WeekKey, raws []map[string]any) (int, error) {
	var added int
	err := s.update(ctx, user, func(sess *session) error {
		if err := sess.load(ctx, key); err != nil {
			return err
		}
		incoming := plan.NormalizeAll(raws, key, s.now())
		added = sess.store.MergeInto(key, incoming)
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.ObserveMerge(added)
	log.Printf("[info] user %d merged %d proposals into %s: %d new", user.ID, len(raws), key, added)
	return added, nil
}

// SetStatus changes a task's status. Moving a task into postponed reschedules
// it to the next day, or to Monday of the next week from Sunday, and saves
// both affected weeks together.
func (s *PlanService) SetStatus(ctx context.Context, user *model.User, taskID string, status model.Status) (plan.Transition, error) {
	status = plan.ParseUserStatus(string(status))
	var tr plan.Transition
	err := s.update(ctx, user, func(sess *session) error {
		current, err := sess.loadTask(ctx, taskID)
		if err != nil {
			return err
		}
		if status == model.Postponed && current.Status != model.Postponed {
			if target := plan.Advance(current).Week; !sess.store.Loaded(target) {
				if err := sess.load(ctx, target); err != nil {
					return err
				}
			}
		}
		tr, _ = sess.store.SetStatus(current.ID, status)
		return nil
	})
	if err != nil {
		return plan.Transition{}, err
	}

	if tr.Before.Status != tr.After.Status {
		metrics.ObserveStatus(tr.After.Status)
	}
	if tr.Moved {
		metrics.ObservePostpone(tr.Wrapped())
		log.Printf("[info] user %d postponed task %s: %s %s -> %s %s",
			user.ID, taskID, tr.Before.Week, tr.Before.Day, tr.After.Week, tr.After.Day)
	}
	return tr, nil
}

// SetHidden toggles whether a task is shown in the default calendar view.
func (s *PlanService) SetHidden(ctx context.Context, user *model.User, taskID string, hidden bool) (model.Task, error) {
	var task model.Task
	err := s.update(ctx, user, func(sess *session) error {
		current, err := sess.loadTask(ctx, taskID)
		if err != nil {
			return err
		}
		task, _ = sess.store.SetHidden(current.ID, hidden)
		return nil
	})
	return task, err
}

// DeleteTask removes a task from its week.
func (s *PlanService) DeleteTask(ctx context.Context, user *model.User, taskID string) error {
	return s.update(ctx, user, func(sess *session) error {
		current, err := sess.loadTask(ctx, taskID)
		if err != nil {
			return err
		}
		sess.store.Remove(current)
		return nil
	})
}

// update runs fn against a fresh session and commits it. A write that lost
// an optimistic version check is retried once from a new read.
func (s *PlanService) update(ctx context.Context, user *model.User, fn func(*session) error) error {
	for attempt := 0; ; attempt++ {
		sess := s.newSession(user)
		if err := fn(sess); err != nil {
			return err
		}
		err := sess.commit(ctx)
		if !errors.Is(err, repository.ErrWeekConflict) {
			return err
		}
		metrics.ObserveConflict()
		if attempt > 0 {
			return err
		}
		log.Printf("[info] user %d: %v, retrying", user.ID, err)
	}
}

// session is the set of weeks read for one operation together with the week
// rows whose versions guard the write.
type session struct {
	svc   *PlanService
	user  *model.User
	store *plan.Store
	rows  map[model.WeekKey]*model.Week
}

func (s *PlanService) newSession(user *model.User) *session {
	return &session{
		svc:   s,
		user:  user,
		store: plan.NewStore(),
		rows:  make(map[model.WeekKey]*model.Week),
	}
}

func (sess *session) load(ctx context.Context, key model.WeekKey) error {
	if _, ok := sess.rows[key]; ok {
		return nil
	}
	// The version is read before the tasks so a concurrent write in between
	// surfaces as a conflict.
	week, err := sess.svc.weekRepo.GetOrCreate(ctx, sess.user.ID, key)
	if err != nil {
		return err
	}
	tasks, err := sess.svc.taskRepo.ListByWeek(ctx, sess.user.ID, key)
	if err != nil {
		return fmt.Errorf("list week %s: %w", key, err)
	}
	sess.rows[key] = week
	sess.store.Load(key, tasks)
	return nil
}

// loadTask loads the week holding taskID and returns the task as the store
// sees it.
func (sess *session) loadTask(ctx context.Context, taskID string) (model.Task, error) {
	stored, err := sess.svc.taskRepo.FindByID(ctx, sess.user.ID, taskID)
	if err != nil {
		return model.Task{}, err
	}
	if err := sess.load(ctx, stored.Week); err != nil {
		return model.Task{}, err
	}
	current, ok := sess.store.Find(taskID)
	if !ok {
		return model.Task{}, gorm.ErrRecordNotFound
	}
	return current, nil
}

func (sess *session) commit(ctx context.Context) error {
	dirty := sess.store.Dirty()
	if len(dirty) == 0 {
		return nil
	}
	writes := make([]repository.WeekWrite, 0, len(dirty))
	for _, key := range dirty {
		row, ok := sess.rows[key]
		if !ok {
			return fmt.Errorf("week %s modified without being loaded", key)
		}
		writes = append(writes, repository.WeekWrite{Week: *row, Tasks: sess.store.Week(key)})
	}
	return sess.svc.taskRepo.SaveWeeks(ctx, sess.user.ID, writes)
}
