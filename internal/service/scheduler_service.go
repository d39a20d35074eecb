package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
)

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleDaily registers a daily job at the given HH:MM time string.
func (s *SchedulerService) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	minute, hour, err := parseClock(timeStr)
	if err != nil {
		return 0, err
	}
	// cron format: second minute hour dom month dow
	return s.cron.AddFunc(fmt.Sprintf("0 %d %d * * *", minute, hour), job)
}

// ScheduleWeekly registers a job once a week, e.g. "Mon 09:00".
func (s *SchedulerService) ScheduleWeekly(at string, job func()) (cron.EntryID, error) {
	spec, err := buildWeeklySpec(at)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

// ScheduleInterval registers a periodic job every given duration.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), job)
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Entries returns how many jobs are registered.
func (s *SchedulerService) Entries() int {
	return len(s.cron.Entries())
}

func buildWeeklySpec(at string) (string, error) {
	dayPart, clock, found := strings.Cut(strings.TrimSpace(at), " ")
	if !found {
		return "", fmt.Errorf("invalid weekly time %q, expected e.g. \"Mon 09:00\"", at)
	}
	day := plan.ParseDay(dayPart)
	if day == model.Unscheduled {
		return "", fmt.Errorf("invalid weekday in %q", at)
	}
	minute, hour, err := parseClock(strings.TrimSpace(clock))
	if err != nil {
		return "", err
	}
	offset, _ := plan.DayOffset(day)
	// cron counts weekdays from Sunday = 0.
	dow := (offset + 1) % 7
	return fmt.Sprintf("0 %d %d * * %d", minute, hour, dow), nil
}

func parseClock(timeStr string) (minute, hour int, err error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", timeStr)
	}
	return minute, hour, nil
}
