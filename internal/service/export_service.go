package service

import (
	"context"
	"errors"
	"log"

	"weekly-planner/internal/export"
	"weekly-planner/internal/model"
)

// ErrNotionDisabled is returned when no Notion credentials are configured.
var ErrNotionDisabled = errors.New("notion export is not configured")

// ExportService renders weeks for spreadsheets and Notion.
type ExportService struct {
	plans  *PlanService
	notion *export.NotionClient
}

// NewExportService builds the service. notion may be nil.
func NewExportService(plans *PlanService, notion *export.NotionClient) *ExportService {
	return &ExportService{plans: plans, notion: notion}
}

func (s *ExportService) NotionEnabled() bool {
	return s.notion != nil
}

// XLSX returns the week as a workbook.
func (s *ExportService) XLSX(ctx context.Context, user *model.User, key model.WeekKey) ([]byte, error) {
	tasks, err := s.plans.Week(ctx, user, key)
	if err != nil {
		return nil, err
	}
	return export.WeekXLSX(key, tasks)
}

// Notion creates a page for the week and returns its URL.
func (s *ExportService) Notion(ctx context.Context, user *model.User, key model.WeekKey) (string, error) {
	if s.notion == nil {
		return "", ErrNotionDisabled
	}
	tasks, err := s.plans.Week(ctx, user, key)
	if err != nil {
		return "", err
	}
	url, err := s.notion.CreateWeekPage(ctx, key, tasks)
	if err != nil {
		return "", err
	}
	log.Printf("[info] user %d exported %s to notion", user.ID, key)
	return url, nil
}
