package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"weekly-planner/internal/coach"
	"weekly-planner/internal/model"
	"weekly-planner/internal/repository"
)

// ErrCoachDisabled is returned when no language model is configured.
var ErrCoachDisabled = errors.New("coaching is not configured")

// CoachResult is the outcome of one coaching turn.
type CoachResult struct {
	Reply coach.Reply
	// Added counts proposed tasks that were new to the week.
	Added int
}

// CoachService turns a chat message into an updated week plan.
type CoachService struct {
	weekRepo *repository.WeekRepository
	plans    *PlanService
	proposer coach.Proposer
}

// NewCoachService builds the service. proposer may be nil.
func NewCoachService(weekRepo *repository.WeekRepository, plans *PlanService, proposer coach.Proposer) *CoachService {
	return &CoachService{weekRepo: weekRepo, plans: plans, proposer: proposer}
}

func (s *CoachService) Enabled() bool {
	return s.proposer != nil
}

// Coach records any goal, status or constraint the message states, asks the
// model for advice and merges its proposed plan into the week.
func (s *CoachService) Coach(ctx context.Context, user *model.User, key model.WeekKey, message string) (CoachResult, error) {
	if s.proposer == nil {
		return CoachResult{}, ErrCoachDisabled
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return CoachResult{}, fmt.Errorf("empty coaching message")
	}

	week, err := s.weekRepo.GetOrCreate(ctx, user.ID, key)
	if err != nil {
		return CoachResult{}, err
	}
	if signals := coach.ExtractSignals(message); !signals.Empty() {
		err := s.weekRepo.UpdateContext(ctx, week, repository.CoreContext{
			Goal:          signals.Goal,
			CurrentStatus: signals.CurrentStatus,
			Constraints:   signals.Constraints,
		})
		if err != nil {
			return CoachResult{}, err
		}
	}

	reply, err := s.proposer.Propose(ctx, coach.Request{
		System:  coach.BuildSystemPrompt(*user, *week),
		Message: message,
	})
	if err != nil {
		return CoachResult{}, fmt.Errorf("propose plan: %w", err)
	}

	items := reply.WeeklyActivePlan
	if len(items) > coach.MaxPlanItems {
		items = items[:coach.MaxPlanItems]
	}
	added, err := s.plans.MergeProposals(ctx, user, key, items)
	if err != nil {
		return CoachResult{Reply: reply}, err
	}
	if reply.RiskWarning.IsHighRisk {
		log.Printf("[info] user %d: coaching reply flagged high risk", user.ID)
	}
	return CoachResult{Reply: reply, Added: added}, nil
}
