// Package onboarding turns the first-run answers into initial budgets and an
// optional first savings goal.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goldvault/internal/core"
	"goldvault/internal/log"
	"goldvault/internal/manager"
	"goldvault/internal/persistence"
)

var ErrInvalidBudget = errors.New("initial budget must be greater than zero")

const (
	DefaultAlertThreshold = 80
	DefaultGoalIcon       = "target"
)

// Input holds the first-run answers.
type Input struct {
	InitialBudget float64
	Categories    []core.Category
	GoalTitle     string
	GoalAmount    float64
}

// Result is what Plan derives from an Input.
type Result struct {
	Budgets []core.Budget
	Goal    *core.SavingsGoal
}

// Plan splits the initial budget evenly over the selected categories as
// monthly budgets. Categories are deduplicated and kept in their canonical
// order. A goal is planned only when it has a title and a positive amount.
func Plan(in Input, now time.Time) (Result, error) {
	if in.InitialBudget <= 0 {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidBudget, in.InitialBudget)
	}

	selected := make(map[core.Category]bool, len(in.Categories))
	for _, c := range in.Categories {
		selected[c] = true
	}
	var categories []core.Category
	for _, c := range core.Categories() {
		if selected[c] {
			categories = append(categories, c)
		}
	}

	limit := in.InitialBudget / float64(max(len(categories), 1))
	res := Result{Budgets: make([]core.Budget, 0, len(categories))}
	for _, c := range categories {
		res.Budgets = append(res.Budgets, core.NewBudget(c, limit, core.Monthly, DefaultAlertThreshold))
	}

	if title := strings.TrimSpace(in.GoalTitle); title != "" && in.GoalAmount > 0 {
		g := core.NewSavingsGoal(title, in.GoalAmount, now.AddDate(1, 0, 0), DefaultGoalIcon)
		res.Goal = &g
	}
	return res, nil
}

// Service completes onboarding against the live managers.
type Service struct {
	gw      *persistence.Gateway
	budgets *manager.Budgets
	goals   *manager.SavingsGoals
	now     func() time.Time
	logger  *log.Logger
}

func NewService(gw *persistence.Gateway, budgets *manager.Budgets, goals *manager.SavingsGoals, now func() time.Time, logger *log.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{
		gw:      gw,
		budgets: budgets,
		goals:   goals,
		now:     now,
		logger:  logger.WithComponent(log.ComponentOnboarding),
	}
}

// Completed reports whether onboarding already ran.
func (s *Service) Completed(ctx context.Context) bool {
	return s.gw.OnboardingCompleted(ctx)
}

// Complete replaces the budgets with the planned ones, appends the goal if
// any, stores the initial budget and marks onboarding done. Persistence
// failures are joined; the managers keep the new state regardless.
func (s *Service) Complete(ctx context.Context, in Input) (Result, error) {
	res, err := Plan(in, s.now())
	if err != nil {
		return Result{}, err
	}

	var errs []error
	if err := s.budgets.Replace(ctx, res.Budgets); err != nil {
		errs = append(errs, err)
	}
	if res.Goal != nil {
		g, err := s.goals.Add(ctx, *res.Goal)
		if err != nil && !errors.Is(err, persistence.ErrSaveFailed) {
			return res, err
		}
		res.Goal = &g
		if err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.gw.SetInitialBudget(ctx, in.InitialBudget); err != nil {
		errs = append(errs, fmt.Errorf("store initial budget: %w", err))
	}
	if err := s.gw.SetOnboardingCompleted(ctx, true); err != nil {
		errs = append(errs, fmt.Errorf("mark onboarding completed: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.WarnContext(ctx, "Onboarding completed with persistence errors", log.FieldError, err)
		return res, err
	}
	s.logger.InfoContext(ctx, "Onboarding completed",
		log.FieldAmount, in.InitialBudget,
		log.FieldCount, len(res.Budgets))
	return res, nil
}
