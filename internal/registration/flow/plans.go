package flow

import (
	"context"

	"quoteflow/internal/platform/tracer"
	"quoteflow/internal/quoteapi"
	"quoteflow/internal/registration/catalog"
	"quoteflow/internal/registration/models"
	"quoteflow/internal/registration/pricing"
	dErrors "quoteflow/pkg/domain-errors"
)

// Quote is one eligible plan priced for the chosen coverage target.
type Quote struct {
	Plan       models.Plan
	FinalPrice float64
	Savings    pricing.Savings
	Highlights []catalog.Segments
}

// ChooseCoverage records who the plan is for. Prices of plans listed after
// this call reflect the new target.
func (s *Session) ChooseCoverage(target models.CoverageTarget) error {
	if !target.IsValid() {
		return dErrors.NewValidation("invalid coverage target", map[string]string{
			"target": "must be one of [for_me for_someone_else]",
		})
	}
	s.mu.Lock()
	s.coverage = target
	s.mu.Unlock()
	return nil
}

// Plans fetches the catalogue and returns the plans the user's age is eligible for.
// The listed plans are the only ones SelectPlan accepts afterwards.
func (s *Session) Plans(ctx context.Context) (quotes []Quote, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanFlowPlans)
	defer func() { span.End(err) }()

	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	target, err := s.requireCoverage()
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracer.Bool(tracer.AttrForSomeone, target.ForSomeoneElse()))

	s.store.SetLoading(true)
	plans, err := s.api.FetchPlans(ctx)
	if err != nil {
		msg := quoteapi.DisplayMessage(err)
		s.store.SetError(msg)
		s.logger.WarnContext(ctx, "plan lookup failed",
			"session_id", s.id.String(),
			"category", string(quoteapi.GetCategory(err)),
			"error", err,
		)
		return nil, dErrors.Wrap(err, upstreamCode(err), msg)
	}
	s.store.SetLoading(false)

	eligible := pricing.FilterByAge(plans, user.Age)
	span.SetAttributes(
		tracer.Int(tracer.AttrPlanCount, len(plans)),
		tracer.Int(tracer.AttrEligible, len(eligible)),
	)

	s.mu.Lock()
	s.offered = eligible
	s.mu.Unlock()

	quotes = make([]Quote, 0, len(eligible))
	for _, p := range eligible {
		final := s.calc.FinalPrice(p.Price, target.ForSomeoneElse(), user.Age)
		quotes = append(quotes, Quote{
			Plan:       p.Clone(),
			FinalPrice: final,
			Savings:    pricing.ComputeSavings(p.Price, final),
			Highlights: catalog.Describe(p.Name, p.Description),
		})
	}
	return quotes, nil
}

// SelectPlan prices the named plan from the last listing and records it.
func (s *Session) SelectPlan(ctx context.Context, name string) (selected models.SelectedPlan, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanFlowSelectPlan)
	defer func() { span.End(err) }()

	user, err := s.requireUser()
	if err != nil {
		return models.SelectedPlan{}, err
	}
	target, err := s.requireCoverage()
	if err != nil {
		return models.SelectedPlan{}, err
	}

	plan, ok := s.offeredPlan(name)
	if !ok {
		return models.SelectedPlan{}, dErrors.New(dErrors.CodeNotFound, MessagePlanUnavailable)
	}

	selected = s.calc.Select(plan, target.ForSomeoneElse(), user.Age)
	s.store.SetPlan(selected)
	s.save(ctx)

	s.logger.InfoContext(ctx, "plan selected",
		"session_id", s.id.String(),
		"plan", selected.Name,
		"final_price", selected.FinalPrice,
		"for_someone_else", selected.IsForSomeoneElse,
	)
	return selected, nil
}

func (s *Session) requireUser() (models.RegistrationUser, error) {
	snap := s.store.Snapshot()
	if snap.User == nil || snap.InitialForm == nil {
		s.store.SetError(MessageUserIncomplete)
		return models.RegistrationUser{}, dErrors.New(dErrors.CodeStepNotReached, MessageUserIncomplete)
	}
	return *snap.User, nil
}

func (s *Session) requireCoverage() (models.CoverageTarget, error) {
	target := s.Coverage()
	if !target.IsValid() {
		return models.CoverageNone, dErrors.New(dErrors.CodeStepNotReached, MessageCoverageRequired)
	}
	return target, nil
}

func (s *Session) offeredPlan(name string) (models.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.offered {
		if p.Name == name {
			return p.Clone(), true
		}
	}
	return models.Plan{}, false
}
