package flow

import (
	"fmt"

	"quoteflow/internal/registration/models"
	"quoteflow/internal/registration/state"
	dErrors "quoteflow/pkg/domain-errors"
)

// Summary is the final review of a completed quote.
type Summary struct {
	FullName   string
	Document   string
	Phone      string
	PlanName   string
	FinalPrice float64
}

// Summary returns the review of a complete registration.
func (s *Session) Summary() (Summary, error) {
	snap := s.store.Snapshot()
	if snap.User == nil || snap.Plan == nil || snap.InitialForm == nil {
		return Summary{}, dErrors.New(dErrors.CodeStepNotReached, MessageNotComplete)
	}
	return Summary{
		FullName:   snap.User.FullName(),
		Document:   fmt.Sprintf("%s: %s", snap.InitialForm.DocumentType, snap.InitialForm.DocumentNumber),
		Phone:      snap.InitialForm.Phone,
		PlanName:   snap.Plan.Name,
		FinalPrice: snap.Plan.FinalPrice,
	}, nil
}

// View is everything a client needs to render the current wizard step.
type View struct {
	Registration state.Registration
	Step         models.Step
	Progress     int
	CanProceed   bool
	IsComplete   bool
	Coverage     models.CoverageTarget
	TimeLeft     int
	TimeLeftText string
	Expired      bool
}

// View returns the current state of the session.
func (s *Session) View() View {
	snap := s.store.Snapshot()
	left := s.timer.TimeLeft()
	return View{
		Registration: snap,
		Step:         snap.Step(),
		Progress:     snap.Progress(),
		CanProceed:   snap.User != nil && snap.InitialForm != nil,
		IsComplete:   snap.User != nil && snap.Plan != nil,
		Coverage:     s.Coverage(),
		TimeLeft:     left,
		TimeLeftText: s.timer.Format(),
		Expired:      s.timer.Expired(),
	}
}
