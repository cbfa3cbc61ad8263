package handler

import (
	"quoteflow/internal/registration/catalog"
	"quoteflow/internal/registration/flow"
	"quoteflow/internal/registration/models"
	"quoteflow/internal/registration/pricing"
)

// SessionCreatedResponse is returned by POST /v1/sessions.
type SessionCreatedResponse struct {
	SessionID    string      `json:"session_id"`
	Token        string      `json:"token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	Step         models.Step `json:"step"`
	TimeLeft     int         `json:"time_left"`
	TimeLeftText string      `json:"time_left_text"`
}

type UserResponse struct {
	Name           string `json:"name"`
	LastName       string `json:"last_name"`
	BirthDay       string `json:"birth_day"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	Phone          string `json:"phone"`
	Age            int    `json:"age"`
}

type InitialFormResponse struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	Phone          string `json:"phone"`
}

type SelectedPlanResponse struct {
	Name             string   `json:"name"`
	Price            float64  `json:"price"`
	Description      []string `json:"description"`
	Age              int      `json:"age"`
	FinalPrice       float64  `json:"final_price"`
	IsForSomeoneElse bool     `json:"is_for_someone_else"`
}

// StateResponse is the wizard state returned by GET /v1/session and by every mutation.
type StateResponse struct {
	SessionID    string                `json:"session_id"`
	Step         models.Step           `json:"step"`
	Progress     int                   `json:"progress"`
	CanProceed   bool                  `json:"can_proceed"`
	IsComplete   bool                  `json:"is_complete"`
	IsLoading    bool                  `json:"is_loading"`
	Error        *string               `json:"error"`
	Coverage     string                `json:"coverage,omitempty"`
	User         *UserResponse         `json:"user"`
	Plan         *SelectedPlanResponse `json:"plan"`
	InitialForm  *InitialFormResponse  `json:"initial_form"`
	TimeLeft     int                   `json:"time_left"`
	TimeLeftText string                `json:"time_left_text"`
}

type QuoteResponse struct {
	Name        string             `json:"name"`
	Price       float64            `json:"price"`
	FinalPrice  float64            `json:"final_price"`
	Age         int                `json:"age"`
	Description []catalog.Segments `json:"description"`
	Savings     pricing.Savings    `json:"savings"`
}

// PlansResponse is returned by GET /v1/session/plans.
type PlansResponse struct {
	Coverage string          `json:"coverage"`
	Plans    []QuoteResponse `json:"plans"`
}

// SummaryResponse is returned by GET /v1/session/summary.
type SummaryResponse struct {
	FullName   string  `json:"full_name"`
	Document   string  `json:"document"`
	Phone      string  `json:"phone"`
	PlanName   string  `json:"plan_name"`
	FinalPrice float64 `json:"final_price"`
}

func toStateResponse(sessionID string, v flow.View) StateResponse {
	resp := StateResponse{
		SessionID:    sessionID,
		Step:         v.Step,
		Progress:     v.Progress,
		CanProceed:   v.CanProceed,
		IsComplete:   v.IsComplete,
		IsLoading:    v.Registration.IsLoading,
		Error:        v.Registration.Error,
		Coverage:     string(v.Coverage),
		TimeLeft:     v.TimeLeft,
		TimeLeftText: v.TimeLeftText,
	}
	if u := v.Registration.User; u != nil {
		resp.User = &UserResponse{
			Name:           u.Name,
			LastName:       u.LastName,
			BirthDay:       u.BirthDay,
			DocumentType:   u.DocumentType.String(),
			DocumentNumber: u.DocumentNumber,
			Phone:          u.Phone,
			Age:            u.Age,
		}
	}
	if p := v.Registration.Plan; p != nil {
		resp.Plan = toSelectedPlanResponse(*p)
	}
	if f := v.Registration.InitialForm; f != nil {
		resp.InitialForm = &InitialFormResponse{
			DocumentType:   f.DocumentType.String(),
			DocumentNumber: f.DocumentNumber,
			Phone:          f.Phone,
		}
	}
	return resp
}

func toSelectedPlanResponse(p models.SelectedPlan) *SelectedPlanResponse {
	desc := p.Description
	if desc == nil {
		desc = []string{}
	}
	return &SelectedPlanResponse{
		Name:             p.Name,
		Price:            p.Price,
		Description:      desc,
		Age:              p.Age,
		FinalPrice:       p.FinalPrice,
		IsForSomeoneElse: p.IsForSomeoneElse,
	}
}

func toPlansResponse(target models.CoverageTarget, quotes []flow.Quote) PlansResponse {
	out := PlansResponse{
		Coverage: string(target),
		Plans:    make([]QuoteResponse, 0, len(quotes)),
	}
	for _, q := range quotes {
		out.Plans = append(out.Plans, QuoteResponse{
			Name:        q.Plan.Name,
			Price:       q.Plan.Price,
			FinalPrice:  q.FinalPrice,
			Age:         q.Plan.Age,
			Description: q.Highlights,
			Savings:     q.Savings,
		})
	}
	return out
}

func toSummaryResponse(sum flow.Summary) SummaryResponse {
	return SummaryResponse{
		FullName:   sum.FullName,
		Document:   sum.Document,
		Phone:      sum.Phone,
		PlanName:   sum.PlanName,
		FinalPrice: sum.FinalPrice,
	}
}
