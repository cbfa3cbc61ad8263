package flow

import (
	"context"
	"strings"

	"quoteflow/internal/platform/tracer"
	"quoteflow/internal/quoteapi"
	"quoteflow/internal/registration/models"
	id "quoteflow/pkg/domain"
	dErrors "quoteflow/pkg/domain-errors"
	"quoteflow/pkg/platform/privacy"
)

// SubmitEntry validates the entry form, fetches the user profile and records
// user and form together. Every submission is validated on its own; concurrent
// submissions on one session share a single upstream lookup.
func (s *Session) SubmitEntry(ctx context.Context, form models.EntryForm) (user models.RegistrationUser, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanFlowSubmitEntry,
		tracer.String(tracer.AttrDocumentType, form.DocumentType.String()),
	)
	defer func() { span.End(err) }()

	if strings.TrimSpace(form.DocumentNumber) == "" || strings.TrimSpace(form.Phone) == "" {
		s.store.SetError(MessageRequiredFields)
		return models.RegistrationUser{}, dErrors.New(dErrors.CodeValidation, MessageRequiredFields)
	}
	if !form.AcceptPrivacy || !form.AcceptTerms {
		s.store.SetError(MessageConsentRequired)
		return models.RegistrationUser{}, dErrors.New(dErrors.CodeMissingConsent, MessageConsentRequired)
	}

	initial := form.Snapshot()
	if !s.validator.ValidateLoginForm(initial) {
		return models.RegistrationUser{}, dErrors.NewValidation(MessageInvalidFields, s.validator.Errors())
	}

	s.store.SetLoading(true)
	profile, err := s.fetchUser(ctx)
	if err != nil {
		msg := quoteapi.DisplayMessage(err)
		s.store.SetError(msg)
		s.logger.WarnContext(ctx, "user lookup failed",
			"session_id", s.id.String(),
			"category", string(quoteapi.GetCategory(err)),
			"error", err,
		)
		return models.RegistrationUser{}, dErrors.Wrap(err, upstreamCode(err), msg)
	}

	if strings.TrimSpace(profile.Name) == "" || strings.TrimSpace(profile.LastName) == "" {
		s.store.SetError(MessageNameRequired)
		return models.RegistrationUser{}, dErrors.New(dErrors.CodeUpstream, MessageNameRequired)
	}

	birth, err := id.ParseBirthDay(profile.BirthDay)
	if err != nil {
		s.store.SetError(quoteapi.MessageUserFetch)
		s.logger.WarnContext(ctx, "user profile has an unreadable birth day",
			"session_id", s.id.String(),
			"error", err,
		)
		return models.RegistrationUser{}, dErrors.Wrap(err, dErrors.CodeUpstream, quoteapi.MessageUserFetch)
	}

	user = models.RegistrationUser{
		UserProfile:    profile,
		DocumentType:   form.DocumentType,
		DocumentNumber: form.DocumentNumber,
		Phone:          form.Phone,
		Age:            id.AgeAt(birth, s.now()),
	}
	s.store.SetUserAndForm(user, initial)
	s.store.SetLoading(false)
	s.validator.ClearErrors()
	s.save(ctx)

	s.logger.InfoContext(ctx, "entry form accepted",
		"session_id", s.id.String(),
		"document_type", form.DocumentType.String(),
		"document_number", privacy.MaskIdentifier(initial.DocumentNumber, 3),
		"age", user.Age,
	)
	return user, nil
}

// fetchUser collapses concurrent lookups into one call. The shared call is
// detached from any single caller's cancellation; the client timeout bounds it.
func (s *Session) fetchUser(ctx context.Context) (models.UserProfile, error) {
	v, err, _ := s.lookups.Do("user", func() (any, error) {
		return s.api.FetchUser(context.WithoutCancel(ctx))
	})
	if err != nil {
		return models.UserProfile{}, err
	}
	return v.(models.UserProfile), nil
}

// upstreamCode maps a quote API failure to the domain code of the HTTP surface.
func upstreamCode(err error) dErrors.Code {
	if quoteapi.GetCategory(err) == quoteapi.ErrorTimeout {
		return dErrors.CodeTimeout
	}
	return dErrors.CodeUpstream
}
