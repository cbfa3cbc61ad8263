package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"quoteflow/internal/quoteapi"
	"quoteflow/internal/registration/flow/mocks"
	"quoteflow/internal/registration/models"
	"quoteflow/internal/registration/persistence"
	"quoteflow/internal/registration/pricing"
	"quoteflow/internal/registration/state"
	"quoteflow/internal/registration/timer"
	id "quoteflow/pkg/domain"
	dErrors "quoteflow/pkg/domain-errors"
	"quoteflow/pkg/testutil"
)

var (
	testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	testProfile = models.UserProfile{Name: "Rocío", LastName: "Miranda Díaz", BirthDay: "02-04-1990"}

	testPlans = []models.Plan{
		{Name: "Plan en Casa", Price: 39, Description: []string{"Médico general a domicilio por S/20 y medicinas cubiertas al 100%."}, Age: 60},
		{Name: "Plan en Casa y Clínica", Price: 99, Description: []string{"Consultas en clínica para cualquier especialidad."}, Age: 70},
		{Name: "Plan en Casa + Chequeo", Price: 49, Description: []string{"Vacunas para mayores de 18 años."}, Age: 24},
		{Name: "Plan Bienestar", Price: 100, Description: []string{"Cobertura ambulatoria."}, Age: 40},
	}

	validForm = models.EntryForm{
		DocumentType:   models.DocumentDNI,
		DocumentNumber: "12345678",
		Phone:          "987654321",
		AcceptPrivacy:  true,
		AcceptTerms:    true,
	}
)

type SessionSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	api     *mocks.MockQuoteAPI
	kv      *persistence.MemoryKV
	adapter *persistence.Adapter
	sid     id.SessionID
	session *Session
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.api = mocks.NewMockQuoteAPI(s.ctrl)
	s.kv = persistence.NewMemoryKV()
	s.adapter = persistence.New(s.kv)
	s.sid = id.NewSessionID()
	s.session = s.newSession()
}

func (s *SessionSuite) TearDownTest() {
	s.session.Close()
}

func (s *SessionSuite) newSession(opts ...Option) *Session {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(s.sid, s.api, s.adapter, opts...)
}

func (s *SessionSuite) enter() {
	s.api.EXPECT().FetchUser(gomock.Any()).Return(testProfile, nil)
	_, err := s.session.SubmitEntry(s.ctx, validForm)
	s.Require().NoError(err)
}

func (s *SessionSuite) TestSubmitEntry() {
	s.api.EXPECT().FetchUser(gomock.Any()).Return(testProfile, nil)

	user, err := s.session.SubmitEntry(s.ctx, validForm)

	s.Require().NoError(err)
	s.Equal(35, user.Age)
	s.Equal("Rocío Miranda Díaz", user.FullName())
	s.Equal(models.DocumentDNI, user.DocumentType)

	view := s.session.View()
	s.True(view.CanProceed)
	s.False(view.IsComplete)
	s.False(view.Registration.IsLoading)
	s.Nil(view.Registration.Error)
	s.Equal(models.StepPlans, view.Step)
	s.Equal(66, view.Progress)
	s.Equal(models.InitialForm{DocumentType: models.DocumentDNI, DocumentNumber: "12345678", Phone: "987654321"}, *view.Registration.InitialForm)

	restored := state.New()
	s.True(s.adapter.Load(s.ctx, s.sid, restored), "entry must be persisted")
}

func (s *SessionSuite) TestSubmitEntry_RequiredFields() {
	form := validForm
	form.Phone = " "

	_, err := s.session.SubmitEntry(s.ctx, form)

	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(MessageRequiredFields, err.Error())
	s.Equal(MessageRequiredFields, *s.session.Snapshot().Error)
}

func (s *SessionSuite) TestSubmitEntry_ConsentRequired() {
	for _, form := range []models.EntryForm{
		{DocumentType: models.DocumentDNI, DocumentNumber: "12345678", Phone: "987654321", AcceptTerms: true},
		{DocumentType: models.DocumentDNI, DocumentNumber: "12345678", Phone: "987654321", AcceptPrivacy: true},
	} {
		_, err := s.session.SubmitEntry(s.ctx, form)

		s.True(dErrors.HasCode(err, dErrors.CodeMissingConsent))
		s.Equal(MessageConsentRequired, *s.session.Snapshot().Error)
		s.False(s.session.View().CanProceed)
	}
}

func (s *SessionSuite) TestSubmitEntry_FieldValidation() {
	form := validForm
	form.DocumentNumber = "1234"
	form.Phone = "812345678"

	_, err := s.session.SubmitEntry(s.ctx, form)

	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	fields := dErrors.FieldsOf(err)
	s.Equal("El DNI debe tener 8 dígitos", fields["documentNumber"])
	s.Equal("El teléfono debe empezar con 9 y tener 9 dígitos", fields["phone"])
	s.Equal(fields, map[string]string(s.session.FieldErrors()))
}

func (s *SessionSuite) TestSubmitEntry_UpstreamFailure() {
	s.api.EXPECT().FetchUser(gomock.Any()).Return(models.UserProfile{}, &quoteapi.Error{
		Category: quoteapi.ErrorBadStatus, Resource: quoteapi.ResourceUser, StatusCode: 500,
	})

	_, err := s.session.SubmitEntry(s.ctx, validForm)

	s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
	snap := s.session.Snapshot()
	s.False(snap.IsLoading)
	s.Require().NotNil(snap.Error)
	s.Equal("Error al obtener los datos del usuario", *snap.Error)
	s.Nil(snap.User)
}

func (s *SessionSuite) TestSubmitEntry_UpstreamTimeout() {
	s.api.EXPECT().FetchUser(gomock.Any()).Return(models.UserProfile{}, &quoteapi.Error{
		Category: quoteapi.ErrorTimeout, Resource: quoteapi.ResourceUser,
	})

	_, err := s.session.SubmitEntry(s.ctx, validForm)

	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	s.Equal(quoteapi.MessageUserFetch, *s.session.Snapshot().Error)
}

func (s *SessionSuite) TestSubmitEntry_NameRequired() {
	s.api.EXPECT().FetchUser(gomock.Any()).Return(models.UserProfile{Name: "Rocío", BirthDay: "02-04-1990"}, nil)

	_, err := s.session.SubmitEntry(s.ctx, validForm)

	s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
	s.Equal(MessageNameRequired, *s.session.Snapshot().Error)
}

func (s *SessionSuite) TestSubmitEntry_UnreadableBirthDay() {
	s.api.EXPECT().FetchUser(gomock.Any()).Return(models.UserProfile{Name: "Rocío", LastName: "Miranda", BirthDay: "ayer"}, nil)

	_, err := s.session.SubmitEntry(s.ctx, validForm)

	s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
	s.Nil(s.session.Snapshot().User)
}

func (s *SessionSuite) TestSubmitEntry_ConcurrentSubmissionsShareOneLookup() {
	release := make(chan struct{})
	s.api.EXPECT().FetchUser(gomock.Any()).DoAndReturn(func(context.Context) (models.UserProfile, error) {
		<-release
		return testProfile, nil
	}).Times(1)

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	res := testutil.RunConcurrentCtx(s.ctx, 2, func(ctx context.Context, _ int) error {
		_, err := s.session.SubmitEntry(ctx, validForm)
		return err
	})

	s.Equal(int32(2), res.Successes)
}

func (s *SessionSuite) TestSubmitEntry_InvalidFormDuringLookupIsRejected() {
	started := make(chan struct{})
	release := make(chan struct{})
	s.api.EXPECT().FetchUser(gomock.Any()).DoAndReturn(func(context.Context) (models.UserProfile, error) {
		close(started)
		<-release
		return testProfile, nil
	}).Times(1)

	validDone := make(chan error, 1)
	go func() {
		_, err := s.session.SubmitEntry(s.ctx, validForm)
		validDone <- err
	}()
	<-started

	noConsent := validForm
	noConsent.Phone = "123"
	noConsent.AcceptTerms = false
	_, err := s.session.SubmitEntry(s.ctx, noConsent)
	s.True(dErrors.HasCode(err, dErrors.CodeMissingConsent))

	badPhone := validForm
	badPhone.Phone = "123"
	_, err = s.session.SubmitEntry(s.ctx, badPhone)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(dErrors.FieldsOf(err), "phone")

	close(release)
	s.Require().NoError(<-validDone)
	s.Equal("987654321", s.session.Snapshot().User.Phone)
}

func (s *SessionSuite) TestSubmitEntry_SharedLookupSurvivesCallerCancel() {
	release := make(chan struct{})
	started := make(chan struct{})
	s.api.EXPECT().FetchUser(gomock.Any()).DoAndReturn(func(ctx context.Context) (models.UserProfile, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return models.UserProfile{}, err
		}
		return testProfile, nil
	}).Times(1)

	ctx, cancel := context.WithCancel(s.ctx)
	firstDone := make(chan error, 1)
	go func() {
		_, err := s.session.SubmitEntry(ctx, validForm)
		firstDone <- err
	}()
	<-started
	cancel()

	secondDone := make(chan error, 1)
	go func() {
		_, err := s.session.SubmitEntry(s.ctx, validForm)
		secondDone <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	s.NoError(<-firstDone)
	s.NoError(<-secondDone)
}

func (s *SessionSuite) TestPlans_RequiresUser() {
	s.Require().NoError(s.session.ChooseCoverage(models.CoverageForMe))

	_, err := s.session.Plans(s.ctx)

	s.True(dErrors.HasCode(err, dErrors.CodeStepNotReached))
	s.Equal("Complete los datos del usuario primero", *s.session.Snapshot().Error)
}

func (s *SessionSuite) TestPlans_RequiresCoverage() {
	s.enter()

	_, err := s.session.Plans(s.ctx)

	s.True(dErrors.HasCode(err, dErrors.CodeStepNotReached))
	s.Equal(MessageCoverageRequired, err.Error())
}

func (s *SessionSuite) TestPlans_FiltersAndPrices() {
	s.enter()
	s.Require().NoError(s.session.ChooseCoverage(models.CoverageForSomeoneElse))
	s.api.EXPECT().FetchPlans(gomock.Any()).Return(testPlans, nil)

	quotes, err := s.session.Plans(s.ctx)

	s.Require().NoError(err)
	s.Require().Len(quotes, 3)
	s.Equal("Plan en Casa", quotes[0].Plan.Name)
	s.InDelta(37.05, quotes[0].FinalPrice, 1e-9)
	s.True(quotes[0].Savings.HasSavings)
	s.Equal(5, quotes[0].Savings.Percentage)
	s.Require().Len(quotes[0].Highlights, 1)
	s.Equal("Médico general a domicilio", quotes[0].Highlights[0].Bold)
	s.Equal("Plan en Casa y Clínica", quotes[1].Plan.Name)
	s.Equal("Plan Bienestar", quotes[2].Plan.Name)
	s.InDelta(95.0, quotes[2].FinalPrice, 1e-9)
	s.False(s.session.Snapshot().IsLoading)
}

func (s *SessionSuite) TestPlans_ForMeHasNoSavings() {
	s.enter()
	s.Require().NoError(s.session.ChooseCoverage(models.CoverageForMe))
	s.api.EXPECT().FetchPlans(gomock.Any()).Return(testPlans, nil)

	quotes, err := s.session.Plans(s.ctx)

	s.Require().NoError(err)
	for _, q := range quotes {
		s.Equal(q.Plan.Price, q.FinalPrice)
		s.False(q.Savings.HasSavings)
	}
}

func (s *SessionSuite) TestPlans_UpstreamFailure() {
	s.enter()
	s.Require().NoError(s.session.ChooseCoverage(models.CoverageForMe))
	s.api.EXPECT().FetchPlans(gomock.Any()).Return(nil, &quoteapi.Error{
		Category: quoteapi.ErrorUnavailable, Resource: quoteapi.ResourcePlans, Underlying: errors.New("connection refused"),
	})

	_, err := s.session.Plans(s.ctx)

	s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
	snap := s.session.Snapshot()
	s.Equal("Error al obtener los planes", *snap.Error)
	s.False(snap.IsLoading)
	s.NotNil(snap.User, "a failed plan lookup keeps the user")
}

func (s *SessionSuite) TestChooseCoverage_Invalid() {
	err := s.session.ChooseCoverage(models.CoverageTarget("everyone"))

	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(models.CoverageNone, s.session.Coverage())
}

func (s *SessionSuite) TestSelectPlan_EndToEnd() {
	s.enter()
	s.Require().NoError(s.session.ChooseCoverage(models.CoverageForSomeoneElse))
	s.api.EXPECT().FetchPlans(gomock.Any()).Return(testPlans, nil)
	_, err := s.session.Plans(s.ctx)
	s.Require().NoError(err)

	selected, err := s.session.SelectPlan(s.ctx, "Plan Bienestar")

	s.Require().NoError(err)
	s.InDelta(95.0, selected.FinalPrice, 1e-9)
	s.True(selected.IsForSomeoneElse)

	view := s.session.View()
	s.True(view.IsComplete)
	s.Equal(100, view.Progress)
	s.Equal(models.StepSummary, view.Step)

	summary, err := s.session.Summary()
	s.Require().NoError(err)
	s.Equal(Summary{
		FullName:   "Rocío Miranda Díaz",
		Document:   "DNI: 12345678",
		Phone:      "987654321",
		PlanName:   "Plan Bienestar",
		FinalPrice: 95,
	}, summary)
}

func (s *SessionSuite) TestSelectPlan_RejectsIneligiblePlan() {
	s.enter()
	s.Require().NoError(s.session.ChooseCoverage(models.CoverageForMe))
	s.api.EXPECT().FetchPlans(gomock.Any()).Return(testPlans, nil)
	_, err := s.session.Plans(s.ctx)
	s.Require().NoError(err)

	_, err = s.session.SelectPlan(s.ctx, "Plan en Casa + Chequeo")

	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Nil(s.session.Snapshot().Plan)
}

func (s *SessionSuite) TestSelectPlan_BeforeListing() {
	s.enter()
	s.Require().NoError(s.session.ChooseCoverage(models.CoverageForMe))

	_, err := s.session.SelectPlan(s.ctx, "Plan en Casa")

	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *SessionSuite) TestSelectPlan_SeniorDiscount() {
	s.session = s.newSession(WithCalculator(pricing.NewCalculator(pricing.WithSeniorDiscount())))
	s.api.EXPECT().FetchUser(gomock.Any()).Return(models.UserProfile{Name: "Ana", LastName: "Torres", BirthDay: "10-01-1960"}, nil)
	_, err := s.session.SubmitEntry(s.ctx, validForm)
	s.Require().NoError(err)
	s.Require().NoError(s.session.ChooseCoverage(models.CoverageForMe))
	s.api.EXPECT().FetchPlans(gomock.Any()).Return(testPlans, nil)
	quotes, err := s.session.Plans(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(quotes, 1, "only the plan up to age 70 is offered at 65")

	selected, err := s.session.SelectPlan(s.ctx, "Plan en Casa y Clínica")

	s.Require().NoError(err)
	s.InDelta(89.1, selected.FinalPrice, 1e-9)
}

func (s *SessionSuite) TestSummary_RequiresComplete() {
	s.enter()

	_, err := s.session.Summary()

	s.True(dErrors.HasCode(err, dErrors.CodeStepNotReached))
}

func (s *SessionSuite) TestLogoutClearsEverything() {
	s.enter()
	s.Require().NoError(s.session.ChooseCoverage(models.CoverageForMe))

	s.Require().NoError(s.session.Logout(s.ctx))

	s.Equal(state.Registration{}, s.session.Snapshot())
	s.Equal(models.CoverageNone, s.session.Coverage())
	s.Equal(models.StepEntry, s.session.View().Step)
	s.False(s.adapter.Load(s.ctx, s.sid, state.New()))
}

func (s *SessionSuite) TestExpireClearsPersistedState() {
	s.enter()

	s.Require().NoError(s.session.Expire(s.ctx))

	s.Equal(0, s.session.View().Progress)
	s.False(s.adapter.Load(s.ctx, s.sid, state.New()))
}

func (s *SessionSuite) TestRestore() {
	s.enter()

	rebuilt := s.newSession()
	defer rebuilt.Close()

	s.True(rebuilt.Restore(s.ctx))
	s.Equal(s.session.Snapshot(), rebuilt.Snapshot())
	s.Equal(models.StepPlans, rebuilt.View().Step)
}

func (s *SessionSuite) TestRestore_NothingPersisted() {
	s.False(s.session.Restore(s.ctx))
	s.Equal(models.StepEntry, s.session.View().Step)
}

func (s *SessionSuite) TestTouchResetsTimer() {
	s.session = s.newSession(WithTimer(timer.New(time.Minute, timer.WithTick(5*time.Millisecond))))
	s.session.Start(s.ctx)
	s.Eventually(func() bool { return s.session.TimeLeft() <= 57 }, time.Second, time.Millisecond)
	s.session.Close()

	s.session.Touch()

	s.Equal(60, s.session.TimeLeft())
	s.Equal("1:00", s.session.View().TimeLeftText)
}

func (s *SessionSuite) TestExpiryEventsAndTouch() {
	s.session = s.newSession(WithTimer(timer.New(2*time.Second, timer.WithTick(5*time.Millisecond))))
	s.False(s.session.TimedOut())
	s.session.Start(s.ctx)

	select {
	case <-s.session.ExpiryEvents():
	case <-time.After(time.Second):
		s.FailNow("session did not expire")
	}
	s.True(s.session.TimedOut())
	s.session.Close()

	s.session.Touch()

	s.False(s.session.TimedOut())
	select {
	case <-s.session.ExpiryEvents():
		s.Fail("touch must drop the pending expiry")
	default:
	}
}

func TestSession_SaveFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockQuoteAPI(ctrl)
	persister := mocks.NewMockPersister(ctrl)

	api.EXPECT().FetchUser(gomock.Any()).Return(testProfile, nil)
	persister.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: connection pool timeout"))

	s := New(id.NewSessionID(), api, persister, WithClock(func() time.Time { return testNow }))
	defer s.Close()

	_, err := s.SubmitEntry(context.Background(), validForm)
	if err != nil {
		t.Fatalf("SubmitEntry() error = %v", err)
	}
	if !s.View().CanProceed {
		t.Fatal("state must advance when persistence fails")
	}
}

func TestSession_ExpireUsesPersister(t *testing.T) {
	ctrl := gomock.NewController(t)
	persister := mocks.NewMockPersister(ctrl)
	sid := id.NewSessionID()

	s := New(sid, mocks.NewMockQuoteAPI(ctrl), persister)
	defer s.Close()
	persister.EXPECT().Clear(gomock.Any(), sid, s.store).Return(nil)

	if err := s.Expire(context.Background()); err != nil {
		t.Fatalf("Expire() error = %v", err)
	}
}
