package persistence

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"quoteflow/internal/registration/models"
	"quoteflow/internal/registration/state"
	id "quoteflow/pkg/domain"
)

type AdapterSuite struct {
	suite.Suite
	ctx     context.Context
	kv      *MemoryKV
	logs    *bytes.Buffer
	adapter *Adapter
	sid     id.SessionID
	user    models.RegistrationUser
	form    models.InitialForm
	plan    models.SelectedPlan
}

func TestAdapterSuite(t *testing.T) {
	suite.Run(t, new(AdapterSuite))
}

func (s *AdapterSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = NewMemoryKV()
	s.logs = &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(s.logs, nil))
	s.adapter = New(s.kv, WithLogger(logger))
	s.sid = id.NewSessionID()
	s.user = models.RegistrationUser{
		UserProfile:    models.UserProfile{Name: "Rocío", LastName: "Miranda Díaz", BirthDay: "02-04-1990"},
		DocumentType:   models.DocumentDNI,
		DocumentNumber: "12345678",
		Phone:          "987654321",
		Age:            35,
	}
	s.form = models.InitialForm{DocumentType: models.DocumentDNI, DocumentNumber: "12345678", Phone: "987654321"}
	s.plan = models.SelectedPlan{
		Plan:             models.Plan{Name: "Plan en Casa", Price: 39, Description: []string{"Videoconsulta"}, Age: 60},
		FinalPrice:       37.05,
		IsForSomeoneElse: true,
	}
}

func (s *AdapterSuite) TestRoundTrip() {
	src := state.New()
	src.SetUserAndForm(s.user, s.form)
	src.SetPlan(s.plan)
	src.SetLoading(true)
	s.Require().NoError(s.adapter.Save(s.ctx, s.sid, src.Snapshot()))

	dst := state.New()
	s.True(s.adapter.Load(s.ctx, s.sid, dst))

	want := src.Snapshot()
	want.IsLoading = false
	if diff := cmp.Diff(want, dst.Snapshot()); diff != "" {
		s.Failf("restored registration mismatch", "(-want +got):\n%s", diff)
	}
}

func (s *AdapterSuite) TestRecordShape() {
	src := state.New()
	src.SetUserAndForm(s.user, s.form)
	s.Require().NoError(s.adapter.Save(s.ctx, s.sid, src.Snapshot()))

	raw, err := s.kv.Get(s.ctx, KeyPrefix+s.sid.String())
	s.Require().NoError(err)
	s.JSONEq(`{
		"userData": {
			"name": "Rocío", "lastName": "Miranda Díaz", "birthDay": "02-04-1990",
			"documentType": "DNI", "documentNumber": "12345678", "phone": "987654321", "age": 35
		},
		"planData": null,
		"initialFormData": {"documentType": "DNI", "documentNumber": "12345678", "phone": "987654321"}
	}`, string(raw))
}

func (s *AdapterSuite) TestLoadMissingRecord() {
	dst := state.New()

	s.False(s.adapter.Load(s.ctx, s.sid, dst))
	s.Nil(dst.Snapshot().User)
	s.Empty(s.logs.String())
}

func (s *AdapterSuite) TestLoadMalformedRecord() {
	s.Require().NoError(s.kv.Set(s.ctx, Key(s.sid), []byte("{not json"), 0))
	dst := state.New()

	s.False(s.adapter.Load(s.ctx, s.sid, dst))
	s.Equal(state.Registration{}, dst.Snapshot())
	s.Contains(s.logs.String(), "discarding malformed persisted registration")
}

func (s *AdapterSuite) TestLoadUserWithoutFormIsIgnored() {
	s.Require().NoError(s.kv.Set(s.ctx, Key(s.sid), []byte(`{"userData":{"name":"Rocío"},"planData":null,"initialFormData":null}`), 0))
	dst := state.New()

	s.False(s.adapter.Load(s.ctx, s.sid, dst))
	s.Nil(dst.Snapshot().User)
}

func (s *AdapterSuite) TestLoadPlanWithoutUser() {
	s.Require().NoError(s.kv.Set(s.ctx, Key(s.sid), []byte(`{"userData":null,"planData":{"name":"Plan en Casa","price":39,"description":[],"age":60,"finalPrice":39,"isForSomeoneElse":false},"initialFormData":null}`), 0))
	dst := state.New()

	s.True(s.adapter.Load(s.ctx, s.sid, dst))
	snap := dst.Snapshot()
	s.Nil(snap.User)
	s.Require().NotNil(snap.Plan)
	s.Equal("Plan en Casa", snap.Plan.Name)
	s.False(dst.IsComplete())
}

func (s *AdapterSuite) TestClear() {
	src := state.New()
	src.SetUserAndForm(s.user, s.form)
	s.Require().NoError(s.adapter.Save(s.ctx, s.sid, src.Snapshot()))

	s.Require().NoError(s.adapter.Clear(s.ctx, s.sid, src))

	s.Equal(state.Registration{}, src.Snapshot())
	_, err := s.kv.Get(s.ctx, Key(s.sid))
	s.ErrorIs(err, ErrMiss)
	s.False(s.adapter.Load(s.ctx, s.sid, state.New()))
}

func (s *AdapterSuite) TestSessionsAreIsolated() {
	src := state.New()
	src.SetUserAndForm(s.user, s.form)
	s.Require().NoError(s.adapter.Save(s.ctx, s.sid, src.Snapshot()))

	s.False(s.adapter.Load(s.ctx, id.NewSessionID(), state.New()))
}

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) ([]byte, error)              { return nil, f.err }
func (f failingKV) Set(context.Context, string, []byte, time.Duration) error { return f.err }
func (f failingKV) Delete(context.Context, string) error                     { return f.err }

func TestAdapter_LoadSwallowsReadErrors(t *testing.T) {
	logs := &bytes.Buffer{}
	adapter := New(failingKV{err: errors.New("connection refused")}, WithLogger(slog.New(slog.NewJSONHandler(logs, nil))))

	ok := adapter.Load(context.Background(), id.NewSessionID(), state.New())

	assert.False(t, ok)
	assert.Contains(t, logs.String(), "failed to read persisted registration")
	assert.Contains(t, logs.String(), "connection refused")
}

func TestAdapter_SavePropagatesWriteErrors(t *testing.T) {
	adapter := New(failingKV{err: errors.New("read only replica")})

	err := adapter.Save(context.Background(), id.NewSessionID(), state.Registration{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read only replica")
}

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns a copy", func(t *testing.T) {
		kv := NewMemoryKV()
		require.NoError(t, kv.Set(ctx, "k", []byte("value"), 0))

		got, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		got[0] = 'X'

		again, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "value", string(again))
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewMemoryKV().Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		kv := NewMemoryKV()
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		kv.now = func() time.Time { return now }
		require.NoError(t, kv.Set(ctx, "k", []byte("v"), time.Minute))

		_, err := kv.Get(ctx, "k")
		require.NoError(t, err)

		now = now.Add(time.Minute)
		_, err = kv.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("delete", func(t *testing.T) {
		kv := NewMemoryKV()
		require.NoError(t, kv.Set(ctx, "k", []byte("v"), 0))
		require.NoError(t, kv.Delete(ctx, "k"))

		_, err := kv.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrMiss)
		assert.NoError(t, kv.Delete(ctx, "k"))
	})
}
