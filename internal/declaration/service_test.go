package declaration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wsmodels "wastetrack/internal/wastestream/models"
	wsstore "wastetrack/internal/wastestream/store"
	id "wastetrack/pkg/domain"
)

type stubRegistry struct {
	submission Submission
	submitErr  error
	submitted  [][]Item
	outcomes   map[string]Outcome
}

func (r *stubRegistry) Submit(_ context.Context, _ Kind, items []Item) (Submission, error) {
	if r.submitErr != nil {
		return Submission{}, r.submitErr
	}
	r.submitted = append(r.submitted, items)
	return r.submission, nil
}

func (r *stubRegistry) Retrieve(_ context.Context, sessionID string) (Outcome, error) {
	return r.outcomes[sessionID], nil
}

type declFixture struct {
	service  *Service
	activity *InMemoryActivity
	sessions *InMemorySessions
	streams  *wsstore.InMemory
	registry *stubRegistry
}

func newDeclFixture(t *testing.T) *declFixture {
	t.Helper()
	f := &declFixture{
		activity: NewInMemoryActivity(),
		sessions: NewInMemorySessions(),
		streams:  wsstore.NewInMemory(),
		registry: &stubRegistry{
			submission: Submission{SessionID: "S-2026-000042", Accepted: true},
			outcomes:   make(map[string]Outcome),
		},
	}
	f.service = NewService(f.activity, f.sessions, f.streams, f.registry)
	return f
}

func (f *declFixture) seedStream(t *testing.T, number string) wsmodels.WasteStreamNumber {
	t.Helper()
	n := wsmodels.WasteStreamNumber(number)
	err := f.streams.Create(context.Background(), &wsmodels.WasteStream{
		Number:    n,
		WasteType: wsmodels.WasteType{Name: "metalen", EuralCode: "17 04 05", ProcessingMethod: "A.01"},
		Processor: wsmodels.Processor{RegistryNumber: n.ProcessorPrefix()},
		Consignor: wsmodels.Consignor{Private: true},
		Status:    wsmodels.StatusActive,
	})
	require.NoError(t, err)
	return n
}

func (f *declFixture) recordLine(t *testing.T, number wsmodels.WasteStreamNumber, coc string, weight float64, at time.Time) {
	t.Helper()
	err := f.activity.Record(context.Background(), ActivityLine{
		ID:          id.WeightTicketID(uuid.New()),
		Number:      number,
		TransportID: id.TransportID(uuid.New()),
		Transporter: wsmodels.CompanyRef{ChamberOfCommerceID: coc, Name: "Transporteur " + coc, Country: "Nederland"},
		WeightKg:    weight,
		OccurredAt:  at,
	})
	require.NoError(t, err)
}

var (
	january  = Period{Year: 2026, Month: time.January}
	inPeriod = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
)

func TestAggregateByStream(t *testing.T) {
	f := newDeclFixture(t)
	a := f.seedStream(t, "087654000001")
	b := f.seedStream(t, "087654000002")

	f.recordLine(t, a, "11111111", 1000, inPeriod)
	f.recordLine(t, a, "22222222", 500, inPeriod.Add(24*time.Hour))
	f.recordLine(t, a, "11111111", 250, inPeriod.Add(48*time.Hour))
	f.recordLine(t, b, "11111111", 80, inPeriod)
	f.recordLine(t, b, "11111111", 99, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) // next period

	decls, err := f.service.Aggregate(context.Background(), january)

	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, a, decls[0].Number)
	assert.Equal(t, 1750.0, decls[0].TotalWeightKg)
	assert.Equal(t, 3, decls[0].TotalShipments)
	require.Len(t, decls[0].Transporters, 2, "transporters are distinct")
	assert.Equal(t, 80.0, decls[1].TotalWeightKg)
}

func TestDeclareFirstReceivals_ExcludesAlreadyDeclared(t *testing.T) {
	f := newDeclFixture(t)
	a := f.seedStream(t, "087654000001")
	b := f.seedStream(t, "087654000002")
	f.recordLine(t, a, "11111111", 100, inPeriod)
	f.recordLine(t, b, "11111111", 200, inPeriod)

	// Stream a was declared in an earlier session; it is no first receival.
	require.NoError(t, f.sessions.Save(context.Background(), &Session{
		ID: "S-2025-000001", Kind: KindFirstReceival,
		Period:  Period{Year: 2025, Month: time.December},
		Numbers: []wsmodels.WasteStreamNumber{a},
		Status:  SessionConfirmed,
	}))

	session, err := f.service.DeclareFirstReceivals(context.Background(), january)

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, KindFirstReceival, session.Kind)
	assert.Equal(t, SessionPending, session.Status)
	assert.Equal(t, []wsmodels.WasteStreamNumber{b}, session.Numbers)

	require.Len(t, f.registry.submitted, 1)
	require.Len(t, f.registry.submitted[0], 1)
	assert.Equal(t, KindFirstReceival, f.registry.submitted[0][0].Declaration.Kind)
}

func TestDeclareFirstReceivals_FailedSessionDoesNotCount(t *testing.T) {
	f := newDeclFixture(t)
	a := f.seedStream(t, "087654000001")
	f.recordLine(t, a, "11111111", 100, inPeriod)

	// A failed session leaves the whole batch unconfirmed; the stream must be
	// picked up again.
	require.NoError(t, f.sessions.Save(context.Background(), &Session{
		ID: "S-2025-000009", Kind: KindFirstReceival,
		Period:  Period{Year: 2025, Month: time.December},
		Numbers: []wsmodels.WasteStreamNumber{a},
		Status:  SessionFailed,
	}))

	session, err := f.service.DeclareFirstReceivals(context.Background(), january)

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, []wsmodels.WasteStreamNumber{a}, session.Numbers)
}

func TestDeclareMonthlyReceivals_OnlyStreamsUnderDeclaration(t *testing.T) {
	f := newDeclFixture(t)
	a := f.seedStream(t, "087654000001")
	b := f.seedStream(t, "087654000002")
	f.recordLine(t, a, "11111111", 100, inPeriod)
	f.recordLine(t, b, "11111111", 200, inPeriod)

	require.NoError(t, f.sessions.Save(context.Background(), &Session{
		ID: "S-2025-000001", Kind: KindFirstReceival,
		Period:  Period{Year: 2025, Month: time.December},
		Numbers: []wsmodels.WasteStreamNumber{a},
		Status:  SessionConfirmed,
	}))

	session, err := f.service.DeclareMonthlyReceivals(context.Background(), january)

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, []wsmodels.WasteStreamNumber{a}, session.Numbers,
		"stream b's first month belongs to the first-receival session")
}

func TestDeclareMonthlyReceivals_PeriodGuardPreventsDoubleReport(t *testing.T) {
	f := newDeclFixture(t)
	a := f.seedStream(t, "087654000001")
	f.recordLine(t, a, "11111111", 100, inPeriod)

	require.NoError(t, f.sessions.Save(context.Background(), &Session{
		ID: "S-2025-000001", Kind: KindMonthlyReceival,
		Period:  Period{Year: 2025, Month: time.December},
		Numbers: []wsmodels.WasteStreamNumber{a},
		Status:  SessionConfirmed,
	}))
	require.NoError(t, f.sessions.Save(context.Background(), &Session{
		ID: "S-2026-000001", Kind: KindMonthlyReceival,
		Period:  january,
		Numbers: []wsmodels.WasteStreamNumber{a},
		Status:  SessionPending,
	}))

	session, err := f.service.DeclareMonthlyReceivals(context.Background(), january)

	require.NoError(t, err)
	assert.Nil(t, session, "nothing left to declare")
	assert.Empty(t, f.registry.submitted)
}

func TestDeclare_RejectedSessionFailsWholeBatch(t *testing.T) {
	f := newDeclFixture(t)
	a := f.seedStream(t, "087654000001")
	b := f.seedStream(t, "087654000002")
	f.recordLine(t, a, "11111111", 100, inPeriod)
	f.recordLine(t, b, "11111111", 200, inPeriod)
	f.registry.submission = Submission{SessionID: "S-2026-000099", Accepted: false}

	session, err := f.service.DeclareFirstReceivals(context.Background(), january)

	var failed *SessionFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "S-2026-000099", failed.SessionID)

	require.NotNil(t, session)
	assert.Equal(t, SessionFailed, session.Status)
	assert.Len(t, session.Numbers, 2, "no partial success: the whole batch is unconfirmed")

	records := f.sessions.Errors()
	require.Len(t, records, 1)
	assert.Equal(t, "SESSION_REJECTED", records[0].Code)
}

func TestDeclare_RejectionWithoutSessionNumberGetsLocalID(t *testing.T) {
	f := newDeclFixture(t)
	a := f.seedStream(t, "087654000001")
	f.recordLine(t, a, "11111111", 100, inPeriod)
	f.registry.submission = Submission{Accepted: false}

	session, err := f.service.DeclareFirstReceivals(context.Background(), january)

	var failed *SessionFailedError
	require.ErrorAs(t, err, &failed)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.ID, "a failed session still needs a persistable key")
	assert.Equal(t, session.ID, failed.SessionID)

	// The batch stays unconfirmed, so the next run resubmits and gets
	// rejected again; the second failed record must not collide.
	again, err := f.service.DeclareFirstReceivals(context.Background(), january)
	require.ErrorAs(t, err, &failed)
	require.NotNil(t, again)
	assert.NotEqual(t, session.ID, again.ID)
}

func TestDeclare_SkipsActivityForUnknownStream(t *testing.T) {
	f := newDeclFixture(t)
	a := f.seedStream(t, "087654000001")
	f.recordLine(t, a, "11111111", 100, inPeriod)
	f.recordLine(t, "087654000099", "11111111", 200, inPeriod)

	session, err := f.service.DeclareFirstReceivals(context.Background(), january)

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, []wsmodels.WasteStreamNumber{a}, session.Numbers)
}

func TestDeclare_InvalidPeriod(t *testing.T) {
	f := newDeclFixture(t)

	_, err := f.service.DeclareFirstReceivals(context.Background(), Period{Year: 2026, Month: 13})

	require.Error(t, err)
}

func TestReconcile(t *testing.T) {
	f := newDeclFixture(t)
	save := func(sessionID string) {
		require.NoError(t, f.sessions.Save(context.Background(), &Session{
			ID: sessionID, Kind: KindMonthlyReceival, Period: january,
			Numbers: []wsmodels.WasteStreamNumber{"087654000001"},
			Status:  SessionPending, SubmittedAt: inPeriod,
		}))
	}
	save("S-PENDING")
	save("S-ACCEPTED")
	save("S-REJECTED")

	f.registry.outcomes["S-PENDING"] = Outcome{Resolved: false}
	f.registry.outcomes["S-ACCEPTED"] = Outcome{Resolved: true, Accepted: true}
	f.registry.outcomes["S-REJECTED"] = Outcome{
		Resolved: true,
		Errors:   []ErrorDetail{{Code: "ME104", Description: "periode reeds afgesloten"}},
	}

	require.NoError(t, f.service.Reconcile(context.Background()))

	status := func(sessionID string) SessionStatus {
		s, err := f.sessions.FindByID(context.Background(), sessionID)
		require.NoError(t, err)
		return s.Status
	}
	assert.Equal(t, SessionPending, status("S-PENDING"))
	assert.Equal(t, SessionConfirmed, status("S-ACCEPTED"))
	assert.Equal(t, SessionFailed, status("S-REJECTED"))

	records := f.sessions.Errors()
	require.Len(t, records, 1)
	assert.Equal(t, "ME104", records[0].Code)
	assert.Equal(t, "S-REJECTED", records[0].SessionID)
}

func TestPeriodMelding(t *testing.T) {
	assert.Equal(t, "012026", Period{Year: 2026, Month: time.January}.Melding())
	assert.Equal(t, "122025", Period{Year: 2025, Month: time.December}.Melding())
}

func TestPeriodPrevious(t *testing.T) {
	assert.Equal(t, Period{Year: 2025, Month: time.December},
		Period{Year: 2026, Month: time.January}.Previous())
}

func TestSessionFailedErrorMessage(t *testing.T) {
	err := &SessionFailedError{SessionID: "S-1", Kind: KindMonthlyReceival, Period: january}
	assert.True(t, errors.As(error(err), new(*SessionFailedError)))
	assert.Contains(t, err.Error(), "whole batch unconfirmed")
}
