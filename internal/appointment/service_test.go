package appointment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinicops/internal/apperr"
	"github.com/hackgods/clinicops/internal/config"
	"github.com/hackgods/clinicops/internal/directory"
	"github.com/hackgods/clinicops/internal/directory/directorytest"
	redisclient "github.com/hackgods/clinicops/internal/redis"
)

// memRepo mirrors the Postgres repository, including the partial unique
// indexes on slot and token among active rows.
type memRepo struct {
	mu     sync.Mutex
	rows   map[uuid.UUID]Appointment
	events []EventLog
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[uuid.UUID]Appointment)}
}

func (m *memRepo) slotTakenLocked(pr uuid.UUID, date time.Time, slot string, exclude *uuid.UUID) bool {
	for _, a := range m.rows {
		if !a.Active || a.PractitionerID != pr || !a.Date.Equal(date) || a.TimeSlot != slot {
			continue
		}
		if exclude != nil && a.ID == *exclude {
			continue
		}
		return true
	}
	return false
}

func (m *memRepo) maxTokenLocked(pr uuid.UUID, date time.Time, exclude *uuid.UUID) int {
	highest := 0
	for _, a := range m.rows {
		if !a.Active || a.PractitionerID != pr || !a.Date.Equal(date) {
			continue
		}
		if exclude != nil && a.ID == *exclude {
			continue
		}
		if a.TokenNo > highest {
			highest = a.TokenNo
		}
	}
	return highest
}

func (m *memRepo) SlotTaken(_ context.Context, pr uuid.UUID, date time.Time, slot string, exclude *uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slotTakenLocked(pr, date, slot, exclude), nil
}

func (m *memRepo) MaxToken(_ context.Context, pr uuid.UUID, date time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxTokenLocked(pr, date, nil), nil
}

func (m *memRepo) Create(_ context.Context, a Appointment) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slotTakenLocked(a.PractitionerID, a.Date, a.TimeSlot, nil) {
		return nil, ErrSlotTaken
	}
	a.TokenNo = m.maxTokenLocked(a.PractitionerID, a.Date, nil) + 1
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.rows[a.ID] = a
	return &a, nil
}

func (m *memRepo) Update(_ context.Context, a Appointment, opts UpdateOptions) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[a.ID]
	if !ok || !cur.Active {
		return nil, ErrAppointmentNotFound
	}
	if m.slotTakenLocked(a.PractitionerID, a.Date, a.TimeSlot, &a.ID) {
		return nil, ErrSlotTaken
	}
	if opts.ReassignToken {
		a.TokenNo = m.maxTokenLocked(a.PractitionerID, a.Date, &a.ID) + 1
	}
	if !opts.SetStatus {
		a.Status, a.Visited = cur.Status, cur.Visited
	}
	a.UpdatedAt = time.Now()
	m.rows[a.ID] = a
	return &a, nil
}

func (m *memRepo) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok || !a.Active {
		return false, nil
	}
	a.Active = false
	m.rows[id] = a
	return true, nil
}

func (m *memRepo) Get(_ context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok || !a.Active {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (m *memRepo) GetDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	a, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AppointmentDetail{Appointment: *a, CurrentPatientName: a.PatientName, CurrentPractitionerName: a.PractitionerName}, nil
}

func (m *memRepo) List(_ context.Context, f Filter) ([]AppointmentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []AppointmentDetail{}
	for _, a := range m.rows {
		switch {
		case !a.Active:
			continue
		case f.PatientID != nil && a.PatientID != *f.PatientID:
			continue
		case f.PractitionerID != nil && a.PractitionerID != *f.PractitionerID:
			continue
		case f.From != nil && a.Date.Before(*f.From):
			continue
		case f.To != nil && a.Date.After(*f.To):
			continue
		case f.PendingOnly && a.Visited:
			continue
		}
		out = append(out, AppointmentDetail{Appointment: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TokenNo < out[j].TokenNo
	})
	return out, nil
}

func (m *memRepo) BookedSlots(_ context.Context, pr uuid.UUID, date time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, a := range m.rows {
		if a.Active && a.PractitionerID == pr && a.Date.Equal(DateOnly(date)) {
			out = append(out, a.TimeSlot)
		}
	}
	return out, nil
}

func (m *memRepo) InsertEvent(_ context.Context, ev EventLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

type busyLocker struct{}

func (busyLocker) WithLock(context.Context, string, func(context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

var (
	today    = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	tomorrow = today.AddDate(0, 0, 1)
)

type fixture struct {
	svc     *Service
	repo    *memRepo
	dir     *directorytest.Directory
	patient directory.Patient
	doc     directory.Practitioner
	other   directory.Practitioner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := directorytest.New()
	repo := newMemRepo()
	svc := NewService(repo, dir, redisclient.NewLocalLocker(), nil, zerolog.Nop(), config.Config{})
	svc.now = func() time.Time { return today.Add(9 * time.Hour) }

	return &fixture{
		svc:     svc,
		repo:    repo,
		dir:     dir,
		patient: dir.AddPatient("Asha Verma"),
		doc:     dir.AddPractitioner("Dr. Iyer", 500, 0),
		other:   dir.AddPractitioner("Dr. Shah", 0, 0),
	}
}

func (f *fixture) book(t *testing.T, doc uuid.UUID, date time.Time, slot string) *AppointmentDetail {
	t.Helper()
	a, err := f.svc.CreateAppointment(context.Background(), CreateInput{
		PatientID:      f.patient.ID,
		PractitionerID: doc,
		Date:           date,
		TimeSlot:       slot,
	})
	require.NoError(t, err)
	return a
}

func TestCreateAppointmentSnapshotsAndDefaults(t *testing.T) {
	f := newFixture(t)

	a := f.book(t, f.doc.ID, tomorrow, "9:30")

	assert.Equal(t, "09:30", a.TimeSlot)
	assert.Equal(t, 1, a.TokenNo)
	assert.Equal(t, StatusScheduled, a.Status)
	assert.False(t, a.Visited)
	assert.True(t, a.Active)
	assert.Equal(t, DefaultConsultationType, a.ConsultationType)
	assert.Equal(t, "Asha Verma", a.PatientName)
	assert.Equal(t, f.patient.MRN, a.PatientMRN)
	assert.Equal(t, "Dr. Iyer", a.PractitionerName)
	require.True(t, a.Fee.Valid)
	assert.True(t, a.Fee.Decimal.Equal(decimal.NewFromInt(500)))

	require.Len(t, f.repo.events, 1)
	assert.Equal(t, EventAppointmentCreated, f.repo.events[0].EventType)
}

func TestCreateAppointmentFeePriority(t *testing.T) {
	f := newFixture(t)
	f.dir.SetProfileFee(f.doc.ID, 800)

	a := f.book(t, f.doc.ID, tomorrow, "10:00")
	assert.True(t, a.Fee.Decimal.Equal(decimal.NewFromInt(800)))

	unset := f.book(t, f.other.ID, tomorrow, "10:00")
	assert.False(t, unset.Fee.Valid)
}

func TestTokensAreSequentialPerPractitionerAndDate(t *testing.T) {
	f := newFixture(t)

	var tokens []int
	tokens = append(tokens, f.book(t, f.doc.ID, tomorrow, "09:00").TokenNo)
	f.book(t, f.other.ID, tomorrow, "09:00")
	tokens = append(tokens, f.book(t, f.doc.ID, tomorrow, "09:15").TokenNo)
	f.book(t, f.doc.ID, tomorrow.AddDate(0, 0, 1), "09:00")
	tokens = append(tokens, f.book(t, f.doc.ID, tomorrow, "08:45").TokenNo)

	assert.Equal(t, []int{1, 2, 3}, tokens)

	next, err := f.svc.NextTokenNumber(context.Background(), f.doc.ID, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}

func TestSlotUniquenessAndReuseAfterSoftDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.book(t, f.doc.ID, tomorrow, "11:00")

	_, err := f.svc.CreateAppointment(ctx, CreateInput{PatientID: f.patient.ID, PractitionerID: f.doc.ID, Date: tomorrow, TimeSlot: "11:00"})
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	ok, err := f.svc.DeleteAppointment(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	again := f.book(t, f.doc.ID, tomorrow, "11:00")
	assert.NotEqual(t, first.ID, again.ID)
	assert.Equal(t, 1, again.TokenNo)
}

func TestCreateAppointmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateAppointment(ctx, CreateInput{PatientID: f.patient.ID, PractitionerID: f.doc.ID, Date: today.AddDate(0, 0, -1), TimeSlot: "09:00"})
	assert.ErrorIs(t, err, ErrPastDate)

	_, err = f.svc.CreateAppointment(ctx, CreateInput{PatientID: f.patient.ID, PractitionerID: f.doc.ID, Date: tomorrow, TimeSlot: "late"})
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = f.svc.CreateAppointment(ctx, CreateInput{PractitionerID: f.doc.ID, Date: tomorrow, TimeSlot: "09:00"})
	assert.ErrorIs(t, err, ErrMissingReference)

	_, err = f.svc.CreateAppointment(ctx, CreateInput{PatientID: uuid.New(), PractitionerID: f.doc.ID, Date: tomorrow, TimeSlot: "09:00"})
	assert.ErrorIs(t, err, directory.ErrPatientNotFound)

	_, err = f.svc.CreateAppointment(ctx, CreateInput{PatientID: f.patient.ID, PractitionerID: uuid.New(), Date: tomorrow, TimeSlot: "09:00"})
	assert.ErrorIs(t, err, directory.ErrPractitionerNotFound)

	// same-day bookings are allowed
	f.book(t, f.doc.ID, today, "17:00")
}

func TestSlotConflictIsReportedBeforeMissingPatient(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.doc.ID, tomorrow, "09:00")

	_, err := f.svc.CreateAppointment(context.Background(), CreateInput{PatientID: uuid.New(), PractitionerID: f.doc.ID, Date: tomorrow, TimeSlot: "09:00"})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestCreateAppointmentLockBusy(t *testing.T) {
	f := newFixture(t)
	f.svc.locker = busyLocker{}

	_, err := f.svc.CreateAppointment(context.Background(), CreateInput{PatientID: f.patient.ID, PractitionerID: f.doc.ID, Date: tomorrow, TimeSlot: "09:00"})
	assert.ErrorIs(t, err, ErrSlotBeingBooked)
	assert.Empty(t, f.repo.rows)
}

func TestConcurrentBookingsOfOneSlot(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	var booked, rejected atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateAppointment(context.Background(), CreateInput{PatientID: f.patient.ID, PractitionerID: f.doc.ID, Date: tomorrow, TimeSlot: "12:00"})
			if err == nil {
				booked.Add(1)
				return
			}
			if apperr.KindOf(err) == apperr.KindConflict {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), booked.Load())
	assert.Equal(t, int32(19), rejected.Load())
}

func TestUpdateSlotOnlyKeepsToken(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.doc.ID, tomorrow, "09:00")
	second := f.book(t, f.doc.ID, tomorrow, "09:15")

	updated, err := f.svc.UpdateAppointment(context.Background(), second.ID, UpdateInput{TimeSlot: "10:45"})
	require.NoError(t, err)
	assert.Equal(t, "10:45", updated.TimeSlot)
	assert.Equal(t, 2, updated.TokenNo)
}

func TestUpdateDateOrPractitionerRegeneratesToken(t *testing.T) {
	f := newFixture(t)
	later := tomorrow.AddDate(0, 0, 1)
	f.book(t, f.doc.ID, later, "09:00")
	f.book(t, f.doc.ID, later, "09:15")
	f.book(t, f.doc.ID, tomorrow, "09:00")
	a := f.book(t, f.doc.ID, tomorrow, "09:30")
	require.Equal(t, 2, a.TokenNo)

	moved, err := f.svc.UpdateAppointment(context.Background(), a.ID, UpdateInput{Date: later})
	require.NoError(t, err)
	assert.Equal(t, 3, moved.TokenNo)
	assert.True(t, moved.Date.Equal(later))

	switched, err := f.svc.UpdateAppointment(context.Background(), a.ID, UpdateInput{PractitionerID: f.other.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, switched.TokenNo)
	assert.Equal(t, "Dr. Shah", switched.PractitionerName)
}

func TestUpdateRejectsTakenSlotButAllowsOwn(t *testing.T) {
	f := newFixture(t)
	f.book(t, f.doc.ID, tomorrow, "09:00")
	a := f.book(t, f.doc.ID, tomorrow, "09:15")
	ctx := context.Background()

	_, err := f.svc.UpdateAppointment(ctx, a.ID, UpdateInput{TimeSlot: "09:00"})
	assert.ErrorIs(t, err, ErrSlotTaken)

	same, err := f.svc.UpdateAppointment(ctx, a.ID, UpdateInput{TimeSlot: "09:15", Status: "Cancelled"})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, same.Status)
}

func TestUpdateDerivesVisitedFromStatus(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, f.doc.ID, tomorrow, "09:00")
	ctx := context.Background()

	for _, tt := range []struct {
		status  string
		visited bool
	}{
		{"Completed", true},
		{"Scheduled", false},
		{"Visited", true},
		{"Cancelled", false},
	} {
		updated, err := f.svc.UpdateAppointment(ctx, a.ID, UpdateInput{Status: tt.status})
		require.NoError(t, err)
		assert.Equal(t, tt.visited, updated.Visited, tt.status)
	}

	_, err := f.svc.UpdateAppointment(ctx, a.ID, UpdateInput{Status: "done"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

// consultingRepo marks the appointment visited right after the service has
// read it, the way a consultation committing in between would.
type consultingRepo struct {
	*memRepo
	once sync.Once
}

func (c *consultingRepo) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := c.memRepo.Get(ctx, id)
	c.once.Do(func() {
		c.mu.Lock()
		row := c.rows[id]
		row.Visited, row.Status = true, StatusVisited
		c.rows[id] = row
		c.mu.Unlock()
	})
	return a, err
}

func TestUpdateWithoutStatusKeepsConcurrentVisit(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, f.doc.ID, tomorrow, "09:00")
	ctx := context.Background()

	repo := &consultingRepo{memRepo: f.repo}
	svc := NewService(repo, f.dir, redisclient.NewLocalLocker(), nil, zerolog.Nop(), config.Config{})

	reason := "bring old reports"
	updated, err := svc.UpdateAppointment(ctx, a.ID, UpdateInput{Reason: &reason})
	require.NoError(t, err)
	assert.True(t, updated.Visited)
	assert.Equal(t, StatusVisited, updated.Status)
	assert.Equal(t, &reason, updated.Reason)

	// an explicit status still wins
	updated, err = svc.UpdateAppointment(ctx, a.ID, UpdateInput{Status: "Scheduled"})
	require.NoError(t, err)
	assert.False(t, updated.Visited)
	assert.Equal(t, StatusScheduled, updated.Status)
}

type flakyDetailRepo struct {
	*memRepo
}

func (flakyDetailRepo) GetDetail(context.Context, uuid.UUID) (*AppointmentDetail, error) {
	return nil, errors.New("replica lag")
}

func TestWritesSurviveFailedReload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewService(flakyDetailRepo{f.repo}, f.dir, redisclient.NewLocalLocker(), nil, zerolog.Nop(), config.Config{})
	svc.now = f.svc.now

	a, err := svc.CreateAppointment(ctx, CreateInput{
		PatientID:      f.patient.ID,
		PractitionerID: f.doc.ID,
		Date:           tomorrow,
		TimeSlot:       "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, a.TokenNo)
	assert.Equal(t, "Asha Verma", a.CurrentPatientName)
	assert.Equal(t, "Dr. Iyer", a.CurrentPractitionerName)

	stored, err := f.repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "09:00", stored.TimeSlot)

	updated, err := svc.UpdateAppointment(ctx, a.ID, UpdateInput{TimeSlot: "09:15"})
	require.NoError(t, err)
	assert.Equal(t, "09:15", updated.TimeSlot)
}

func TestUpdateResnapshotsPatient(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, f.doc.ID, tomorrow, "09:00")
	other := f.dir.AddPatient("Ravi Kumar")

	updated, err := f.svc.UpdateAppointment(context.Background(), a.ID, UpdateInput{PatientID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", updated.PatientName)
	assert.Equal(t, other.MRN, updated.PatientMRN)
	assert.Equal(t, 1, updated.TokenNo)
}

func TestUpdateMissingOrDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateAppointment(ctx, uuid.New(), UpdateInput{Status: "Visited"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	a := f.book(t, f.doc.ID, tomorrow, "09:00")
	_, err = f.svc.DeleteAppointment(ctx, a.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateAppointment(ctx, a.ID, UpdateInput{Status: "Visited"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestDeleteAppointmentIsIdempotentFalse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, f.doc.ID, tomorrow, "09:00")

	ok, err := f.svc.DeleteAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.DeleteAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.DeleteAppointment(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.GetAppointment(ctx, a.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListingsAreActiveAndOrdered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	later := tomorrow.AddDate(0, 0, 2)

	f.book(t, f.doc.ID, later, "08:00")
	f.book(t, f.doc.ID, tomorrow, "11:00")
	f.book(t, f.doc.ID, tomorrow, "09:00")
	gone := f.book(t, f.doc.ID, tomorrow, "10:00")
	_, err := f.svc.DeleteAppointment(ctx, gone.ID)
	require.NoError(t, err)

	all, err := f.svc.ListByPractitionerRange(ctx, f.doc.ID, tomorrow, later)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 1}, []int{all[0].TokenNo, all[1].TokenNo, all[2].TokenNo})
	assert.True(t, all[2].Date.Equal(later))

	day, err := f.svc.ListByPractitionerDate(ctx, f.doc.ID, tomorrow)
	require.NoError(t, err)
	assert.Len(t, day, 2)

	byDate, err := f.svc.ListByDate(ctx, later)
	require.NoError(t, err)
	assert.Len(t, byDate, 1)

	byPatient, err := f.svc.ListByPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, byPatient, 3)

	f.book(t, f.other.ID, tomorrow, "09:00")
	everything, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, everything, 4)
	assert.True(t, everything[0].Date.Equal(tomorrow))
	assert.True(t, everything[3].Date.Equal(later))

	_, err = f.svc.ListByPractitionerRange(ctx, f.doc.ID, later, tomorrow)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestListPendingExcludesVisited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seen := f.book(t, f.doc.ID, tomorrow, "09:00")
	f.book(t, f.doc.ID, tomorrow, "09:15")
	_, err := f.svc.UpdateAppointment(ctx, seen.ID, UpdateInput{Status: "Visited"})
	require.NoError(t, err)

	pending, err := f.svc.ListPending(ctx, f.doc.ID, tomorrow)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "09:15", pending[0].TimeSlot)
}

func TestIsSlotAvailableExcludesSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, f.doc.ID, tomorrow, "09:00")

	free, err := f.svc.IsSlotAvailable(ctx, f.doc.ID, tomorrow, "09:00", nil)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = f.svc.IsSlotAvailable(ctx, f.doc.ID, tomorrow, "09:00", &a.ID)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestLogEventFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.svc.repo = &failingEvents{memRepo: f.repo}

	a := f.book(t, f.doc.ID, tomorrow, "09:00")
	assert.Equal(t, 1, a.TokenNo)
}

type failingEvents struct {
	*memRepo
}

func (failingEvents) InsertEvent(context.Context, EventLog) error {
	return errors.New("event_logs unavailable")
}
