package schedule

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinicops/internal/apperr"
	"github.com/hackgods/clinicops/internal/directory/directorytest"
)

type memRepo struct {
	mu        sync.Mutex
	schedules map[uuid.UUID]Schedule
	failDay   error
}

func newMemRepo() *memRepo {
	return &memRepo{schedules: make(map[uuid.UUID]Schedule)}
}

func (m *memRepo) Insert(_ context.Context, s Schedule) (*Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.schedules[s.ID] = s
	return &s, nil
}

func (m *memRepo) Get(_ context.Context, id uuid.UUID) (*Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	return &s, nil
}

func (m *memRepo) Update(_ context.Context, s Schedule) (*Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[s.ID]; !ok {
		return nil, ErrScheduleNotFound
	}
	m.schedules[s.ID] = s
	return &s, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[id]; !ok {
		return ErrScheduleNotFound
	}
	delete(m.schedules, id)
	return nil
}

func (m *memRepo) ListByPractitioner(_ context.Context, practitionerID uuid.UUID) ([]Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Schedule
	for _, s := range m.schedules {
		if s.PractitionerID == practitionerID && s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *memRepo) ActiveForDay(ctx context.Context, practitionerID uuid.UUID, day Weekday) ([]Schedule, error) {
	if m.failDay != nil {
		return nil, m.failDay
	}
	all, _ := m.ListByPractitioner(ctx, practitionerID)
	var out []Schedule
	for _, s := range all {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeBooked struct {
	slots []string
	err   error
}

func (f fakeBooked) BookedSlots(context.Context, uuid.UUID, time.Time) ([]string, error) {
	return f.slots, f.err
}

// 2026-11-02 is a Monday.
var monday = time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

func newTestService(booked fakeBooked) (*Service, *memRepo, uuid.UUID) {
	dir := directorytest.New()
	doc := dir.AddPractitioner("Dr. Rao", 500, 0)
	repo := newMemRepo()
	return NewService(repo, booked, dir, zerolog.Nop()), repo, doc.ID
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(monday))
	assert.Equal(t, Sunday, WeekdayOf(monday.AddDate(0, 0, 6)))
}

func TestCreateScheduleValidation(t *testing.T) {
	svc, _, docID := newTestService(fakeBooked{})
	ctx := context.Background()

	_, err := svc.CreateSchedule(ctx, Input{PractitionerID: docID, Day: "Funday", StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = svc.CreateSchedule(ctx, Input{PractitionerID: docID, Day: "Monday", StartTime: "10:00", EndTime: "09:00"})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.CreateSchedule(ctx, Input{PractitionerID: uuid.New(), Day: "Monday", StartTime: "09:00", EndTime: "10:00"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateScheduleRejectsOverlap(t *testing.T) {
	svc, _, docID := newTestService(fakeBooked{})
	ctx := context.Background()

	first, err := svc.CreateSchedule(ctx, Input{PractitionerID: docID, Day: "Monday", StartTime: "09:00", EndTime: "12:00"})
	require.NoError(t, err)
	assert.Equal(t, "09:00", first.StartTime)

	_, err = svc.CreateSchedule(ctx, Input{PractitionerID: docID, Day: "Monday", StartTime: "11:30", EndTime: "13:00"})
	assert.ErrorIs(t, err, ErrWindowOverlap)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// touching windows are fine, the range is half-open
	_, err = svc.CreateSchedule(ctx, Input{PractitionerID: docID, Day: "Monday", StartTime: "12:00", EndTime: "13:00"})
	assert.NoError(t, err)

	_, err = svc.CreateSchedule(ctx, Input{PractitionerID: docID, Day: "Tuesday", StartTime: "09:00", EndTime: "12:00"})
	assert.NoError(t, err)
}

func TestUpdateScheduleIgnoresItself(t *testing.T) {
	svc, _, docID := newTestService(fakeBooked{})
	ctx := context.Background()

	s, err := svc.CreateSchedule(ctx, Input{PractitionerID: docID, Day: "Monday", StartTime: "09:00", EndTime: "12:00"})
	require.NoError(t, err)

	updated, err := svc.UpdateSchedule(ctx, s.ID, Input{PractitionerID: docID, Day: "Monday", StartTime: "09:30", EndTime: "12:30"})
	require.NoError(t, err)
	assert.Equal(t, "09:30", updated.StartTime)

	_, err = svc.UpdateSchedule(ctx, uuid.New(), Input{PractitionerID: docID, Day: "Monday", StartTime: "09:30", EndTime: "12:30"})
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestDeleteSchedule(t *testing.T) {
	svc, repo, docID := newTestService(fakeBooked{})
	ctx := context.Background()

	s, err := svc.CreateSchedule(ctx, Input{PractitionerID: docID, Day: "Friday", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSchedule(ctx, s.ID))
	assert.Empty(t, repo.schedules)
	assert.ErrorIs(t, svc.DeleteSchedule(ctx, s.ID), ErrScheduleNotFound)
}

func TestAvailableSlots(t *testing.T) {
	svc, _, docID := newTestService(fakeBooked{slots: []string{"09:15"}})
	ctx := context.Background()

	_, err := svc.CreateSchedule(ctx, Input{PractitionerID: docID, Day: "Monday", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30", "09:45"}, svc.AvailableSlots(ctx, docID, monday))
	assert.Empty(t, svc.AvailableSlots(ctx, docID, monday.AddDate(0, 0, 1)))
}

func TestAvailableSlotsDegradesToEmpty(t *testing.T) {
	svc, repo, docID := newTestService(fakeBooked{err: errors.New("db down")})
	ctx := context.Background()

	_, err := svc.CreateSchedule(ctx, Input{PractitionerID: docID, Day: "Monday", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	got := svc.AvailableSlots(ctx, docID, monday)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	repo.failDay = errors.New("db down")
	assert.Empty(t, svc.AvailableSlots(ctx, docID, monday))
}
