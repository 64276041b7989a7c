package consultation

import (
	"context"
	"errors"
	"maps"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinicops/internal/apperr"
	"github.com/hackgods/clinicops/internal/appointment"
	"github.com/hackgods/clinicops/internal/directory"
	"github.com/hackgods/clinicops/internal/directory/directorytest"
	"github.com/hackgods/clinicops/internal/document"
)

var errBoom = errors.New("boom")

type visitState struct {
	visited bool
	status  appointment.Status
}

type memState struct {
	consultations map[uuid.UUID]Consultation
	prescriptions map[uuid.UUID]Prescription
	items         map[uuid.UUID][]PrescriptionItem
	labTests      map[uuid.UUID]LabTest
	appointments  map[uuid.UUID]visitState
}

func (s *memState) clone() *memState {
	items := make(map[uuid.UUID][]PrescriptionItem, len(s.items))
	for k, v := range s.items {
		items[k] = append([]PrescriptionItem(nil), v...)
	}
	return &memState{
		consultations: maps.Clone(s.consultations),
		prescriptions: maps.Clone(s.prescriptions),
		items:         items,
		labTests:      maps.Clone(s.labTests),
		appointments:  maps.Clone(s.appointments),
	}
}

// memStore behaves like the Postgres store, including rollback in InTx.
// failOn names one method that returns errBoom.
type memStore struct {
	st        *memState
	dir       *directorytest.Directory
	medicines map[uuid.UUID]string
	failOn    string
}

func newMemStore(dir *directorytest.Directory) *memStore {
	return &memStore{
		st: &memState{
			consultations: map[uuid.UUID]Consultation{},
			prescriptions: map[uuid.UUID]Prescription{},
			items:         map[uuid.UUID][]PrescriptionItem{},
			labTests:      map[uuid.UUID]LabTest{},
			appointments:  map[uuid.UUID]visitState{},
		},
		dir:       dir,
		medicines: map[uuid.UUID]string{},
	}
}

func (m *memStore) fail(op string) error {
	if m.failOn == op {
		return errBoom
	}
	return nil
}

func (m *memStore) InTx(_ context.Context, fn func(tx Store) error) error {
	snapshot := m.st.clone()
	if err := fn(m); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

func (m *memStore) InsertConsultation(_ context.Context, c *Consultation) error {
	if err := m.fail("InsertConsultation"); err != nil {
		return err
	}
	for _, existing := range m.st.consultations {
		if existing.AppointmentID == c.AppointmentID {
			return ErrConsultationExists
		}
	}
	c.CreatedAt, c.UpdatedAt = c.BookedAt, c.BookedAt
	m.st.consultations[c.ID] = *c
	return nil
}

func (m *memStore) GetConsultation(_ context.Context, id uuid.UUID) (*Consultation, error) {
	c, ok := m.st.consultations[id]
	if !ok {
		return nil, ErrConsultationNotFound
	}
	return &c, nil
}

func (m *memStore) UpdateConsultation(_ context.Context, c *Consultation) error {
	if _, ok := m.st.consultations[c.ID]; !ok {
		return ErrConsultationNotFound
	}
	m.st.consultations[c.ID] = *c
	return nil
}

func (m *memStore) DeleteConsultation(_ context.Context, id uuid.UUID) error {
	if _, ok := m.st.consultations[id]; !ok {
		return ErrConsultationNotFound
	}
	delete(m.st.consultations, id)
	return nil
}

func (m *memStore) PrescriptionByConsultation(_ context.Context, consultationID uuid.UUID) (*Prescription, error) {
	for _, p := range m.st.prescriptions {
		if p.ConsultationID == consultationID {
			return &p, nil
		}
	}
	return nil, ErrPrescriptionNotFound
}

func (m *memStore) InsertPrescription(_ context.Context, p *Prescription) error {
	if err := m.fail("InsertPrescription"); err != nil {
		return err
	}
	m.st.prescriptions[p.ID] = *p
	return nil
}

func (m *memStore) DeletePrescription(_ context.Context, id uuid.UUID) error {
	delete(m.st.prescriptions, id)
	return nil
}

func (m *memStore) InsertPrescriptionItems(_ context.Context, items []PrescriptionItem) error {
	if err := m.fail("InsertPrescriptionItems"); err != nil {
		return err
	}
	for _, it := range items {
		if _, ok := m.medicines[it.MedicineID]; !ok {
			return ErrUnknownMedicine
		}
		m.st.items[it.PrescriptionID] = append(m.st.items[it.PrescriptionID], it)
	}
	return nil
}

func (m *memStore) DeletePrescriptionItems(_ context.Context, prescriptionID uuid.UUID) error {
	delete(m.st.items, prescriptionID)
	return nil
}

func (m *memStore) ItemsByPrescription(_ context.Context, prescriptionID uuid.UUID) ([]PrescriptionItem, error) {
	out := []PrescriptionItem{}
	for _, it := range m.st.items[prescriptionID] {
		it.MedicineName = m.medicines[it.MedicineID]
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memStore) InsertLabTests(_ context.Context, tests []LabTest) error {
	if err := m.fail("InsertLabTests"); err != nil {
		return err
	}
	for _, t := range tests {
		m.st.labTests[t.ID] = t
	}
	return nil
}

func (m *memStore) DeleteLabTestsByConsultation(_ context.Context, consultationID uuid.UUID) error {
	for id, t := range m.st.labTests {
		if t.ConsultationID == consultationID {
			delete(m.st.labTests, id)
		}
	}
	return nil
}

func (m *memStore) labTestsWhere(match func(LabTest) bool) []LabTest {
	out := []LabTest{}
	for _, t := range m.st.labTests {
		if match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.After(out[j].RequestedAt)
		}
		return out[i].TestName < out[j].TestName
	})
	return out
}

func (m *memStore) LabTestsByConsultation(_ context.Context, consultationID uuid.UUID) ([]LabTest, error) {
	return m.labTestsWhere(func(t LabTest) bool { return t.ConsultationID == consultationID }), nil
}

func (m *memStore) LabTestsByPatient(_ context.Context, patientID uuid.UUID) ([]LabTest, error) {
	return m.labTestsWhere(func(t LabTest) bool { return t.PatientID == patientID }), nil
}

func (m *memStore) GetLabTest(_ context.Context, id uuid.UUID) (*LabTest, error) {
	t, ok := m.st.labTests[id]
	if !ok {
		return nil, ErrLabTestNotFound
	}
	return &t, nil
}

func (m *memStore) UpdateLabTest(_ context.Context, t *LabTest) error {
	if _, ok := m.st.labTests[t.ID]; !ok {
		return ErrLabTestNotFound
	}
	m.st.labTests[t.ID] = *t
	return nil
}

func (m *memStore) DeleteLabTest(_ context.Context, id uuid.UUID) error {
	if _, ok := m.st.labTests[id]; !ok {
		return ErrLabTestNotFound
	}
	delete(m.st.labTests, id)
	return nil
}

func (m *memStore) SetAppointmentVisited(_ context.Context, appointmentID uuid.UUID, visited bool, status appointment.Status) (bool, error) {
	if err := m.fail("SetAppointmentVisited"); err != nil {
		return false, err
	}
	if _, ok := m.st.appointments[appointmentID]; !ok {
		return false, nil
	}
	m.st.appointments[appointmentID] = visitState{visited: visited, status: status}
	return true, nil
}

func (m *memStore) practitionerName(id uuid.UUID) string {
	p, err := m.dir.GetPractitioner(context.Background(), id)
	if err != nil {
		return ""
	}
	return p.Name
}

func (m *memStore) patientName(id uuid.UUID) string {
	p, err := m.dir.GetPatient(context.Background(), id)
	if err != nil {
		return ""
	}
	return p.Name
}

func (m *memStore) History(_ context.Context, patientID uuid.UUID) ([]HistoryEntry, error) {
	out := []HistoryEntry{}
	for _, c := range m.st.consultations {
		if c.PatientID != patientID {
			continue
		}
		out = append(out, HistoryEntry{
			ConsultationID:   c.ID,
			AppointmentID:    c.AppointmentID,
			VisitDate:        c.BookedAt,
			PractitionerName: m.practitionerName(c.PractitionerID),
			ChiefComplaint:   c.ChiefComplaint,
			Symptoms:         c.Symptoms,
			Diagnosis:        c.Diagnosis,
			Notes:            c.Notes,
			FollowUpDate:     c.FollowUpDate,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	return out, nil
}

func (m *memStore) summary(p Prescription) PrescriptionSummary {
	c := m.st.consultations[p.ConsultationID]
	return PrescriptionSummary{
		ID:               p.ID,
		ConsultationID:   c.ID,
		PatientName:      m.patientName(c.PatientID),
		PractitionerName: m.practitionerName(c.PractitionerID),
		Diagnosis:        c.Diagnosis,
		IssuedAt:         c.BookedAt,
	}
}

func (m *memStore) SearchPrescriptions(_ context.Context, keyword string) ([]PrescriptionSummary, error) {
	kw := strings.ToLower(keyword)
	out := []PrescriptionSummary{}
	for _, p := range m.st.prescriptions {
		s := m.summary(p)
		if strings.Contains(strings.ToLower(s.PatientName), kw) || strings.Contains(strings.ToLower(s.PractitionerName), kw) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) GetPrescriptionSummary(_ context.Context, id uuid.UUID) (*PrescriptionSummary, error) {
	p, ok := m.st.prescriptions[id]
	if !ok {
		return nil, ErrPrescriptionNotFound
	}
	s := m.summary(p)
	return &s, nil
}

type captureRenderer struct {
	prescription document.PrescriptionDocument
}

func (r *captureRenderer) PrescriptionPDF(doc document.PrescriptionDocument) ([]byte, error) {
	r.prescription = doc
	return []byte("%PDF-test"), nil
}

func (r *captureRenderer) PharmacyBillPDF(document.PharmacyBillDocument) ([]byte, error) {
	return nil, errors.New("not used")
}

type fixture struct {
	svc      *Service
	store    *memStore
	renderer *captureRenderer
	patient  directory.Patient
	doc      directory.Practitioner
	apptID   uuid.UUID
	meds     []uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := directorytest.New()
	store := newMemStore(dir)
	renderer := &captureRenderer{}
	svc := NewService(store, dir, renderer, nil, zerolog.Nop())

	clock := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	f := &fixture{
		svc:      svc,
		store:    store,
		renderer: renderer,
		patient:  dir.AddPatient("Asha Verma"),
		doc:      dir.AddPractitioner("Dr. Iyer", 500, 0),
	}
	f.apptID = f.addAppointment()
	for _, name := range []string{"Paracetamol", "Amoxicillin", "Cetirizine"} {
		id := uuid.New()
		store.medicines[id] = name
		f.meds = append(f.meds, id)
	}
	return f
}

func (f *fixture) addAppointment() uuid.UUID {
	id := uuid.New()
	f.store.st.appointments[id] = visitState{status: appointment.StatusScheduled}
	return id
}

func (f *fixture) request(apptID uuid.UUID, meds int, labs ...string) Request {
	req := Request{
		PatientID:      f.patient.ID,
		PractitionerID: f.doc.ID,
		AppointmentID:  apptID,
		ChiefComplaint: "Fever",
		Diagnosis:      "Viral fever",
		LabTests:       labs,
	}
	for i := 0; i < meds; i++ {
		req.Medicines = append(req.Medicines, MedicineLine{MedicineID: f.meds[i], DoseMorning: 1, DoseEvening: 1, DurationDays: 5})
	}
	return req
}

func TestAddCreatesConsultationWithChildren(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.Add(context.Background(), f.request(f.apptID, 3, "CBC", " Lipid profile "))
	require.NoError(t, err)

	require.NotNil(t, d.Prescription)
	assert.Len(t, f.store.st.prescriptions, 1)
	require.Len(t, d.Items, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{d.Items[0].Position, d.Items[1].Position, d.Items[2].Position})
	assert.Equal(t, "Paracetamol", d.Items[0].MedicineName)
	assert.Equal(t, MealAfterFood, d.Items[0].MealTime)

	require.Len(t, d.LabTests, 2)
	for _, lt := range d.LabTests {
		assert.Equal(t, LabStatusPending, lt.Status)
		assert.Equal(t, f.patient.ID, lt.PatientID)
		assert.Equal(t, f.doc.ID, lt.PractitionerID)
		assert.False(t, lt.RequestedAt.IsZero())
	}
	assert.Equal(t, "Lipid profile", d.LabTests[1].TestName)

	assert.Equal(t, visitState{visited: true, status: appointment.StatusVisited}, f.store.st.appointments[f.apptID])
}

func TestAddWithoutMedicinesCreatesNoPrescription(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.Add(context.Background(), f.request(f.apptID, 0))
	require.NoError(t, err)
	assert.Nil(t, d.Prescription)
	assert.Empty(t, d.Items)
	assert.Empty(t, f.store.st.prescriptions)
}

func TestAddWithUnknownAppointmentStillRecords(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.Add(context.Background(), f.request(uuid.New(), 1))
	require.NoError(t, err)
	assert.Len(t, f.store.st.consultations, 1)
	assert.NotNil(t, d.Prescription)
	assert.False(t, f.store.st.appointments[f.apptID].visited)
}

func TestAddRollsBackWhenLabTestsFail(t *testing.T) {
	f := newFixture(t)
	f.store.failOn = "InsertLabTests"

	_, err := f.svc.Add(context.Background(), f.request(f.apptID, 2, "CBC"))
	require.ErrorIs(t, err, errBoom)

	assert.Empty(t, f.store.st.consultations)
	assert.Empty(t, f.store.st.prescriptions)
	assert.Empty(t, f.store.st.items)
	assert.Empty(t, f.store.st.labTests)
	assert.False(t, f.store.st.appointments[f.apptID].visited)
	assert.Equal(t, appointment.StatusScheduled, f.store.st.appointments[f.apptID].status)
}

func TestAddRollsBackWhenAppointmentUpdateFails(t *testing.T) {
	f := newFixture(t)
	f.store.failOn = "SetAppointmentVisited"

	_, err := f.svc.Add(context.Background(), f.request(f.apptID, 1, "CBC"))
	require.Error(t, err)
	assert.Empty(t, f.store.st.consultations)
	assert.Empty(t, f.store.st.labTests)
}

func TestAddRejectsUnknownMedicineAtomically(t *testing.T) {
	f := newFixture(t)
	req := f.request(f.apptID, 1)
	req.Medicines = append(req.Medicines, MedicineLine{MedicineID: uuid.New()})

	_, err := f.svc.Add(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownMedicine)
	assert.Empty(t, f.store.st.consultations)
	assert.Empty(t, f.store.st.items)
}

func TestAddValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.request(f.apptID, 0)
	req.AppointmentID = uuid.Nil
	_, err := f.svc.Add(ctx, req)
	assert.ErrorIs(t, err, ErrMissingReference)

	req = f.request(f.apptID, 1)
	req.Medicines[0].MealTime = "With Food"
	_, err = f.svc.Add(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidMealTime)

	req = f.request(f.apptID, 1)
	req.Medicines[0].DoseNoon = -1
	_, err = f.svc.Add(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidMedicineLine)

	_, err = f.svc.Add(ctx, f.request(f.apptID, 0, "  "))
	assert.ErrorIs(t, err, ErrInvalidLabTest)

	req = f.request(f.apptID, 0)
	req.PatientID = uuid.New()
	_, err = f.svc.Add(ctx, req)
	assert.ErrorIs(t, err, directory.ErrPatientNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	assert.Empty(t, f.store.st.consultations)
}

func TestAddTwiceForOneAppointmentConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.request(f.apptID, 0))
	require.NoError(t, err)

	_, err = f.svc.Add(ctx, f.request(f.apptID, 1, "CBC"))
	assert.ErrorIs(t, err, ErrConsultationExists)
	assert.Len(t, f.store.st.consultations, 1)
}

func TestDeleteResetsAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Add(ctx, f.request(f.apptID, 2, "CBC"))
	require.NoError(t, err)
	require.True(t, f.store.st.appointments[f.apptID].visited)

	require.NoError(t, f.svc.Delete(ctx, d.ID))

	assert.Equal(t, visitState{visited: false, status: appointment.StatusScheduled}, f.store.st.appointments[f.apptID])
	assert.Empty(t, f.store.st.consultations)
	assert.Empty(t, f.store.st.prescriptions)
	assert.Empty(t, f.store.st.items)
	assert.Empty(t, f.store.st.labTests)

	assert.ErrorIs(t, f.svc.Delete(ctx, d.ID), ErrConsultationNotFound)
}

func TestUpdateReplacesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Add(ctx, f.request(f.apptID, 3, "CBC", "X-Ray"))
	require.NoError(t, err)
	require.Len(t, d.Items, 3)

	req := f.request(f.apptID, 0)
	req.Diagnosis = ""
	req.Notes = "Recovered"
	updated, err := f.svc.Update(ctx, d.ID, req)
	require.NoError(t, err)

	assert.Empty(t, updated.Items)
	assert.Empty(t, updated.LabTests)
	assert.Empty(t, updated.Diagnosis)
	assert.Equal(t, "Recovered", updated.Notes)
	assert.Empty(t, f.store.st.items[d.Prescription.ID])
}

func TestUpdateCreatesPrescriptionLazily(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Add(ctx, f.request(f.apptID, 0, "CBC"))
	require.NoError(t, err)
	require.Nil(t, d.Prescription)

	updated, err := f.svc.Update(ctx, d.ID, f.request(f.apptID, 2, "Urine routine"))
	require.NoError(t, err)
	require.NotNil(t, updated.Prescription)
	assert.Len(t, updated.Items, 2)
	require.Len(t, updated.LabTests, 1)
	assert.Equal(t, "Urine routine", updated.LabTests[0].TestName)
	assert.Equal(t, f.patient.ID, updated.LabTests[0].PatientID)

	again, err := f.svc.Update(ctx, d.ID, f.request(f.apptID, 1))
	require.NoError(t, err)
	assert.Equal(t, updated.Prescription.ID, again.Prescription.ID)
	assert.Len(t, again.Items, 1)
	assert.Len(t, f.store.st.prescriptions, 1)
}

func TestUpdateMissingConsultation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), uuid.New(), f.request(f.apptID, 0))
	assert.ErrorIs(t, err, ErrConsultationNotFound)
}

func TestUpdateRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Add(ctx, f.request(f.apptID, 2, "CBC"))
	require.NoError(t, err)

	f.store.failOn = "InsertLabTests"
	req := f.request(f.apptID, 0)
	req.Diagnosis = "changed"
	_, err = f.svc.Update(ctx, d.ID, req)
	require.ErrorIs(t, err, errBoom)

	f.store.failOn = ""
	got, err := f.svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Viral fever", got.Diagnosis)
	assert.Len(t, got.Items, 2)
	assert.Len(t, got.LabTests, 1)
}

func TestDetailedHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Add(ctx, f.request(f.apptID, 1, "CBC"))
	require.NoError(t, err)
	second, err := f.svc.Add(ctx, f.request(f.addAppointment(), 2))
	require.NoError(t, err)

	history, err := f.svc.History(ctx, f.patient.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ConsultationID)
	assert.Equal(t, "Dr. Iyer", history[0].PractitionerName)

	detailed, err := f.svc.DetailedHistory(ctx, f.patient.ID)
	require.NoError(t, err)
	require.Len(t, detailed, 2)
	assert.Len(t, detailed[0].Medicines, 2)
	assert.Equal(t, first.ID, detailed[1].ConsultationID)
	assert.Equal(t, []string{"CBC"}, detailed[1].LabTests)
	assert.Equal(t, "Paracetamol", detailed[1].Medicines[0].MedicineName)
}

func TestUpdateLabTestStampsCompletionOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Add(ctx, f.request(f.apptID, 0, "CBC"))
	require.NoError(t, err)
	id := d.LabTests[0].ID

	result := "Normal"
	done, err := f.svc.UpdateLabTest(ctx, id, LabTestUpdate{TestName: "CBC", Status: LabStatusCompleted, Result: &result})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	stamped := *done.CompletedAt

	again, err := f.svc.UpdateLabTest(ctx, id, LabTestUpdate{TestName: "CBC", Status: LabStatusCompleted, Result: &result})
	require.NoError(t, err)
	assert.Equal(t, stamped, *again.CompletedAt)

	_, err = f.svc.UpdateLabTest(ctx, id, LabTestUpdate{TestName: ""})
	assert.ErrorIs(t, err, ErrInvalidLabTest)

	byPatient, err := f.svc.LabTestsByPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	require.Len(t, byPatient, 1)
	assert.Equal(t, "Normal", *byPatient[0].Result)

	require.NoError(t, f.svc.DeleteLabTest(ctx, id))
	assert.ErrorIs(t, f.svc.DeleteLabTest(ctx, id), ErrLabTestNotFound)
}

func TestPrescriptionSearchDetailsAndPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.Add(ctx, f.request(f.apptID, 2))
	require.NoError(t, err)

	found, err := f.svc.SearchPrescriptions(ctx, "asha")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, d.Prescription.ID, found[0].ID)

	none, err := f.svc.SearchPrescriptions(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	details, err := f.svc.PrescriptionDetails(ctx, d.Prescription.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Iyer", details.PractitionerName)
	assert.Len(t, details.Items, 2)

	pdf, err := f.svc.PrescriptionPDF(ctx, d.Prescription.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-test", string(pdf))
	assert.Equal(t, "Asha Verma", f.renderer.prescription.PatientName)
	require.Len(t, f.renderer.prescription.Lines, 2)
	assert.Equal(t, "Amoxicillin", f.renderer.prescription.Lines[1].MedicineName)

	_, err = f.svc.PrescriptionPDF(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPrescriptionNotFound)
}
