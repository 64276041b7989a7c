// Package directorytest provides an in-memory directory.Lookup for tests.
package directorytest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hackgods/clinicops/internal/directory"
)

type Directory struct {
	mu            sync.RWMutex
	patients      map[uuid.UUID]directory.Patient
	practitioners map[uuid.UUID]directory.Practitioner
}

func New() *Directory {
	return &Directory{
		patients:      make(map[uuid.UUID]directory.Patient),
		practitioners: make(map[uuid.UUID]directory.Practitioner),
	}
}

// AddPatient registers a patient with a generated id and MRN.
func (d *Directory) AddPatient(name string) directory.Patient {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := uuid.New()
	phone := "555-0100"
	p := directory.Patient{ID: id, MRN: "MRN-" + id.String()[:8], Name: name, Phone: &phone}
	d.patients[id] = p
	return p
}

// AddPractitioner registers a practitioner with the given fees.
func (d *Directory) AddPractitioner(name string, baseFee, profileFee int64) directory.Practitioner {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := directory.Practitioner{
		ID:         uuid.New(),
		Name:       name,
		BaseFee:    decimal.NewFromInt(baseFee),
		ProfileFee: decimal.NewFromInt(profileFee),
	}
	d.practitioners[p.ID] = p
	return p
}

// SetProfileFee changes a practitioner's fee after the fact.
func (d *Directory) SetProfileFee(id uuid.UUID, fee int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.practitioners[id]
	p.ProfileFee = decimal.NewFromInt(fee)
	d.practitioners[id] = p
}

func (d *Directory) GetPatient(_ context.Context, id uuid.UUID) (*directory.Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.patients[id]
	if !ok {
		return nil, directory.ErrPatientNotFound
	}
	return &p, nil
}

func (d *Directory) GetPractitioner(_ context.Context, id uuid.UUID) (*directory.Practitioner, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.practitioners[id]
	if !ok {
		return nil, directory.ErrPractitionerNotFound
	}
	return &p, nil
}

func (d *Directory) SetBaseFee(id uuid.UUID, fee int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.practitioners[id]
	p.BaseFee = decimal.NewFromInt(fee)
	d.practitioners[id] = p
}
