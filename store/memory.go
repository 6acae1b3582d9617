package store

import (
	"context"
	"sync"

	"github.com/idelcare/nursebot/model"
)

// MemoryStore is the in-process reference store, used by the demo server
// and tests. Reads return copies so callers cannot mutate shared state.
type MemoryStore struct {
	mu            sync.RWMutex
	patients      []model.Patient
	transmissions []model.Transmission
	appointments  map[string]model.Appointment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		appointments: make(map[string]model.Appointment),
	}
}

// Seed loads an initial patient roster, typically at server start.
func (m *MemoryStore) Seed(patients []model.Patient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patients = append(m.patients, patients...)
}

func (m *MemoryStore) CreatePatient(ctx context.Context, patient model.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patients = append(m.patients, patient)
	return nil
}

func (m *MemoryStore) CreateTransmission(ctx context.Context, transmission model.Transmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transmissions = append(m.transmissions, transmission)
	return nil
}

func (m *MemoryStore) UpsertAppointment(ctx context.Context, appointment model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments[appointment.ID] = appointment
	return nil
}

func (m *MemoryStore) Patients() []model.Patient {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Patient, len(m.patients))
	copy(out, m.patients)
	return out
}

func (m *MemoryStore) Transmissions() []model.Transmission {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Transmission, len(m.transmissions))
	copy(out, m.transmissions)
	return out
}

func (m *MemoryStore) Appointments() []model.Appointment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		out = append(out, a)
	}
	return out
}

// Snapshot assembles the read-only application context for one turn.
func (m *MemoryStore) Snapshot(session *model.SessionUser, settings model.Settings) *model.Snapshot {
	return &model.Snapshot{
		Patients:     m.Patients(),
		Appointments: m.Appointments(),
		Session:      session,
		Settings:     settings,
	}
}
