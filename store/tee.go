package store

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/idelcare/nursebot/model"
	"go.uber.org/zap"
)

// TeeStore writes through to a primary store and mirrors best-effort to a
// secondary one, the way the source application kept a local store in
// front of its remote backend. A secondary failure is logged, never
// surfaced.
type TeeStore struct {
	primary   Store
	secondary Store
}

func NewTeeStore(primary, secondary Store) *TeeStore {
	return &TeeStore{primary: primary, secondary: secondary}
}

func (t *TeeStore) CreatePatient(ctx context.Context, patient model.Patient) error {
	if err := t.primary.CreatePatient(ctx, patient); err != nil {
		return err
	}
	if err := t.secondary.CreatePatient(ctx, patient); err != nil {
		logger.Error("Secondary store patient write failed", zap.String("id", patient.ID), zap.Error(err))
	}
	return nil
}

func (t *TeeStore) CreateTransmission(ctx context.Context, transmission model.Transmission) error {
	if err := t.primary.CreateTransmission(ctx, transmission); err != nil {
		return err
	}
	if err := t.secondary.CreateTransmission(ctx, transmission); err != nil {
		logger.Error("Secondary store transmission write failed", zap.String("id", transmission.ID), zap.Error(err))
	}
	return nil
}

func (t *TeeStore) UpsertAppointment(ctx context.Context, appointment model.Appointment) error {
	if err := t.primary.UpsertAppointment(ctx, appointment); err != nil {
		return err
	}
	if err := t.secondary.UpsertAppointment(ctx, appointment); err != nil {
		logger.Error("Secondary store appointment write failed", zap.String("id", appointment.ID), zap.Error(err))
	}
	return nil
}
