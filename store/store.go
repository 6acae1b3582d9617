package store

import (
	"context"

	"github.com/idelcare/nursebot/model"
)

// Store is the mutation boundary the dispatcher writes through. Entities
// arrive fully formed with generated ids; implementations own persistence
// and any further bookkeeping. Writes are safe to retry by id.
type Store interface {
	CreatePatient(ctx context.Context, patient model.Patient) error
	CreateTransmission(ctx context.Context, transmission model.Transmission) error
	UpsertAppointment(ctx context.Context, appointment model.Appointment) error
}
