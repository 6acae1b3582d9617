package store

import (
	"context"
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/idelcare/nursebot/model"
)

// MongoStore persists entities through odm collections, one tenant per
// practice.
type MongoStore struct {
	mongo  odm.MongoClient
	tenant string
}

func NewMongoStore(client odm.MongoClient, tenant string) *MongoStore {
	return &MongoStore{mongo: client, tenant: tenant}
}

func (s *MongoStore) CreatePatient(ctx context.Context, patient model.Patient) error {
	_, err := async.Await(odm.CollectionOf[model.Patient](s.mongo, s.tenant).Save(ctx, patient))
	if err != nil {
		return fmt.Errorf("saving patient %s: %w", patient.ID, err)
	}
	return nil
}

func (s *MongoStore) CreateTransmission(ctx context.Context, transmission model.Transmission) error {
	_, err := async.Await(odm.CollectionOf[model.Transmission](s.mongo, s.tenant).Save(ctx, transmission))
	if err != nil {
		return fmt.Errorf("saving transmission %s: %w", transmission.ID, err)
	}
	return nil
}

func (s *MongoStore) UpsertAppointment(ctx context.Context, appointment model.Appointment) error {
	_, err := async.Await(odm.CollectionOf[model.Appointment](s.mongo, s.tenant).Save(ctx, appointment))
	if err != nil {
		return fmt.Errorf("saving appointment %s: %w", appointment.ID, err)
	}
	return nil
}

// EnsureIndexes prepares the tenant's collections, mirroring first-run
// provisioning.
func EnsureIndexes(ctx context.Context, client odm.MongoClient, tenant string) error {
	if err := odm.EnsureIndexes[model.Patient](ctx, client, tenant); err != nil {
		return err
	}
	if err := odm.EnsureIndexes[model.Transmission](ctx, client, tenant); err != nil {
		return err
	}
	return odm.EnsureIndexes[model.Appointment](ctx, client, tenant)
}
