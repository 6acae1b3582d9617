package model

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID              string    `bson:"_id" json:"id"`
	PatientID       string    `bson:"patientId" json:"patientId"`
	NurseID         string    `bson:"nurseId" json:"nurseId"`
	DateTime        time.Time `bson:"dateTime" json:"dateTime"`
	DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	Type            string    `bson:"type" json:"type"`
	Status          string    `bson:"status" json:"status"`
}

func (m Appointment) Id() string {
	if len(m.ID) == 0 {
		return uuid.New().String()
	}
	return m.ID
}

func (m Appointment) CollectionName() string {
	return "appointments"
}
