package model

import "github.com/google/uuid"

// Transmission is a clinical hand-off note between caregivers for a patient.
// Transmissions are never deduplicated: each one is a distinct clinical note.
type Transmission struct {
	ID        string `bson:"_id" json:"id"`
	PatientID string `bson:"patientId" json:"patientId"`
	FromID    string `bson:"fromId" json:"fromId"`
	FromName  string `bson:"fromName" json:"fromName"`
	Text      string `bson:"text" json:"text"`
	Category  string `bson:"category" json:"category"`
	Priority  string `bson:"priority" json:"priority"`
	Status    string `bson:"status" json:"status"`
	CreatedOn int64  `bson:"createdOn" json:"createdOn"`
}

func (m Transmission) Id() string {
	if len(m.ID) == 0 {
		return uuid.New().String()
	}
	return m.ID
}

func (m Transmission) CollectionName() string {
	return "transmissions"
}
