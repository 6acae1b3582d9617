package model

import "github.com/google/uuid"

// Patient is the administrative record of a person under care.
// Construction defaults (care type, recurrence, ALD flag) are owned by the
// dispatcher; persistence and any further bookkeeping by the store.
type Patient struct {
	ID              string `bson:"_id" json:"id"`
	FirstName       string `bson:"firstName" json:"firstName"`
	LastName        string `bson:"lastName" json:"lastName"`
	Phone           string `bson:"phone" json:"phone"`
	Address         string `bson:"address" json:"address"`
	CareType        string `bson:"careType" json:"careType"`
	Recurrence      string `bson:"recurrence" json:"recurrence"`
	Notes           string `bson:"notes" json:"notes"`
	IsALD           bool   `bson:"isALD" json:"isALD"`
	AssignedNurseID string `bson:"assignedNurseId" json:"assignedNurseId"`
}

func (m Patient) Id() string {
	if len(m.ID) == 0 {
		return uuid.New().String()
	}
	return m.ID
}

func (m Patient) CollectionName() string {
	return "patients"
}
