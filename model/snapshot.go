package model

import "encoding/json"

// SessionUser is the operator logged into the current browser session.
type SessionUser struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type Settings struct {
	PracticeName string            `json:"practiceName"`
	Tone         string            `json:"tone"`
	NurseRoster  []string          `json:"nurseRoster"`
	BillingCodes map[string]string `json:"billingCodes,omitempty"`
}

// Snapshot is the read-only application context supplied fresh per turn.
// The orchestrator and agents never mutate it; only the dispatcher requests
// mutations, through the store's own entry points.
type Snapshot struct {
	Patients     []Patient     `json:"patients"`
	Appointments []Appointment `json:"appointments"`
	Session      *SessionUser  `json:"session"`
	Settings     Settings      `json:"settings"`
}

// Capped projections: each agent receives only the fields it needs, to bound
// prompt size and keep unrelated patient data out of prompts that do not
// need it.

type patientRoster struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CareType  string `json:"careType"`
}

type patientContact struct {
	patientRoster
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (s *Snapshot) roster() []patientRoster {
	out := make([]patientRoster, 0, len(s.Patients))
	for _, p := range s.Patients {
		out = append(out, patientRoster{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, CareType: p.CareType})
	}
	return out
}

// ProjectBusiness exposes staffing and billing settings plus the patient
// count; individual patient records are irrelevant to staffing decisions.
func (s *Snapshot) ProjectBusiness() string {
	return marshal(map[string]any{
		"practiceName": s.Settings.PracticeName,
		"nurseRoster":  s.Settings.NurseRoster,
		"billingCodes": s.Settings.BillingCodes,
		"patientCount": len(s.Patients),
	})
}

// ProjectMedical exposes the patient roster without phone or address.
func (s *Snapshot) ProjectMedical() string {
	return marshal(map[string]any{
		"patients": s.roster(),
	})
}

// ProjectAdmin exposes the full roster with contact details, appointments
// and the current session.
func (s *Snapshot) ProjectAdmin() string {
	contacts := make([]patientContact, 0, len(s.Patients))
	for _, p := range s.Patients {
		contacts = append(contacts, patientContact{
			patientRoster: patientRoster{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, CareType: p.CareType},
			Phone:         p.Phone,
			Address:       p.Address,
		})
	}
	return marshal(map[string]any{
		"patients":     contacts,
		"appointments": s.Appointments,
		"session":      s.Session,
	})
}

// ProjectCommunication exposes tone settings only.
func (s *Snapshot) ProjectCommunication() string {
	return marshal(map[string]any{
		"practiceName": s.Settings.PracticeName,
		"tone":         s.Settings.Tone,
	})
}

func marshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
