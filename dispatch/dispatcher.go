package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/google/uuid"
	"github.com/idelcare/nursebot/agents"
	"github.com/idelcare/nursebot/model"
	"github.com/idelcare/nursebot/orchestrator"
	"github.com/idelcare/nursebot/store"
	"go.uber.org/zap"
)

const (
	// FailureFeedback is returned when a mutation could not be applied;
	// the conversational reply itself still stands.
	FailureFeedback = "❌ Échec de l'action automatique."

	defaultCareType        = "Général"
	defaultRecurrence      = "À définir"
	defaultCategory        = "clinique"
	defaultPriority        = "medium"
	defaultDurationMinutes = 30

	// UnknownPatientID marks a transmission whose patient could not be
	// resolved. A visible degraded state, not a silent failure.
	UnknownPatientID = "unknown"

	systemFromID   = "system"
	systemFromName = "NurseBot AI"

	fallbackNurseID = "nurse-1"

	notProvided = "Non fourni"
)

// Dispatcher turns an orchestrator response into zero or one store
// mutation. It is the only component that writes to the store as a
// consequence of AI output. Patient creation is two-phase
// (confirm-before-execute); transmissions and appointments apply
// immediately.
type Dispatcher struct {
	store store.Store
}

func NewDispatcher(s store.Store) *Dispatcher {
	return &Dispatcher{store: s}
}

// Dispatch evaluates the rule table in order, first match wins, and
// returns the action feedback text ("" when nothing matched).
func (d *Dispatcher) Dispatch(ctx context.Context, conv *Conversation, userText string, resp *orchestrator.Response, snap *model.Snapshot) string {
	// Rule 1: patient creation always goes through confirmation first.
	if resp.Intent == orchestrator.IntentCreatePatient && resp.Metadata.Admin != nil && resp.Metadata.Admin.PatientData != nil {
		return d.stagePatient(conv, resp.Metadata.Admin.PatientData, snap)
	}

	// Rule 2: an affirmative follow-up fires the pending action, if any.
	if strings.Contains(strings.ToLower(userText), "oui") && conv.HasPending() {
		return d.confirmPending(ctx, conv)
	}

	// Rule 3: transmissions persist immediately, no confirmation.
	if resp.Intent == orchestrator.IntentCreateTransmission && resp.Metadata.Medical != nil && resp.Metadata.Medical.TransmissionData != nil {
		return d.createTransmission(ctx, resp.Metadata.Medical.TransmissionData, snap)
	}

	// Rule 4: appointments persist immediately as well.
	if resp.Intent == orchestrator.IntentCreateAppointment && resp.Metadata.Admin != nil && resp.Metadata.Admin.AppointmentData != nil {
		return d.createAppointment(ctx, resp.Metadata.Admin.AppointmentData, snap)
	}

	// Rule 5: nothing to do; keep a trace for diagnostics.
	if resp.Intent != orchestrator.IntentChat {
		logger.Info("No dispatch rule matched",
			zap.String("intent", string(resp.Intent)),
			zap.Bool("actionRequired", resp.ActionRequired))
	}
	return ""
}

// stagePatient builds the fully formed patient, parks it as the pending
// action and returns the confirmation prompt. The store is not touched.
func (d *Dispatcher) stagePatient(conv *Conversation, data *agents.PatientData, snap *model.Snapshot) string {
	careType := data.CareType
	if careType == "" {
		careType = defaultCareType
	}

	var nurseID string
	if snap.Session != nil {
		nurseID = snap.Session.UserID
	}

	patient := model.Patient{
		ID:              uuid.New().String(),
		FirstName:       data.FirstName,
		LastName:        data.LastName,
		Phone:           data.Phone,
		Address:         data.Address,
		CareType:        careType,
		Recurrence:      defaultRecurrence,
		Notes:           "",
		IsALD:           false,
		AssignedNurseID: nurseID,
	}

	conv.SetPending(PendingAction{Type: ActionCreatePatient, Patient: patient})

	return fmt.Sprintf(
		"Je vais créer le dossier patient suivant :\n- Prénom : %s\n- Nom : %s\n- Téléphone : %s\n- Adresse : %s\n- Type de soins : %s\nConfirmez-vous ? (oui/non)",
		orProvided(data.FirstName),
		orProvided(data.LastName),
		orProvided(data.Phone),
		orProvided(data.Address),
		careType,
	)
}

func (d *Dispatcher) confirmPending(ctx context.Context, conv *Conversation) string {
	action, ok := conv.TakePending()
	if !ok {
		return ""
	}

	switch action.Type {
	case ActionCreatePatient:
		if err := d.store.CreatePatient(ctx, action.Patient); err != nil {
			logger.Error("Patient creation failed", zap.String("id", action.Patient.ID), zap.Error(err))
			return FailureFeedback
		}
		return fmt.Sprintf("✅ Dossier patient créé : %s %s.", action.Patient.FirstName, action.Patient.LastName)
	default:
		logger.Error("Unknown pending action type", zap.String("type", string(action.Type)))
		return FailureFeedback
	}
}

func (d *Dispatcher) createTransmission(ctx context.Context, data *agents.TransmissionData, snap *model.Snapshot) string {
	patientID := data.PatientID
	if patientID == "" {
		patientID = resolvePatientID(data.PatientName, snap.Patients)
	}

	fromID, fromName := systemFromID, systemFromName
	if snap.Session != nil {
		fromID, fromName = snap.Session.UserID, snap.Session.Name
	}

	category := data.Category
	if category == "" {
		category = defaultCategory
	}
	priority := data.Priority
	if priority == "" {
		priority = defaultPriority
	}

	transmission := model.Transmission{
		ID:        uuid.New().String(),
		PatientID: patientID,
		FromID:    fromID,
		FromName:  fromName,
		Text:      data.Text,
		Category:  category,
		Priority:  priority,
		Status:    "sent",
		CreatedOn: time.Now().UnixMilli(),
	}

	if err := d.store.CreateTransmission(ctx, transmission); err != nil {
		logger.Error("Transmission creation failed", zap.String("id", transmission.ID), zap.Error(err))
		return FailureFeedback
	}
	return "✅ Transmission enregistrée."
}

func (d *Dispatcher) createAppointment(ctx context.Context, data *agents.AppointmentData, snap *model.Snapshot) string {
	patientID := data.PatientID
	if patientID == "" && len(snap.Patients) > 0 {
		patientID = snap.Patients[0].ID
	}

	nurseID := fallbackNurseID
	if snap.Session != nil {
		nurseID = snap.Session.UserID
	}

	dateTime := time.Now()
	if data.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, data.DateTime); err == nil {
			dateTime = parsed
		}
	}

	duration := data.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	appointment := model.Appointment{
		ID:              uuid.New().String(),
		PatientID:       patientID,
		NurseID:         nurseID,
		DateTime:        dateTime,
		DurationMinutes: duration,
		Type:            "care",
		Status:          "scheduled",
	}

	if err := d.store.UpsertAppointment(ctx, appointment); err != nil {
		logger.Error("Appointment creation failed", zap.String("id", appointment.ID), zap.Error(err))
		return FailureFeedback
	}
	return "✅ Rendez-vous planifié."
}

// resolvePatientID matches a spoken patient name against last names,
// case-insensitive substring, first match wins.
func resolvePatientID(name string, patients []model.Patient) string {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return UnknownPatientID
	}
	for _, p := range patients {
		if strings.Contains(strings.ToLower(p.LastName), needle) {
			return p.ID
		}
	}
	return UnknownPatientID
}

func orProvided(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}
