package agents

import "encoding/json"

// Per-agent results are closed variants decoded defensively at the
// boundary: a decode failure never aborts the turn, it yields the error
// variant for that agent's slot only.

// ErrorReply is substituted for an agent whose output could not be parsed.
const ErrorReply = "Erreur de traitement."

type TriageResult struct {
	NeedsBusiness bool   `json:"needsBusiness"`
	NeedsMedical  bool   `json:"needsMedical"`
	NeedsAdmin    bool   `json:"needsAdmin"`
	Reasoning     string `json:"reasoning"`
}

type BusinessResult struct {
	StaffAction      string `json:"staffAction"`
	TargetNurse      string `json:"targetNurse,omitempty"`
	BillingAnalysis  string `json:"billingAnalysis,omitempty"`
	BusinessLogicMet bool   `json:"businessLogicMet"`

	Error      bool   `json:"error,omitempty"`
	FinalReply string `json:"finalReply,omitempty"`
}

type TransmissionData struct {
	PatientID   string `json:"patientId,omitempty"`
	PatientName string `json:"patientName,omitempty"`
	Text        string `json:"text"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

type MedicalResult struct {
	Intent           string            `json:"intent"`
	TransmissionData *TransmissionData `json:"transmissionData,omitempty"`
	Analysis         string            `json:"analysis,omitempty"`

	Error      bool   `json:"error,omitempty"`
	FinalReply string `json:"finalReply,omitempty"`
}

type PatientData struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CareType  string `json:"careType,omitempty"`
}

type AppointmentData struct {
	PatientID       string `json:"patientId,omitempty"`
	DateTime        string `json:"dateTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

type TaskData struct {
	Title   string `json:"title"`
	DueDate string `json:"dueDate,omitempty"`
}

type AdminResult struct {
	Intent          string           `json:"intent"`
	PatientData     *PatientData     `json:"patientData,omitempty"`
	AppointmentData *AppointmentData `json:"appointmentData,omitempty"`
	TaskData        *TaskData        `json:"taskData,omitempty"`
	ActionRequired  bool             `json:"actionRequired"`

	Error      bool   `json:"error,omitempty"`
	FinalReply string `json:"finalReply,omitempty"`
}

type CommunicationResult struct {
	FinalReply         string         `json:"finalReply"`
	ChannelToneApplied string         `json:"channelToneApplied,omitempty"`
	FormattingMetadata map[string]any `json:"formattingMetadata,omitempty"`

	Error bool `json:"error,omitempty"`
}

// DecodeTriage degrades to "no specialized agents" on malformed input: all
// flags false, so the turn still reaches synthesis with a generic reply.
func DecodeTriage(raw string) TriageResult {
	var out TriageResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return TriageResult{Reasoning: "Error parsing JSON"}
	}
	return out
}

func DecodeBusiness(raw string) *BusinessResult {
	var out BusinessResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return &BusinessResult{Error: true, FinalReply: ErrorReply}
	}
	return &out
}

func DecodeMedical(raw string) *MedicalResult {
	var out MedicalResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return &MedicalResult{Error: true, FinalReply: ErrorReply}
	}
	return &out
}

func DecodeAdmin(raw string) *AdminResult {
	var out AdminResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return &AdminResult{Error: true, FinalReply: ErrorReply}
	}
	return &out
}

func DecodeCommunication(raw string) *CommunicationResult {
	var out CommunicationResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return &CommunicationResult{Error: true}
	}
	return &out
}
