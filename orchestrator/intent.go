package orchestrator

// Intent is the structured action classified out of a user turn.
type Intent string

const (
	IntentChat               Intent = "CHAT"
	IntentCreatePatient      Intent = "CREATE_PATIENT"
	IntentCreateTransmission Intent = "CREATE_TRANSMISSION"
	IntentCreateAppointment  Intent = "CREATE_APPOINTMENT"
	IntentCreateTask         Intent = "CREATE_TASK"
)

// resolveIntent applies the fixed priority order: admin beats medical beats
// business; anything else is plain chat. Unknown intent strings pass
// through so the dispatcher can log them.
func resolveIntent(meta *Metadata) Intent {
	if meta.Admin != nil && meta.Admin.Intent != "" {
		return Intent(meta.Admin.Intent)
	}
	if meta.Medical != nil && meta.Medical.Intent != "" {
		return Intent(meta.Medical.Intent)
	}
	if meta.Business != nil && meta.Business.StaffAction != "" {
		return Intent(meta.Business.StaffAction)
	}
	return IntentChat
}
