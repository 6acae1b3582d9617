package agents

import (
	"bytes"
	"embed"
	"text/template"

	"github.com/idelcare/nursebot/model"
)

//go:embed templates/*
var templatesFS embed.FS

// Descriptor is the static declaration of one agent: a role prompt, the
// JSON shape it must answer with, and the context projection it is allowed
// to see. Loaded once at startup, never mutated.
type Descriptor struct {
	Name              string
	SystemInstruction string
	ResponseSchema    string
	Project           func(snap *model.Snapshot) string
}

// Set holds the full agent roster consumed by the orchestrator.
type Set struct {
	Triage        Descriptor
	Business      Descriptor
	Medical       Descriptor
	Admin         Descriptor
	Communication Descriptor
}

func LoadSet() (*Set, error) {
	set := &Set{}

	specs := []struct {
		dst      *Descriptor
		name     string
		template string
		schema   string
		project  func(snap *model.Snapshot) string
	}{
		{&set.Triage, "triage", "templates/triage_system.md", triageSchema, nil},
		{&set.Business, "business", "templates/business_system.md", businessSchema, (*model.Snapshot).ProjectBusiness},
		{&set.Medical, "medical", "templates/medical_system.md", medicalSchema, (*model.Snapshot).ProjectMedical},
		{&set.Admin, "admin", "templates/admin_system.md", adminSchema, (*model.Snapshot).ProjectAdmin},
		{&set.Communication, "communication", "templates/communication_system.md", communicationSchema, (*model.Snapshot).ProjectCommunication},
	}

	for _, s := range specs {
		instruction, err := loadPrompt(s.template, map[string]string{"Schema": s.schema})
		if err != nil {
			return nil, err
		}
		*s.dst = Descriptor{
			Name:              s.name,
			SystemInstruction: instruction,
			ResponseSchema:    s.schema,
			Project:           s.project,
		}
	}

	return set, nil
}

func loadPrompt(templatePath string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templatesFS, templatePath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

const triageSchema = `{"needsBusiness": bool, "needsMedical": bool, "needsAdmin": bool, "reasoning": string}`

const businessSchema = `{"staffAction": string, "targetNurse": string, "billingAnalysis": string, "businessLogicMet": bool}`

const medicalSchema = `{"intent": string, "transmissionData": {"patientId": string, "patientName": string, "text": string, "category": string, "priority": string}, "analysis": string}`

const adminSchema = `{"intent": string, "patientData": {"firstName": string, "lastName": string, "phone": string, "address": string, "careType": string}, "appointmentData": {"patientId": string, "dateTime": string, "durationMinutes": number}, "taskData": {"title": string, "dueDate": string}, "actionRequired": bool}`

const communicationSchema = `{"finalReply": string, "channelToneApplied": string, "formattingMetadata": object}`
