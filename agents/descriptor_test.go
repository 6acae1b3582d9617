package agents

import (
	"strings"
	"testing"

	"github.com/idelcare/nursebot/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSet(t *testing.T) {
	set, err := LoadSet()
	require.NoError(t, err)

	descriptors := []Descriptor{set.Triage, set.Business, set.Medical, set.Admin, set.Communication}
	names := []string{"triage", "business", "medical", "admin", "communication"}

	for i, desc := range descriptors {
		assert.Equal(t, names[i], desc.Name)
		assert.NotEmpty(t, desc.SystemInstruction)
		assert.NotEmpty(t, desc.ResponseSchema)
		// The schema is rendered into the instruction itself.
		assert.Contains(t, desc.SystemInstruction, desc.ResponseSchema)
	}

	// Triage sees no store context; every specialized agent projects one.
	assert.Nil(t, set.Triage.Project)
	assert.NotNil(t, set.Business.Project)
	assert.NotNil(t, set.Medical.Project)
	assert.NotNil(t, set.Admin.Project)
	assert.NotNil(t, set.Communication.Project)
}

func TestProjectionsAreCapped(t *testing.T) {
	set, err := LoadSet()
	require.NoError(t, err)

	snap := &model.Snapshot{
		Patients: []model.Patient{
			{ID: "p1", FirstName: "Marie", LastName: "Martin", Phone: "0601020304", Address: "3 rue des Lilas", CareType: "Pansement"},
		},
		Session:  &model.SessionUser{UserID: "u1", Name: "Sophie", Role: "nurse"},
		Settings: model.Settings{PracticeName: "Cabinet IDEL", Tone: "professionnel", NurseRoster: []string{"Sophie", "Claire"}},
	}

	business := set.Business.Project(snap)
	assert.NotContains(t, business, "Martin", "business agent must not see patient records")
	assert.Contains(t, business, "Claire")

	medical := set.Medical.Project(snap)
	assert.Contains(t, medical, "Martin")
	assert.NotContains(t, medical, "0601020304", "medical agent must not see contact details")
	assert.NotContains(t, medical, "rue des Lilas")

	admin := set.Admin.Project(snap)
	assert.Contains(t, admin, "Martin")
	assert.Contains(t, admin, "0601020304")
	assert.Contains(t, admin, "Sophie")

	comm := set.Communication.Project(snap)
	assert.Contains(t, comm, "professionnel")
	assert.NotContains(t, comm, "Martin")

	// Projections must be valid JSON fragments for prompt embedding.
	for _, proj := range []string{business, medical, admin, comm} {
		assert.True(t, strings.HasPrefix(proj, "{"))
	}
}
