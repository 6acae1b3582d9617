package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/idelcare/nursebot/agents"
	"github.com/idelcare/nursebot/dispatch"
	"github.com/idelcare/nursebot/model"
	"github.com/idelcare/nursebot/orchestrator"
	"github.com/idelcare/nursebot/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptRule matches on a marker in the system prompt and, optionally, a
// substring of the user prompt. First rule wins.
type scriptRule struct {
	system   string
	user     string
	response string
}

type scriptedCompleter struct {
	rules []scriptRule
}

func (s *scriptedCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) string {
	for _, r := range s.rules {
		if strings.Contains(systemPrompt, r.system) && (r.user == "" || strings.Contains(userPrompt, r.user)) {
			return r.response
		}
	}
	return "{}"
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return f.text, f.err
}

func newTestServer(t *testing.T, completer orchestrator.Completer, transcriber *fakeTranscriber) (*httptest.Server, *store.MemoryStore) {
	t.Helper()

	set, err := agents.LoadSet()
	require.NoError(t, err)

	memory := store.NewMemoryStore()
	srv := New(
		orchestrator.New(completer, set),
		dispatch.NewDispatcher(memory),
		transcriber,
		memory,
		model.Settings{PracticeName: "Cabinet IDEL", Tone: "professionnel"},
		&model.SessionUser{UserID: "nurse-7", Name: "Sophie", Role: "nurse"},
	)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, memory
}

func postChat(t *testing.T, ts *httptest.Server, cookies []*http.Cookie, message string) (*http.Response, ChatResponse) {
	t.Helper()

	body, _ := json.Marshal(ChatRequest{Message: message})
	req, err := http.NewRequest("POST", ts.URL+"/api/chat", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestChatConfirmFlow(t *testing.T) {
	completer := &scriptedCompleter{rules: []scriptRule{
		{system: "répartiteur", user: "oui", response: `{"reasoning": "confirmation"}`},
		{system: "répartiteur", response: `{"needsBusiness": false, "needsMedical": false, "needsAdmin": true, "reasoning": "dossier"}`},
		{system: "agent administratif", response: `{"intent": "CREATE_PATIENT", "patientData": {"firstName": "Jean", "lastName": "Dupont", "phone": "0601020304"}, "actionRequired": true}`},
		{system: "agent de communication", response: `{"finalReply": "Je prépare le dossier de Jean Dupont."}`},
	}}
	ts, memory := newTestServer(t, completer, &fakeTranscriber{})

	httpResp, first := postChat(t, ts, nil, "Crée un dossier pour Jean Dupont, téléphone 0601020304")

	assert.Equal(t, "CREATE_PATIENT", first.Intent)
	assert.True(t, first.ActionRequired)
	assert.Contains(t, first.ActionFeedback, "Dupont")
	assert.Len(t, memory.Patients(), 0, "no mutation before confirmation")

	// Confirm within the same session.
	cookies := httpResp.Cookies()
	require.NotEmpty(t, cookies)
	_, second := postChat(t, ts, cookies, "oui")

	assert.Contains(t, second.ActionFeedback, "Jean Dupont")
	require.Len(t, memory.Patients(), 1)
	assert.Equal(t, "Dupont", memory.Patients()[0].LastName)
}

func TestChatPendingDoesNotLeakAcrossSessions(t *testing.T) {
	completer := &scriptedCompleter{rules: []scriptRule{
		{system: "répartiteur", user: "oui", response: `{"reasoning": "confirmation"}`},
		{system: "répartiteur", response: `{"needsAdmin": true, "reasoning": "dossier"}`},
		{system: "agent administratif", response: `{"intent": "CREATE_PATIENT", "patientData": {"firstName": "Jean", "lastName": "Dupont"}, "actionRequired": true}`},
		{system: "agent de communication", response: `{"finalReply": "ok"}`},
	}}
	ts, memory := newTestServer(t, completer, &fakeTranscriber{})

	// Stage a pending action in session A.
	postChat(t, ts, nil, "Crée un dossier pour Jean Dupont")

	// A fresh session saying "oui" must not fire A's pending action.
	_, out := postChat(t, ts, nil, "oui mais pour autre chose")

	assert.Empty(t, out.ActionFeedback)
	assert.Len(t, memory.Patients(), 0)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	ts, _ := newTestServer(t, &scriptedCompleter{}, &fakeTranscriber{})

	resp, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func postVoice(t *testing.T, ts *httptest.Server) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "capture.webm")
	require.NoError(t, err)
	part.Write([]byte("fake audio bytes"))
	writer.Close()

	resp, err := http.Post(ts.URL+"/api/voice", writer.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestVoiceTurnUsesTranscript(t *testing.T) {
	completer := &scriptedCompleter{rules: []scriptRule{
		{system: "répartiteur", response: `{"reasoning": "salutation"}`},
		{system: "agent de communication", response: `{"finalReply": "Bonjour Sophie !"}`},
	}}
	ts, _ := newTestServer(t, completer, &fakeTranscriber{text: "bonjour"})

	resp := postVoice(t, ts)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "bonjour", out.Transcript)
	assert.Equal(t, "Bonjour Sophie !", out.Reply)
}

func TestVoiceTranscriptionFailureSurfaces(t *testing.T) {
	ts, _ := newTestServer(t, &scriptedCompleter{}, &fakeTranscriber{err: errors.New("backend down")})

	resp := postVoice(t, ts)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
