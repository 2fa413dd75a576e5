package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pilot_license_tracker/internal/app"
	"pilot_license_tracker/internal/domain/pilot"
	"pilot_license_tracker/internal/domain/recipient"
	"pilot_license_tracker/internal/domain/reminder"
	"pilot_license_tracker/internal/infra/database/inmem"
	"pilot_license_tracker/internal/infra/email"
	"pilot_license_tracker/internal/infra/httpapi"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminPassword = "letmein"

type testAPI struct {
	router     http.Handler
	pilots     *inmem.PilotRepository
	recipients *inmem.RecipientRepository
	mailer     *email.Recorder
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	lg := logrus.New()
	lg.SetOutput(io.Discard)

	pilots := inmem.NewPilotRepository()
	recipients := inmem.NewRecipientRepository()
	ledger := inmem.NewLedgerRepository()
	mailer := email.NewRecorder()

	handler := httpapi.NewHandler(
		app.NewPilotService(pilots, lg),
		app.NewRecipientService(recipients, lg),
		app.NewReminderService(pilots, recipients, ledger, mailer,
			app.ReminderConfig{LeadDays: 45, SendTimeout: time.Second}, lg),
		httpapi.NewSessionStore(adminPassword, time.Hour),
		lg,
	)
	return &testAPI{
		router:     httpapi.NewRouter(handler, []string{"*"}),
		pilots:     pilots,
		recipients: recipients,
		mailer:     mailer,
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": adminPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out["token"])
	return out["token"]
}

func pilotPayload() app.PilotInput {
	return app.PilotInput{
		FirstName:     "Dana",
		LastName:      "Rotem",
		Email:         "dana@example.com",
		Certification: string(pilot.CertificationIP),
		Categories:    []string{string(pilot.CategoryMultirotorLight)},
		MedicalExpiry: time.Now().AddDate(0, 0, 90).UTC(),
	}
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	api.login(t)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/pilots/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/pilots/", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthzIsOpen(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPilotLifecycle(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	rec := api.do(t, http.MethodPost, "/api/pilots/", token, pilotPayload())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created httpapi.PilotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "good", created.MedicalStatus)

	rec = api.do(t, http.MethodGet, "/api/pilots/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []httpapi.PilotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	update := pilotPayload()
	update.FirstName = "Daniella"
	rec = api.do(t, http.MethodPut, "/api/pilots/"+created.ID, token, update)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated httpapi.PilotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Daniella", updated.FirstName)

	rec = api.do(t, http.MethodDelete, "/api/pilots/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/pilots/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePilotRejectsUnknownCategory(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	payload := pilotPayload()
	payload.Categories = []string{"jetpack"}
	rec := api.do(t, http.MethodPost, "/api/pilots/", token, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestManagerDuplicateEmailConflicts(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)
	payload := app.RecipientInput{Name: "Maya", Email: "maya@example.com", Position: "chief pilot"}

	rec := api.do(t, http.MethodPost, "/api/managers/", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/managers/", token, payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	rec := api.do(t, http.MethodPost, "/api/pilots/", token, pilotPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats app.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalPilots)
	assert.Equal(t, 1, stats.Medical.Good)
}

func TestRunRemindersEndpoint(t *testing.T) {
	api := newTestAPI(t)
	token := api.login(t)

	payload := pilotPayload()
	payload.MedicalExpiry = time.Now().AddDate(0, 0, 45)
	rec := api.do(t, http.MethodPost, "/api/pilots/", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, api.recipients.Create(context.Background(), &recipient.ManagerRecipient{
		ID: "m1", Name: "Maya", Email: "maya@example.com",
	}))

	rec = api.do(t, http.MethodPost, "/api/reminders/run", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report reminder.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 0, report.Failed)

	// One notice to the pilot, one copy to the manager.
	require.Len(t, api.mailer.Notices(), 2)

	// A second interactive trigger must not resend.
	rec = api.do(t, http.MethodPost, "/api/reminders/run", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 1, report.SkippedAlreadySent)
	assert.Len(t, api.mailer.Notices(), 2)
}
