// AngelaMos | 2026
// handler_test.go

package contact

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
	"github.com/carterperez-dev/saasify-contacts/internal/middleware"
)

// asPrincipal stands in for the authenticator, trusting an X-Test-Tenant
// header so tests can switch callers.
func asPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := acmeUser
		if r.Header.Get("X-Test-Tenant") == "globex" {
			p = globexUser
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithPrincipal(r.Context(), p)))
	})
}

func newTestHandlerRouter() chi.Router {
	svc, _ := newTestContactService()
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, asPrincipal)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.ErrorBody `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, tenant string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tenant != "" {
		req.Header.Set("X-Test-Tenant", tenant)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestHandler_CreateAndFetch(t *testing.T) {
	router := newTestHandlerRouter()

	status, env := do(t, router, http.MethodPost, "/contacts", "", map[string]any{
		"name":    "Bob",
		"email":   "bob@x.io",
		"phone":   "+15551234567",
		"address": map[string]string{"city": " Springfield "},
		"tags":    []string{"vip"},
	})
	require.Equal(t, http.StatusCreated, status)

	var created ContactEnvelope
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotNil(t, created.Contact)
	assert.Equal(t, "Contact created successfully", created.Message)
	assert.Equal(t, "Springfield", created.Contact.Address.City)

	id := created.Contact.ID

	status, _ = do(t, router, http.MethodGet, "/contacts/"+id, "", nil)
	assert.Equal(t, http.StatusOK, status)

	missingStatus, missing := do(t, router, http.MethodGet, "/contacts/"+id, "globex", nil)
	neverStatus, never := do(t, router, http.MethodGet, "/contacts/00000000-0000-4000-8000-000000000000", "globex", nil)
	badStatus, bad := do(t, router, http.MethodGet, "/contacts/not-an-id", "globex", nil)

	for _, s := range []int{missingStatus, neverStatus, badStatus} {
		assert.Equal(t, http.StatusNotFound, s)
	}
	assert.Equal(t, missing.Error, never.Error)
	assert.Equal(t, missing.Error, bad.Error)
}

func TestHandler_Validation(t *testing.T) {
	router := newTestHandlerRouter()

	tests := []struct {
		name string
		body map[string]any
	}{
		{"short name", map[string]any{"name": " B ", "email": "b@x.io", "phone": "+15551234567"}},
		{"bad email", map[string]any{"name": "Bob", "email": "nope", "phone": "+15551234567"}},
		{"bad phone", map[string]any{"name": "Bob", "email": "b@x.io", "phone": "call me"}},
		{"long tag", map[string]any{"name": "Bob", "email": "b@x.io", "phone": "+15551234567", "tags": []string{"abcdefghijklmnopqrstuvwxyz"}}},
		{"long notes", map[string]any{"name": "Bob", "email": "b@x.io", "phone": "+15551234567", "notes": string(make([]byte, 501))}},
		{"phone too short", map[string]any{"name": "Bob", "email": "b@x.io", "phone": "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, router, http.MethodPost, "/contacts", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		})
	}
}

func TestHandler_UpdateAcceptsFetchedContact(t *testing.T) {
	router := newTestHandlerRouter()

	status, env := do(t, router, http.MethodPost, "/contacts", "", map[string]any{
		"name":    "Bob",
		"email":   "bob@x.io",
		"phone":   "555-123-4567",
		"company": "Initech",
		"notes":   "met at the conference",
		"tags":    []string{"vip"},
		"_id":     "ignored",
	})
	require.Equal(t, http.StatusCreated, status)

	var created ContactEnvelope
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotNil(t, created.Contact)
	assert.Equal(t, acmeUser.TenantID, created.Contact.TenantID)

	fetched := *created.Contact
	fetched.Name = "Robert"
	fetched.TenantID = globexUser.TenantID

	status, env = do(t, router, http.MethodPut, "/contacts/"+fetched.ID, "", fetched)
	require.Equal(t, http.StatusOK, status)

	var updated ContactEnvelope
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Robert", updated.Contact.Name)
	assert.Equal(t, acmeUser.TenantID, updated.Contact.TenantID)

	status, env = do(t, router, http.MethodPut, "/contacts/"+fetched.ID, "", map[string]any{
		"name":  "Robert",
		"email": "bob@x.io",
		"phone": "+15551234567",
	})
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Initech", updated.Contact.Company)
	assert.Equal(t, "met at the conference", updated.Contact.Notes)
	assert.Equal(t, []string{"vip"}, updated.Contact.Tags)
}

func TestHandler_DuplicateAndDelete(t *testing.T) {
	router := newTestHandlerRouter()
	body := map[string]any{"name": "Bob", "email": "bob@x.io", "phone": "+15551234567"}

	status, env := do(t, router, http.MethodPost, "/contacts", "", body)
	require.Equal(t, http.StatusCreated, status)

	var created ContactEnvelope
	require.NoError(t, json.Unmarshal(env.Data, &created))

	status, env = do(t, router, http.MethodPost, "/contacts", "", body)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE", env.Error.Code)

	status, _ = do(t, router, http.MethodDelete, "/contacts/"+created.Contact.ID, "globex", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, router, http.MethodDelete, "/contacts/"+created.Contact.ID, "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, router, http.MethodDelete, "/contacts/"+created.Contact.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = do(t, router, http.MethodGet, "/contacts/stats", "", nil)
	require.Equal(t, http.StatusOK, status)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 0, stats.Stats.TotalContacts)
	assert.NotNil(t, stats.Stats.TopCompanies)
}

func TestHandler_ListShape(t *testing.T) {
	router := newTestHandlerRouter()

	status, env := do(t, router, http.MethodGet, "/contacts?page=abc&limit=5", "", nil)
	require.Equal(t, http.StatusOK, status)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	assert.JSONEq(t, `[]`, string(raw["contacts"]))
	assert.JSONEq(t,
		`{"currentPage":1,"totalPages":0,"totalContacts":0,"hasNext":false,"hasPrev":false}`,
		string(raw["pagination"]),
	)
}
