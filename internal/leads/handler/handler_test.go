package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/conversion"
	"crm_backend/internal/leads/dedup"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/logger"
	"crm_backend/platform/schema"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJobs struct {
	bulkIDs  []string
	target   string
	criteria []string
}

func (s *stubJobs) EnqueueBulkConvert(_ context.Context, leadIDs []string, target string) (string, error) {
	s.bulkIDs = leadIDs
	s.target = target
	return "task-bulk", nil
}

func (s *stubJobs) EnqueueDeduplicate(_ context.Context, criteria []string) (string, error) {
	s.criteria = criteria
	return "task-dedup", nil
}

type testServer struct {
	engine *gin.Engine
	stores repository.Stores
	bus    *events.InMemoryBus
}

func newTestServer(t *testing.T, jobs JobEnqueuer) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry, err := schema.NewRegistry(domain.Schemas())
	require.NoError(t, err)

	log := logger.Discard()
	stores := repository.NewMemoryStore().Stores()
	bus := events.NewInMemoryBus(log)

	h := New(
		management.New(stores.Leads, nil),
		conversion.New(stores, registry, bus, log),
		dedup.New(stores.Leads, bus, log, []string{"email"}),
		jobs,
		validator.New(),
	)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/leads"))
	h.RegisterAccountRoutes(engine.Group("/accounts"))

	t.Cleanup(bus.Wait)
	return &testServer{engine: engine, stores: stores, bus: bus}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
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
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createLead(t *testing.T, req transport.CreateLeadRequest) domain.Lead {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/leads", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var lead domain.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	require.NotEmpty(t, lead.ID)
	return lead
}

func TestCreateLeadValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/leads", map[string]any{"firstName": "Ada", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp httpkit.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	assert.NotNil(t, resp.Details)
}

func TestConvertToContactFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	lead := srv.createLead(t, transport.CreateLeadRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Company:   "Analytical Engines",
	})

	rec := srv.do(t, http.MethodPost, "/leads/"+lead.ID+"/convert-to-contact", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp transport.ContactConversionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Lovelace", resp.Contact.LastName)
	require.NotNil(t, resp.Lead.ConvertedToContactID)
	assert.Equal(t, resp.Contact.ID, *resp.Lead.ConvertedToContactID)
	assert.True(t, resp.Lead.IsConverted)

	again := srv.do(t, http.MethodPost, "/leads/"+lead.ID+"/convert-to-contact", nil)
	assert.Equal(t, http.StatusConflict, again.Code)
}

func TestConvertUnknownLead(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/leads/missing/convert-to-account", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/leads/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConvertToAccountThenSync(t *testing.T) {
	srv := newTestServer(t, nil)
	lead := srv.createLead(t, transport.CreateLeadRequest{
		LastName: "Hopper",
		Company:  "Navy Labs",
		City:     "Arlington",
	})

	rec := srv.do(t, http.MethodPost, "/leads/"+lead.ID+"/convert-to-account", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var converted transport.AccountConversionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &converted))
	assert.Equal(t, "Arlington", converted.Account.BillingAddress.City)

	rec = srv.do(t, http.MethodPost, "/leads/"+lead.ID+"/sync-account", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var synced transport.AccountSyncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &synced))
	assert.False(t, synced.Created)
	assert.Equal(t, converted.Account.ID, synced.Account.ID)

	rec = srv.do(t, http.MethodPost, "/accounts/"+converted.Account.ID+"/reconcile-contacts", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBulkConvertToContact(t *testing.T) {
	srv := newTestServer(t, nil)
	first := srv.createLead(t, transport.CreateLeadRequest{LastName: "One"})
	second := srv.createLead(t, transport.CreateLeadRequest{LastName: "Two"})

	rec := srv.do(t, http.MethodPost, "/leads/bulk-convert-to-contact", transport.BulkConvertRequest{
		LeadIDs: []string{first.ID, second.ID},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.BulkConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.ConvertedCount)
	assert.Empty(t, resp.Failures)

	rec = srv.do(t, http.MethodPost, "/leads/bulk-convert-to-contact", transport.BulkConvertRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeduplicateEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.createLead(t, transport.CreateLeadRequest{LastName: "A", Email: "dup@example.com"})
	srv.createLead(t, transport.CreateLeadRequest{LastName: "B", Email: "DUP@example.com"})
	srv.createLead(t, transport.CreateLeadRequest{LastName: "C", Email: "other@example.com"})

	rec := srv.do(t, http.MethodPost, "/leads/deduplicate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.DeduplicateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.DuplicatesFound)
	assert.Equal(t, 2, resp.UniqueLeadsCount)
}

func TestAsyncRequestsWithoutWorker(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/leads/bulk-convert-to-account", transport.BulkConvertRequest{
		LeadIDs: []string{"a"},
		Async:   true,
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = srv.do(t, http.MethodPost, "/leads/deduplicate", transport.DeduplicateRequest{Async: true})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAsyncRequestsAreEnqueued(t *testing.T) {
	jobs := &stubJobs{}
	srv := newTestServer(t, jobs)

	rec := srv.do(t, http.MethodPost, "/leads/bulk-convert-to-account", transport.BulkConvertRequest{
		LeadIDs: []string{"a", "b"},
		Async:   true,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var accepted transport.TaskAcceptedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.Equal(t, "task-bulk", accepted.TaskID)
	assert.Equal(t, []string{"a", "b"}, jobs.bulkIDs)
	assert.Equal(t, "account", jobs.target)

	rec = srv.do(t, http.MethodPost, "/leads/deduplicate", transport.DeduplicateRequest{
		Criteria: []string{"email", "phone"},
		Async:    true,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"email", "phone"}, jobs.criteria)
}
