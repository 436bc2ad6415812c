package transfer

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"content-transfer/core/repository"
)

func setupTestApp(t *testing.T) (*fiber.App, *repository.Memory) {
	t.Helper()
	app := fiber.New()
	repo := newTestRepo(t)
	handler := NewHandler(NewService(repo, zap.NewNop(), "admin"))
	handler.RegisterRoutes(app)
	return app, repo
}

// TestHandleTransfer tests a successful batch over HTTP.
func TestHandleTransfer(t *testing.T) {
	app, repo := setupTestApp(t)

	body := `[
		{"type": "content", "content_type_identifier": "_test_article",
		 "remote_id": "http_1", "fields": {"title": "Over HTTP"},
		 "parent_locations": {"2": {"parent_location_id": 2}}},
		{"type": "language", "code": "ger-DE", "action": "skip"}
	]`
	req := httptest.NewRequest("POST", "/transfer", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var parsed struct {
		Status  string            `json:"status"`
		Objects []json.RawMessage `json:"objects"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, "committed", parsed.Status)
	require.Len(t, parsed.Objects, 2)
	assert.Equal(t, "null", string(parsed.Objects[1]))

	content, err := repo.Content().LoadContentByRemoteID(req.Context(), "http_1")
	require.NoError(t, err)
	assert.Equal(t, "Over HTTP", content.Fields["title"]["eng-GB"])
}

// TestHandleTransferBadPayload tests that malformed batches come back as 400
// without repository effects.
func TestHandleTransferBadPayload(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/transfer", strings.NewReader(`{"not": "a batch"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

// TestHandleTransferRollback tests that a failing batch reports an error and
// leaves the repository unchanged.
func TestHandleTransferRollback(t *testing.T) {
	app, repo := setupTestApp(t)

	body := `[
		{"type": "content", "content_type_identifier": "_test_article",
		 "remote_id": "ok_1", "fields": {"title": "Fine"}},
		{"type": "content", "content_type_identifier": "no_such_type",
		 "remote_id": "broken_1", "fields": {"title": "Boom"}}
	]`
	req := httptest.NewRequest("POST", "/transfer", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	_, err = repo.Content().LoadContentByRemoteID(req.Context(), "ok_1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
