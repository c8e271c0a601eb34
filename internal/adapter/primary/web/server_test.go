package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiostore/internal/adapter/secondary/storage"
	"radiostore/internal/board"
	"radiostore/internal/domain"
	"radiostore/internal/usecase"
)

type memoryPrefs struct {
	prefs domain.Preferences
}

func (m *memoryPrefs) Load() (domain.Preferences, error) { return m.prefs, nil }

func (m *memoryPrefs) Save(p domain.Preferences) error {
	m.prefs = p
	return nil
}

func newTestServer(t *testing.T) (http.Handler, *memoryPrefs) {
	t.Helper()
	repo := &memoryPrefs{prefs: domain.Preferences{Board: domain.BoardTX16S, Firmware: domain.FirmwareEdgeTX27}}
	mem := storage.NewMemoryMedium()
	mem.Put("foo.yml", []byte("header: {name: Foo}"))
	mem.Put("radio.yml", []byte("board: tx16s"))

	uc, err := usecase.NewSessionUseCase(repo, mem, board.NewRegistry(), usecase.Override{})
	require.NoError(t, err)
	return NewServer(uc, board.NewRegistry(), "127.0.0.1:0").Handler(), repo
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestLoadEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	rec, body := do(t, h, http.MethodPost, "/api/load", `{"path":"foo.yml"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	outcome := body["outcome"].(map[string]any)
	assert.Equal(t, "warning", outcome["status"])
	assert.Contains(t, outcome["message"], "foo.yml")

	radio := body["radio"].(map[string]any)
	models := radio["models"].([]any)
	require.Len(t, models, 1)
	assert.Equal(t, "Foo", models[0].(map[string]any)["name"])
	assert.Equal(t, []any{"New category"}, radio["categories"])
}

func TestLoadEndpointErrors(t *testing.T) {
	h, _ := newTestServer(t)

	rec, body := do(t, h, http.MethodPost, "/api/load", `{"path":"radio.yml"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	outcome := body["outcome"].(map[string]any)
	assert.Equal(t, "error", outcome["status"])
	assert.Contains(t, outcome["message"], "unsupported")

	rec, _ = do(t, h, http.MethodPost, "/api/load", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/api/load", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWriteEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	rec, body := do(t, h, http.MethodPost, "/api/write", `{"path":"/sdcard"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	outcome := body["outcome"].(map[string]any)
	assert.Contains(t, outcome["message"], "not implemented")
	assert.NotContains(t, body, "radio")
}

func TestSessionEndpoint(t *testing.T) {
	h, _ := newTestServer(t)
	do(t, h, http.MethodPost, "/api/load", `{"path":"foo.yml"}`)

	rec, body := do(t, h, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["models"], 1)
	assert.Equal(t, "foo.yml", body["currModelFilename"])

	_, body = do(t, h, http.MethodDelete, "/api/session", "")
	assert.Empty(t, body["models"])
}

func TestBoardsEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	rec, body := do(t, h, http.MethodGet, "/api/boards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tx16s/edgetx-2.7", body["current"])
	assert.Len(t, body["boards"], len(board.Boards()))

	rec, _ = do(t, h, http.MethodGet, "/api/boards?firmware=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigEndpoint(t *testing.T) {
	h, repo := newTestServer(t)

	rec, body := do(t, h, http.MethodPut, "/api/config", `{"board":"x9d","firmware":"opentx-2.3"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "x9d", body["board"])
	assert.Equal(t, domain.BoardX9D, repo.prefs.Board)

	rec, _ = do(t, h, http.MethodPut, "/api/config", `{"board":"x99","firmware":"opentx-2.3"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, body = do(t, h, http.MethodGet, "/api/config", "")
	assert.Equal(t, "opentx-2.3", body["firmware"])
}
