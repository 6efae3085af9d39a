package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"keepsake-backend/application/services"
	"keepsake-backend/infrastructure/config"
	"keepsake-backend/infrastructure/persistence/jsonfile"
	"keepsake-backend/pkg/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServerAddress:        ":0",
		Environment:          "development",
		DataFilePath:         filepath.Join(t.TempDir(), "memories.json"),
		LogLevel:             "info",
		EnableCORS:           false,
		EnableMetrics:        false,
		InteractionRateLimit: 1000,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	store := jsonfile.New(cfg.DataFilePath, logger)
	metrics := observability.NewCollector("test")
	service := services.NewScrapbookService(store, metrics, logger)
	return NewRouter(cfg, service, metrics, logger).Setup()
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp),
		"body: %s", rec.Body.String())
	return rec, resp
}

func TestGetMemories_ReturnsFullDocument(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	rec, resp := doJSON(t, handler, http.MethodGet, "/api/memories", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &doc))
	assert.Contains(t, doc, "created_date")
	assert.Contains(t, doc, "sections")
	assert.Contains(t, doc, "visitor_interactions")
	assert.Contains(t, doc, "theme")
}

func TestAddMoment_IDIsPriorCountPlusOne(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	for want := 1; want <= 3; want++ {
		rec, resp := doJSON(t, handler, http.MethodPost, "/api/moments",
			fmt.Sprintf(`{"title":"Moment %d","description":"desc"}`, want))
		require.Equal(t, http.StatusCreated, rec.Code)

		var moment struct {
			ID    int    `json:"id"`
			Emoji string `json:"emoji"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &moment))
		assert.Equal(t, want, moment.ID)
		assert.Equal(t, "💕", moment.Emoji)
	}

	rec, resp := doJSON(t, handler, http.MethodGet, "/api/moments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var moments []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &moments))
	require.Len(t, moments, 3)
	assert.Equal(t, "Moment 3", moments[2].Title)
}

func TestAddMoment_MissingFieldsRejectedWithoutMutation(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	for _, body := range []string{`{}`, `{"title":"only title"}`, `{"description":"only desc"}`, `not json`} {
		rec, resp := doJSON(t, handler, http.MethodPost, "/api/moments", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.False(t, resp.Success)
		assert.Equal(t, "Missing required fields", resp.Message)
	}

	_, resp := doJSON(t, handler, http.MethodGet, "/api/moments", "")
	var moments []json.RawMessage
	require.NoError(t, json.Unmarshal(resp.Data, &moments))
	assert.Empty(t, moments)
}

func TestRequiredFields_EmptyStringsAccepted(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	// Keys must be present, but their values may be empty.
	rec, resp := doJSON(t, handler, http.MethodPut, "/api/story", `{"content":""}`)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "Story updated successfully", resp.Message)

	rec, resp = doJSON(t, handler, http.MethodGet, "/api/story", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var story struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &story))
	assert.Equal(t, "", story.Content)

	rec, resp = doJSON(t, handler, http.MethodPost, "/api/moments", `{"title":"","description":""}`)
	assert.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var moment struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &moment))
	assert.Equal(t, 1, moment.ID)
	assert.Equal(t, "", moment.Title)

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/adoration", `{"label":"","description":""}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/interactions", `{"type":""}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAddAdoration_MissingFieldsRejected(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	rec, resp := doJSON(t, handler, http.MethodPost, "/api/adoration", `{"label":"no description"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", resp.Message)

	rec, resp = doJSON(t, handler, http.MethodPost, "/api/adoration",
		`{"label":"Your laugh","description":"It fills the whole room"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	var item struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	assert.Equal(t, 1, item.ID)
}

func TestStory_PutThenGetRoundTrips(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	rec, resp := doJSON(t, handler, http.MethodPut, "/api/story", `{"content":"X"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Story updated successfully", resp.Message)

	rec, resp = doJSON(t, handler, http.MethodGet, "/api/story", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var story struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &story))
	assert.Equal(t, "X", story.Content)

	rec, resp = doJSON(t, handler, http.MethodPut, "/api/story", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Content is required", resp.Message)
}

func TestSurprise_ContentReturnedDespiteLock(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	rec, resp := doJSON(t, handler, http.MethodPut, "/api/surprise", `{"content":"Look behind you"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Surprise updated successfully", resp.Message)

	rec, resp = doJSON(t, handler, http.MethodGet, "/api/surprise", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var surprise struct {
		Content  string `json:"content"`
		IsLocked bool   `json:"is_locked"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &surprise))
	assert.True(t, surprise.IsLocked)
	assert.Equal(t, "Look behind you", surprise.Content)
}

func TestInteractionsAndAnalytics(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	rec, resp := doJSON(t, handler, http.MethodPost, "/api/interactions", `{"data":{"x":1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Interaction type is required", resp.Message)

	for i := 0; i < 3; i++ {
		rec, _ = doJSON(t, handler, http.MethodPost, "/api/interactions", `{"type":"page_view"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec, _ = doJSON(t, handler, http.MethodPost, "/api/interactions",
		`{"type":"scroll_to_end","data":{"complete":true}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp = doJSON(t, handler, http.MethodGet, "/api/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var analytics struct {
		TotalInteractions  int            `json:"total_interactions"`
		InteractionsByType map[string]int `json:"interactions_by_type"`
		LastInteraction    *struct {
			Type string `json:"type"`
		} `json:"last_interaction"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &analytics))
	assert.Equal(t, 4, analytics.TotalInteractions)
	assert.Equal(t, 3, analytics.InteractionsByType["page_view"])
	assert.Equal(t, 1, analytics.InteractionsByType["scroll_to_end"])
	require.NotNil(t, analytics.LastInteraction)
	assert.Equal(t, "scroll_to_end", analytics.LastInteraction.Type)
}

func TestTheme_ShallowMergeKeepsOtherRoles(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	rec, resp := doJSON(t, handler, http.MethodPut, "/api/theme", `{"primary_color":"#000000"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var theme map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &theme))
	assert.Equal(t, "#000000", theme["primary_color"])
	assert.Equal(t, "#F5D5D9", theme["secondary_color"])
	assert.Equal(t, "#D4A5A5", theme["accent_color"])

	// Empty patch is a no-op returning the current theme.
	rec, resp = doJSON(t, handler, http.MethodPut, "/api/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &theme))
	assert.Equal(t, "#000000", theme["primary_color"])
}

func TestUnmatchedRoute_Returns404Envelope(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	rec, resp := doJSON(t, handler, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Resource not found", resp.Message)

	rec, resp = doJSON(t, handler, http.MethodDelete, "/api/story", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", resp.Message)
}

func TestEditorAuth_GatesMutatingRoutes(t *testing.T) {
	cfg := testConfig(t)
	cfg.EditorJWTSecret = "test-secret"
	cfg.JWTIssuer = "keepsake-backend"
	handler := newTestRouter(t, cfg)

	// Reads stay open.
	rec, _ := doJSON(t, handler, http.MethodGet, "/api/memories", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp := doJSON(t, handler, http.MethodPut, "/api/story", `{"content":"X"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing authorization header", resp.Message)

	rec, resp = doJSON(t, handler, http.MethodPut, "/api/story", `{"content":"X"}`,
		"Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", resp.Message)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    cfg.JWTIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(cfg.EditorJWTSecret))
	require.NoError(t, err)

	rec, resp = doJSON(t, handler, http.MethodPut, "/api/story", `{"content":"X"}`,
		"Authorization", "Bearer "+signed)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Story updated successfully", resp.Message)
}

func TestInteractionRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.InteractionRateLimit = 2
	handler := newTestRouter(t, cfg)

	for i := 0; i < 2; i++ {
		rec, _ := doJSON(t, handler, http.MethodPost, "/api/interactions", `{"type":"page_view"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, resp := doJSON(t, handler, http.MethodPost, "/api/interactions", `{"type":"page_view"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", resp.Message)
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testConfig(t)
	cfg.EnableMetrics = true
	handler := newTestRouter(t, cfg)

	_, _ = doJSON(t, handler, http.MethodGet, "/api/memories", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}

func TestRestart_ServesIdenticalDocument(t *testing.T) {
	cfg := testConfig(t)
	handler := newTestRouter(t, cfg)

	_, _ = doJSON(t, handler, http.MethodPost, "/api/moments",
		`{"title":"Picnic","description":"Under the old oak","emoji":"🌳"}`)
	_, _ = doJSON(t, handler, http.MethodPut, "/api/theme", `{"primary_color":"#000000"}`)

	_, before := doJSON(t, handler, http.MethodGet, "/api/memories", "")

	// Second router over the same file simulates a restart.
	restarted := newTestRouter(t, cfg)
	_, after := doJSON(t, restarted, http.MethodGet, "/api/memories", "")

	assert.JSONEq(t, string(before.Data), string(after.Data))
}
