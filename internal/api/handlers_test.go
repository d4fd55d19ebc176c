package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/tabsplit/tabsplit/internal/auth"
	"github.com/tabsplit/tabsplit/internal/metrics"
	"github.com/tabsplit/tabsplit/internal/service"
	"github.com/tabsplit/tabsplit/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "tabsplit-api-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	jwtManager := auth.NewJWTManager("test-secret-key-for-tests", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := NewRouter(
		service.NewSplitService(store, m),
		service.NewReceiptService(store, m),
		service.NewAuthService(authenticator, jwtManager, testLogger()),
		jwtManager,
		registry,
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func registerUser(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"email":    "ada@example.com",
		"name":     "Ada",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &session)
	require.NotEmpty(t, session.Token)
	return session.Token
}

func amount(value string) map[string]string {
	return map[string]string{"amount": value, "currency": "USD"}
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	token := registerUser(t, srv)
	require.NotEmpty(t, token)

	// Duplicate registration conflicts.
	resp := postJSON(t, srv.URL+"/api/v1/auth/register", "", map[string]string{
		"email": "ada@example.com", "name": "Ada", "password": "correct-horse",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Login with the right password succeeds.
	resp = postJSON(t, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Wrong password is rejected.
	resp = postJSON(t, srv.URL+"/api/v1/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestComputeSplitEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/splits/compute", "", map[string]any{
		"mode":     "equal",
		"currency": "USD",
		"participants": []map[string]any{
			{"id": "a", "name": "A"}, {"id": "b", "name": "B"}, {"id": "c", "name": "C"},
		},
		"total_amount": amount("10.00"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Summary struct {
			Participants []struct {
				Amount string `json:"amount"`
			} `json:"participants"`
		} `json:"summary"`
		Verdict struct {
			Outcome string `json:"outcome"`
		} `json:"verdict"`
	}
	decodeBody(t, resp, &result)
	require.Equal(t, "matched", result.Verdict.Outcome)
	require.Len(t, result.Summary.Participants, 3)

	var total int
	for _, p := range result.Summary.Participants {
		require.Contains(t, []string{"3.33", "3.34"}, p.Amount)
		if p.Amount == "3.34" {
			total++
		}
	}
	require.Equal(t, 1, total, "exactly one participant carries the odd cent")
}

func TestComputeSplitTokenIsOptional(t *testing.T) {
	srv := newTestServer(t)
	body := map[string]any{
		"mode":     "equal",
		"currency": "USD",
		"participants": []map[string]any{
			{"id": "a"}, {"id": "b"},
		},
		"total_amount": amount("10.00"),
	}

	// A garbage token is ignored rather than rejected.
	resp := postJSON(t, srv.URL+"/api/v1/splits/compute", "not-a-token", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// A valid token works too.
	token := registerUser(t, srv)
	resp = postJSON(t, srv.URL+"/api/v1/splits/compute", token, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestComputeSplitRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/splits/compute", "", map[string]any{
		"mode":     "percentage",
		"currency": "USD",
		"participants": []map[string]any{
			{"id": "a", "percentage": 50.0}, {"id": "b", "percentage": 19.0},
		},
		"total_amount": amount("100.00"),
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestReconcileEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/reconcile", "", map[string]any{
		"declared": amount("100.00"),
		"computed": amount("100.01"),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var verdict struct {
		Outcome string `json:"outcome"`
	}
	decodeBody(t, resp, &verdict)
	require.Equal(t, "matched", verdict.Outcome)
}

func TestSaveAndHistory(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv)

	// History requires a token.
	resp := getJSON(t, srv.URL+"/api/v1/splits", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/splits", token, map[string]any{
		"mode":     "equal",
		"currency": "USD",
		"participants": []map[string]any{
			{"id": "a", "name": "A"}, {"id": "b", "name": "B"},
		},
		"total_amount":   amount("30.00"),
		"declared_total": amount("30.00"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var saved struct {
		Record struct {
			ID      string `json:"id"`
			Matched bool   `json:"matched"`
		} `json:"record"`
	}
	decodeBody(t, resp, &saved)
	require.NotEmpty(t, saved.Record.ID)
	require.True(t, saved.Record.Matched)

	resp = getJSON(t, srv.URL+"/api/v1/splits", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &records)
	require.Len(t, records, 1)
	require.Equal(t, saved.Record.ID, records[0].ID)

	resp = getJSON(t, srv.URL+"/api/v1/splits/stats", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		SplitCount int `json:"split_count"`
	}
	decodeBody(t, resp, &stats)
	require.Equal(t, 1, stats.SplitCount)
}

func TestReceiptReviewFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv)

	resp := postJSON(t, srv.URL+"/api/v1/receipts", token, map[string]any{
		"currency":       "USD",
		"declared_total": amount("8.30"),
		"items": []map[string]any{
			{"name": "Coffee", "quantity": 1, "price": amount("4.50"), "confidence": 95},
			{"name": "Croissant", "quantity": 1, "price": amount("3.80"), "confidence": 30},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var imp struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &imp)
	require.NotEmpty(t, imp.ID)

	// Finalize trips the low-confidence gate.
	resp = postJSON(t, srv.URL+"/api/v1/receipts/"+imp.ID+"/finalize", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state struct {
		Phase        string `json:"phase"`
		Status       string `json:"status"`
		PendingCount int    `json:"pending_count"`
	}
	decodeBody(t, resp, &state)
	require.Equal(t, "awaiting_decision", state.Phase)
	require.Equal(t, "pending", state.Status)
	require.Equal(t, 1, state.PendingCount)

	// Accept anyway boosts and accepts.
	resp = postJSON(t, srv.URL+"/api/v1/receipts/"+imp.ID+"/accept", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var accepted struct {
		Status string `json:"status"`
		Items  []struct {
			Name       string `json:"name"`
			Confidence int    `json:"confidence"`
		} `json:"items"`
	}
	decodeBody(t, resp, &accepted)
	require.Equal(t, "accepted", accepted.Status)
	for _, it := range accepted.Items {
		require.GreaterOrEqual(t, it.Confidence, 50)
	}

	// Closed imports refuse further actions.
	resp = postJSON(t, srv.URL+"/api/v1/receipts/"+imp.ID+"/reject", token, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Drive one computation so a counter exists.
	postJSON(t, srv.URL+"/api/v1/splits/compute", "", map[string]any{
		"mode":     "equal",
		"currency": "USD",
		"participants": []map[string]any{
			{"id": "a"}, {"id": "b"},
		},
		"total_amount": amount("10.00"),
	}).Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
