package livehttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parlay/internal/book"
	"parlay/internal/executor"
	"parlay/internal/perf"
	"parlay/internal/psych"
	"parlay/internal/store"
	"parlay/internal/types"
	"parlay/internal/venue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRecommendation = `{
	"id": "rec-1",
	"asset": "FED-25DEC-T3.00",
	"position": "YES",
	"entryPrice": 35,
	"confidence": 80,
	"targetExit": "48-50",
	"stopLoss": 22
}`

func newTestServer(t *testing.T, mode executor.Mode) (*Server, *executor.Manager, *venue.PaperConnector) {
	t.Helper()
	conn := venue.NewPaperConnector()
	conn.SetMarketPrice("FED-25DEC-T3.00", 35)
	state := psych.NewState()
	records := store.NewMemoryRecordStore()
	exec := executor.NewManager(conn, book.New(), records, nil, state, nil, 10)
	tracker := perf.NewTracker(records, state)
	srv, err := NewServer(":0", NewRouter(exec, records, tracker, nil, mode))
	require.NoError(t, err)
	return srv, exec, conn
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w, decoded
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t, executor.ModeAuto)
	w, body := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestExecuteEndpoint(t *testing.T) {
	t.Run("auto mode opens a position", func(t *testing.T) {
		srv, exec, _ := newTestServer(t, executor.ModeAuto)
		w, body := doJSON(t, srv.Handler(), http.MethodPost, "/api/live/execute", validRecommendation)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		result := body["result"].(map[string]any)
		assert.Equal(t, "executed", result["status"])
		assert.Equal(t, float64(13), result["contracts"])
		assert.Equal(t, 1, exec.Book().Len())
	})

	t.Run("manual mode returns pending approval", func(t *testing.T) {
		srv, exec, _ := newTestServer(t, executor.ModeManual)
		w, body := doJSON(t, srv.Handler(), http.MethodPost, "/api/live/execute", validRecommendation)
		require.Equal(t, http.StatusOK, w.Code)
		result := body["result"].(map[string]any)
		assert.Equal(t, "pending_approval", result["status"])
		assert.Equal(t, 0, exec.Book().Len())
	})

	t.Run("mode query overrides the process mode", func(t *testing.T) {
		srv, exec, _ := newTestServer(t, executor.ModeManual)
		w, _ := doJSON(t, srv.Handler(), http.MethodPost, "/api/live/execute?mode=auto", validRecommendation)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, exec.Book().Len())
	})

	t.Run("schema violation rejected before execution", func(t *testing.T) {
		srv, exec, _ := newTestServer(t, executor.ModeAuto)
		bad := strings.Replace(validRecommendation, `"YES"`, `"MAYBE"`, 1)
		w, body := doJSON(t, srv.Handler(), http.MethodPost, "/api/live/execute", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body["error"], "position")
		assert.Equal(t, 0, exec.Book().Len())
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		srv, _, _ := newTestServer(t, executor.ModeAuto)
		w, _ := doJSON(t, srv.Handler(), http.MethodPost, "/api/live/execute", `{"id":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPositionEndpoints(t *testing.T) {
	srv, exec, _ := newTestServer(t, executor.ModeAuto)
	res, err := exec.Execute(context.Background(), types.Recommendation{
		ID: "rec-1", Ticker: "FED-25DEC-T3.00", Side: types.SideYes,
		EntryPrice: 35, Confidence: 50,
		TargetExit: types.TargetRange{Low: 48, High: 50}, StopLoss: 22,
	}, executor.ModeAuto)
	require.NoError(t, err)

	t.Run("list", func(t *testing.T) {
		w, body := doJSON(t, srv.Handler(), http.MethodGet, "/api/live/positions", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("detail", func(t *testing.T) {
		w, body := doJSON(t, srv.Handler(), http.MethodGet, "/api/live/positions/"+res.PositionID, "")
		require.Equal(t, http.StatusOK, w.Code)
		pos := body["position"].(map[string]any)
		assert.Equal(t, "FED-25DEC-T3.00", pos["ticker"])
		assert.Equal(t, "active", pos["status"])
	})

	t.Run("detail of unknown position", func(t *testing.T) {
		w, _ := doJSON(t, srv.Handler(), http.MethodGet, "/api/live/positions/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("partial close", func(t *testing.T) {
		w, body := doJSON(t, srv.Handler(), http.MethodPost,
			"/api/live/positions/"+res.PositionID+"/close", `{"price": 45, "contracts": 4}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := body["result"].(map[string]any)
		assert.Equal(t, "partial_exit", result["action"])
		assert.Equal(t, float64(6), result["remaining_contracts"])
	})

	t.Run("full close defaults to manual reason", func(t *testing.T) {
		w, body := doJSON(t, srv.Handler(), http.MethodPost,
			"/api/live/positions/"+res.PositionID+"/close", `{"price": 49}`)
		require.Equal(t, http.StatusOK, w.Code)
		result := body["result"].(map[string]any)
		assert.Equal(t, "exit", result["action"])
		assert.Equal(t, "manual", result["reason"])
		assert.Equal(t, 0, exec.Book().Len())
	})

	t.Run("closing again is a 404", func(t *testing.T) {
		w, _ := doJSON(t, srv.Handler(), http.MethodPost,
			"/api/live/positions/"+res.PositionID+"/close", `{"price": 49}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad price is a 400", func(t *testing.T) {
		res2, err := exec.Execute(context.Background(), types.Recommendation{
			ID: "rec-2", Ticker: "FED-25DEC-T3.00", Side: types.SideYes,
			EntryPrice: 35, Confidence: 50,
			TargetExit: types.TargetRange{Low: 48, High: 50}, StopLoss: 22,
		}, executor.ModeAuto)
		require.NoError(t, err)
		w, _ := doJSON(t, srv.Handler(), http.MethodPost,
			"/api/live/positions/"+res2.PositionID+"/close", `{"price": 120}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecordsAndMetricsEndpoints(t *testing.T) {
	srv, exec, _ := newTestServer(t, executor.ModeAuto)
	entry, err := exec.Execute(context.Background(), types.Recommendation{
		ID: "rec-1", Ticker: "FED-25DEC-T3.00", Side: types.SideYes,
		EntryPrice: 35, Confidence: 50,
		TargetExit: types.TargetRange{Low: 48, High: 50}, StopLoss: 22,
	}, executor.ModeAuto)
	require.NoError(t, err)
	_, err = exec.ExecuteExit(context.Background(), entry.PositionID, 49, "target_reached")
	require.NoError(t, err)

	t.Run("records newest first", func(t *testing.T) {
		w, body := doJSON(t, srv.Handler(), http.MethodGet, "/api/live/records?limit=10", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(2), body["count"])
		records := body["records"].([]any)
		first := records[0].(map[string]any)
		assert.Equal(t, "exit", first["action"])
	})

	t.Run("metrics reflect the closed trade", func(t *testing.T) {
		w, body := doJSON(t, srv.Handler(), http.MethodGet, "/api/live/metrics", "")
		require.Equal(t, http.StatusOK, w.Code)
		metrics := body["metrics"].(map[string]any)
		assert.Equal(t, float64(1), metrics["total_trades"])
		assert.Equal(t, float64(1), metrics["winning_trades"])
		assert.Equal(t, "1", metrics["win_rate"])
	})

	t.Run("rules endpoint without registry", func(t *testing.T) {
		w, _ := doJSON(t, srv.Handler(), http.MethodGet, "/api/live/rules", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
