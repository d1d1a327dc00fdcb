package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shootflow/shootflow/internal/agent"
	"github.com/shootflow/shootflow/internal/automation"
	"github.com/shootflow/shootflow/internal/core"
	"github.com/shootflow/shootflow/internal/engine"
	"github.com/shootflow/shootflow/internal/intelligence"
	"github.com/shootflow/shootflow/internal/skills"
	"github.com/shootflow/shootflow/internal/storage"
)

// testServer builds a server over an in-memory database.
func testServer(t *testing.T) *Server {
	t.Helper()

	db, err := storage.Open(storage.Config{InMemory: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	scorer := engine.NewQualityScorer(engine.DefaultQualityConfig())
	matcher := engine.NewMatcher(engine.DefaultAssignmentConfig())
	planner := engine.NewPlanner(engine.DefaultBatchingConfig())
	scanner := intelligence.NewRiskScanner(
		skills.NewLogistics(planner, skills.DefaultLogisticsConfig()),
		skills.NewEvents(),
		scorer,
		matcher,
		intelligence.DefaultConfig(),
	)

	return New(Config{
		Host:         "localhost",
		Port:         0,
		Assistant:    agent.NewDefaultRouter(),
		Orchestrator: automation.New(scorer, matcher, planner, scanner, automation.DefaultConfig()),
		Scanner:      scanner,
		DB:           db,
	})
}

func postJSON(t *testing.T, srv *Server, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	return rr
}

func getJSON(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	return rr
}

func TestAPI_AssistantMessage(t *testing.T) {
	srv := testServer(t)

	rr := postJSON(t, srv, "/api/v1/assistant/message", MessageRequest{
		Text: "what's blocking my shoot",
		Snapshot: core.AssistantContext{
			CurrentKit: core.KitLogistics,
			Samples: []core.SampleItem{
				{ID: "s1", Name: "Silk blouse", IsHero: true, Status: core.SampleAwaiting},
			},
		},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp core.AssistantResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Intent != core.IntentLogistics {
		t.Errorf("Intent = %q, want logistics", resp.Intent)
	}
	if resp.Content == "" {
		t.Error("response content should not be empty")
	}

	// The exchange must land in the conversation log.
	lr := getJSON(t, srv, "/api/v1/assistant/conversations")
	if lr.Code != http.StatusOK {
		t.Fatalf("conversations status = %d", lr.Code)
	}
	var exchanges []storage.Exchange
	if err := json.Unmarshal(lr.Body.Bytes(), &exchanges); err != nil {
		t.Fatalf("decode conversations: %v", err)
	}
	if len(exchanges) != 1 || exchanges[0].Intent != core.IntentLogistics {
		t.Errorf("unexpected conversation log: %+v", exchanges)
	}
}

func TestAPI_AssistantMessage_BadRequests(t *testing.T) {
	srv := testServer(t)

	rr := postJSON(t, srv, "/api/v1/assistant/message", MessageRequest{Text: "   "})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank text status = %d, want 400", rr.Code)
	}

	req := httptest.NewRequest("POST", "/api/v1/assistant/message", bytes.NewReader([]byte("{oops")))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON status = %d, want 400", rec.Code)
	}
}

func TestAPI_Actions(t *testing.T) {
	srv := testServer(t)

	rr := getJSON(t, srv, "/api/v1/actions")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}

	rr = getJSON(t, srv, "/api/v1/actions/open_media")
	if rr.Code != http.StatusOK {
		t.Fatalf("resolve status = %d", rr.Code)
	}
	var target map[string]interface{}
	json.Unmarshal(rr.Body.Bytes(), &target)
	if target["route"] == "" {
		t.Error("resolved action should carry a route")
	}

	rr = getJSON(t, srv, "/api/v1/actions/launch_rockets")
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown action status = %d, want 404", rr.Code)
	}
}

func TestAPI_RunTrigger(t *testing.T) {
	srv := testServer(t)

	snapshot := core.AssistantContext{
		Assets: []core.Asset{
			{ID: "a1", Width: 6000, Height: 4000, Format: "raw", FileSize: 30 << 20},
		},
	}

	rr := postJSON(t, srv, "/api/v1/automation/trigger/asset_uploaded", snapshot)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var report automation.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Trigger != automation.TriggerAssetUploaded || report.Succeeded != 1 {
		t.Errorf("unexpected report: %+v", report)
	}

	// History should come from the run store.
	hr := getJSON(t, srv, "/api/v1/automation/history?limit=5")
	if hr.Code != http.StatusOK {
		t.Fatalf("history status = %d", hr.Code)
	}
	var runs []storage.StoredRun
	if err := json.Unmarshal(hr.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected one stored run, got %d", len(runs))
	}
}

func TestAPI_RunTrigger_Unknown(t *testing.T) {
	srv := testServer(t)

	rr := postJSON(t, srv, "/api/v1/automation/trigger/full_moon", core.AssistantContext{})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestAPI_RiskScan(t *testing.T) {
	srv := testServer(t)

	snapshot := core.AssistantContext{
		Samples: []core.SampleItem{
			{ID: "s1", Name: "Hero coat", IsHero: true, Status: core.SampleAwaiting},
		},
	}

	rr := postJSON(t, srv, "/api/v1/risk/scan", snapshot)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var report intelligence.ScanReport
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Risks) == 0 {
		t.Error("hero sample awaiting should produce at least one risk")
	}
}

func TestAPI_Insights(t *testing.T) {
	srv := testServer(t)

	postJSON(t, srv, "/api/v1/automation/trigger/scheduled_daily", core.AssistantContext{})

	rr := getJSON(t, srv, "/api/v1/automation/insights")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode insights: %v", err)
	}
	if _, ok := resp["memory"]; !ok {
		t.Error("insights should include the in-memory summary")
	}
	if _, ok := resp["stored_runs_by_trigger"]; !ok {
		t.Error("insights should include stored run counts")
	}
}

func TestAPI_Status(t *testing.T) {
	srv := testServer(t)

	rr := getJSON(t, srv, "/api/v1/status")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp map[string]interface{}
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("status field = %v", resp["status"])
	}
}

func TestWebSocketHub_RunAndBroadcast(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()
	defer hub.Close()

	// No clients connected; broadcast must not block or panic.
	hub.Broadcast(WebSocketMessage{Type: "automation_report", Data: "x"})
}
