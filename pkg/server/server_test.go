package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/yurifrl/pldash/pkg/config"
	"github.com/yurifrl/pldash/pkg/manifest"
	"github.com/yurifrl/pldash/pkg/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"2025_a.csv":    "대분류,중분류,소분류,25년1월\nTAG매출,국내,온라인,100\n매출원가,온라인,,40\nTAG대비 원가율,온라인,,1%\n",
		"2026_a.csv":    "대분류,중분류,소분류,26년1월\nTAG매출,국내,온라인,200\n매출원가,온라인,,50\nTAG대비 원가율,온라인,,1%\n",
		"2026_bad.csv":  "대분류,중분류\n",
		"manifest.yaml": "periods: [\"2025\", \"2026\"]\nentities: [a, bad]\npattern: \"{period}_{entity}.csv\"\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	cfg, err := config.Build("", nil)
	if err != nil {
		t.Fatalf("config.Build failed: %v", err)
	}
	m, err := manifest.Load(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		t.Fatalf("manifest.Load failed: %v", err)
	}
	return New(service.NewProcessor(cfg, log.Default(), m), log.Default())
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSources(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/pl/sources")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	body := decode(t, rec)
	sources, ok := body["sources"].([]any)
	if !ok || len(sources) != 4 {
		t.Fatalf("expected 4 sources, got %v", body["sources"])
	}
	first := sources[0].(map[string]any)
	if first["period"] != "2025" || first["entity"] != "a" || first["file"] != "2025_a.csv" {
		t.Errorf("unexpected first source: %v", first)
	}
}

func TestTree(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/pl/tree?period=2026&entity=a")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	body := decode(t, rec)
	roots, ok := body["tree"].([]any)
	if !ok || len(roots) != 3 {
		t.Fatalf("unexpected tree: %v", body["tree"])
	}
	first := roots[0].(map[string]any)
	if first["label"] != "TAG매출" || first["key"] != "L1|TAG매출" {
		t.Errorf("unexpected first root: %v", first)
	}

	ratio := roots[2].(map[string]any)["children"].([]any)[0].(map[string]any)
	record := ratio["records"].([]any)[0].(map[string]any)
	if got := record["monthlyValues"].(map[string]any)["1"]; got != 25.0 {
		t.Errorf("served ratio = %v, want recalculated 25", got)
	}
}

func TestCompare(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/pl/compare?prior_period=2025&prior_entity=a&period=2026&entity=a&month=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	body := decode(t, rec)
	rows := body["rows"].([]any)

	var ratio map[string]any
	for _, r := range rows {
		row := r.(map[string]any)
		if row["key"] == "L2|TAG대비 원가율|온라인" {
			ratio = row
		}
	}
	if ratio == nil {
		t.Fatalf("ratio row missing: %v", rows)
	}
	cols := ratio["columns"].(map[string]any)
	if cols["priorMonth"] != 40.0 || cols["currMonth"] != 25.0 {
		t.Errorf("unexpected ratio columns: %v", cols)
	}
}

func TestCompareCSV(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/pl/compare.csv?prior_period=2025&prior_entity=a&period=2026&entity=a&month=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "pl-2025-a-vs-2026-a-m01.csv") {
		t.Errorf("unexpected Content-Disposition %q", rec.Header().Get("Content-Disposition"))
	}
	if !strings.HasPrefix(rec.Body.String(), "Key,Label,Depth") {
		t.Errorf("unexpected csv body: %s", rec.Body)
	}
}

func TestErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing entity", "/api/pl/tree?period=2026", http.StatusBadRequest},
		{"unknown period", "/api/pl/tree?period=1999&entity=a", http.StatusBadRequest},
		{"unknown entity", "/api/pl/tree?period=2026&entity=z", http.StatusBadRequest},
		{"parse failure", "/api/pl/tree?period=2026&entity=bad", http.StatusUnprocessableEntity},
		{"month out of range", "/api/pl/compare?prior_period=2025&prior_entity=a&period=2026&entity=a&month=13", http.StatusBadRequest},
		{"month not a number", "/api/pl/compare?prior_period=2025&prior_entity=a&period=2026&entity=a&month=x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tt.status, rec.Body)
			}
			body := decode(t, rec)
			if body["status"] != "error" || body["error"] == "" {
				t.Errorf("unexpected error body: %v", body)
			}
		})
	}
}
