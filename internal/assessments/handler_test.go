package assessments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"waterquality-backend/internal/shared/server/middleware"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t, nil)
	r := gin.New()
	r.Use(middleware.RequestID())
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, svc
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

type errorEnvelope struct {
	Error struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details []map[string]string `json:"details"`
	} `json:"error"`
}

func TestCreateAndGetAssessment(t *testing.T) {
	router, _ := setupRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/v1/assessments", map[string]any{
		"source":    "well-7",
		"timestamp": fixedNow.Add(-time.Hour).Format(time.RFC3339),
		"values":    map[string]float64{"ph": 4.2, "bod": 1},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created Assessment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || len(created.Recommendations) != 12 {
		t.Fatalf("unexpected assessment %+v", created)
	}
	if created.Index.Category == "" || len(created.Index.Components) != 2 {
		t.Fatalf("unexpected index %+v", created.Index)
	}

	resp = doJSON(router, http.MethodGet, "/api/v1/assessments/"+created.ID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var fetched Assessment
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fetched.ID != created.ID || fetched.Index.Score != created.Index.Score {
		t.Fatalf("fetched assessment differs: %+v", fetched)
	}
}

func TestCreateAssessmentValidation(t *testing.T) {
	router, _ := setupRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/v1/assessments", map[string]any{"source": "well-7"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var env errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "validation_error" || len(env.Error.Details) != 1 || env.Error.Details[0]["field"] != "values" {
		t.Fatalf("unexpected envelope %+v", env)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	raw := httptest.NewRecorder()
	router.ServeHTTP(raw, req)
	if raw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", raw.Code)
	}
}

func TestGetAssessmentNotFound(t *testing.T) {
	router, _ := setupRouter(t)
	resp := doJSON(router, http.MethodGet, "/api/v1/assessments/missing", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var env errorEnvelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	if env.Error.Code != "not_found" {
		t.Fatalf("unexpected code %q", env.Error.Code)
	}
}

func TestListAndTrendsRoutes(t *testing.T) {
	router, _ := setupRouter(t)
	for i, do := range []float64{7, 6, 5, 3.5} {
		resp := doJSON(router, http.MethodPost, "/api/v1/assessments", map[string]any{
			"source":    "river-2",
			"timestamp": fixedNow.AddDate(0, 0, i-4).Format(time.RFC3339),
			"values":    map[string]float64{"dissolved_oxygen": do},
		})
		if resp.Code != http.StatusCreated {
			t.Fatalf("seed %d: expected 201, got %d", i, resp.Code)
		}
	}

	resp := doJSON(router, http.MethodGet, "/api/v1/sources/river-2/assessments?limit=3", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var list struct {
		Count       int          `json:"count"`
		Assessments []Assessment `json:"assessments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Count != 3 || list.Assessments[0].Values["dissolved_oxygen"] != 3.5 {
		t.Fatalf("unexpected list %+v", list)
	}

	resp = doJSON(router, http.MethodGet, "/api/v1/sources/river-2/trends?days=30", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var report TrendReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Samples != 4 || len(report.Report.Parameters) != 1 || len(report.Advisories) == 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	for _, q := range []string{"days=abc", "days=-1", "days=4000"} {
		resp = doJSON(router, http.MethodGet, "/api/v1/sources/river-2/trends?"+q, nil)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, resp.Code)
		}
	}
}

func TestListGuidelines(t *testing.T) {
	router, svc := setupRouter(t)
	resp := doJSON(router, http.MethodGet, "/api/v1/guidelines", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Version    int                `json:"version"`
		Parameters []GuidelineSummary `json:"parameters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Version != svc.Catalog.Version() || len(body.Parameters) != len(svc.Catalog.Names()) {
		t.Fatalf("unexpected guidelines body %+v", body)
	}
}

func TestDashboardRoutes(t *testing.T) {
	router, _ := setupRouter(t)
	for i, ph := range []float64{7.2, 9.1} {
		resp := doJSON(router, http.MethodPost, "/api/v1/assessments", map[string]any{
			"source":    "plant-a",
			"timestamp": fixedNow.AddDate(0, 0, i-2).Format(time.RFC3339),
			"values":    map[string]float64{"ph": ph},
		})
		if resp.Code != http.StatusCreated {
			t.Fatalf("seed %d: expected 201, got %d", i, resp.Code)
		}
	}

	resp := doJSON(router, http.MethodGet, "/api/v1/sources/plant-a/dashboard", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var d Dashboard
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Samples != 2 || len(d.Alerts) != 1 || len(d.Recent) != 2 {
		t.Fatalf("unexpected dashboard %+v", d)
	}

	cases := []struct {
		path   string
		status int
		want   string
	}{
		{"/api/v1/sources/plant-a/parameters/pH", http.StatusOK, "ph"},
		{"/api/v1/sources/plant-a/parameters/dissolved-oxygen", http.StatusOK, "dissolved_oxygen"},
		{"/api/v1/sources/plant-a/parameters/lead", http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		resp := doJSON(router, http.MethodGet, tc.path, nil)
		if resp.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d: %s", tc.path, tc.status, resp.Code, resp.Body.String())
		}
		if tc.status != http.StatusOK {
			var env errorEnvelope
			if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if env.Error.Code != "validation_error" || env.Error.Details[0]["field"] != "parameter" {
				t.Fatalf("%s: unexpected error %+v", tc.path, env)
			}
			continue
		}
		var detail ParameterDetail
		if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if detail.Parameter != tc.want {
			t.Fatalf("%s: parameter = %q, want %q", tc.path, detail.Parameter, tc.want)
		}
	}
}
