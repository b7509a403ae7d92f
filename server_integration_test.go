package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	initDB()
	tmp := t.TempDir()
	_ = os.Setenv("UPLOAD_BASE", tmp)
	seedDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	username := fmt.Sprintf("parent-%d", time.Now().UnixNano())

	// 1. Register parent
	regBody, _ := json.Marshal(map[string]string{"username": username, "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": username, "password": "pass123"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Create child
	childBody, _ := json.Marshal(map[string]string{"name": "Amira", "date_of_birth": "2018-04-02"})
	resp = performRequest(r, http.MethodPost, "/children", bytes.NewBuffer(childBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create child failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var child map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &child)
	childID := fmt.Sprintf("%.0f", child["ID"].(float64))

	// 4. Set investment portfolio: growth class, 20% allocation
	invBody, _ := json.Marshal(map[string]any{"class": "growth", "allocation_percent": 20})
	resp = performRequest(r, http.MethodPost, "/children/"+childID+"/investment", bytes.NewBuffer(invBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("set investment failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Set goal with explicit monthly contribution
	targetDate := time.Now().AddDate(2, 0, 0).Format("2006-01-02")
	goalBody, _ := json.Marshal(map[string]any{
		"goal_type":            "university",
		"target_amount":        "5000",
		"target_date":          targetDate,
		"monthly_contribution": "100.00",
	})
	resp = performRequest(r, http.MethodPost, "/children/"+childID+"/goal", bytes.NewBuffer(goalBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("set goal failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Manual contribution is split 80/20 against the allocation
	contribBody, _ := json.Marshal(map[string]any{"amount": "50.00"})
	resp = performRequest(r, http.MethodPost, "/children/"+childID+"/contribute", bytes.NewBuffer(contribBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("contribute failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 7. Non-positive contribution is rejected
	badContrib, _ := json.Marshal(map[string]any{"amount": "0"})
	resp = performRequest(r, http.MethodPost, "/children/"+childID+"/contribute", bytes.NewBuffer(badContrib), token, "application/json")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero contribution got %d body=%s", resp.Code, resp.Body.String())
	}

	// 8. Fund directive round trip
	dirBody, _ := json.Marshal(map[string]string{"guardian_name": "Uncle Omar", "instructions": "university first"})
	resp = performRequest(r, http.MethodPost, "/children/"+childID+"/directive", bytes.NewBuffer(dirBody), token, "application/json")
	if resp.Code != 200 {
		t.Fatalf("set directive failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/children/"+childID+"/directive", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("get directive failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 9. Child detail includes goal schedule figures
	resp = performRequest(r, http.MethodGet, "/children/"+childID, nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("child detail failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var detail map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &detail)
	if _, ok := detail["months_remaining"]; !ok {
		t.Fatalf("detail missing months_remaining: %s", resp.Body.String())
	}

	// 10. Run the monthly simulation
	resp = performRequest(r, http.MethodPost, "/simulate/monthly", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("simulate failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var sim map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &sim)
	if n, _ := sim["goals_processed"].(float64); n != 1 {
		t.Fatalf("goals_processed = %v, want 1", sim["goals_processed"])
	}

	// 11. Dashboard aggregates the family
	resp = performRequest(r, http.MethodGet, "/dashboard", nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("dashboard failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 12. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/children", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list children got %d", unauth.Code)
	}

	// 13. Delete child cascades
	resp = performRequest(r, http.MethodDelete, "/children/"+childID, nil, token, "")
	if resp.Code != 200 {
		t.Fatalf("delete child failed status=%d body=%s", resp.Code, resp.Body.String())
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
