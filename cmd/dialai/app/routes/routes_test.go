package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/VARUN1128/Dial-AI/cmd/dialai/internal/services"
	"github.com/VARUN1128/Dial-AI/pkg/ai"
	"github.com/VARUN1128/Dial-AI/pkg/calllog"
	"github.com/VARUN1128/Dial-AI/pkg/govoice"
)

type fakeDialer struct {
	verified []string
	fail     bool
	dialed   []string
}

func (f *fakeDialer) Dial(ctx context.Context, call govoice.Call) govoice.Result {
	f.dialed = append(f.dialed, call.To)
	if f.fail {
		return govoice.Result{To: call.To, Status: "failed", Err: "provider rejected the call"}
	}
	return govoice.Result{To: call.To, Success: true, SID: "CA123", Status: "queued"}
}

func (f *fakeDialer) VerifiedNumbers(ctx context.Context) ([]string, error) {
	return f.verified, nil
}

func newTestRouter(t *testing.T, dialer govoice.Dialer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := calllog.NewFileStore(filepath.Join(t.TempDir(), "calls.json"))
	log := zap.NewNop()
	svc := services.NewCallService(dialer, store, "twilio", nil, log)
	interp := ai.NewParser(nil, log)

	router := gin.New()
	Calls(router, svc, interp, log)
	API(router.Group("/api"), svc, interp, log)
	return router
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInitiateCalls(t *testing.T) {
	dialer := &fakeDialer{}
	router := newTestRouter(t, dialer)

	w := postForm(router, "/call", url.Values{"numbers": {"4567890123, 9876543210"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Success bool              `json:"success"`
		Total   int               `json:"total"`
		Results []calllog.Attempt `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Total != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	want := []string{"+14567890123", "+919876543210"}
	for i, number := range want {
		if resp.Results[i].Number != number {
			t.Errorf("results[%d].Number = %q, want %q", i, resp.Results[i].Number, number)
		}
		if !resp.Results[i].Success {
			t.Errorf("results[%d] not successful", i)
		}
	}
	if len(dialer.dialed) != 2 {
		t.Errorf("dialed %d numbers, want 2", len(dialer.dialed))
	}
}

func TestInitiateCallsNoNumbers(t *testing.T) {
	router := newTestRouter(t, &fakeDialer{})

	w := postForm(router, "/call", url.Values{"numbers": {"123, abc"}})
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["success"] != false {
		t.Fatalf("resp = %v", resp)
	}
	if resp["error"] != "No valid phone numbers provided" {
		t.Errorf("error = %v", resp["error"])
	}
}

func TestInitiateCallsFromFile(t *testing.T) {
	dialer := &fakeDialer{}
	router := newTestRouter(t, dialer)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "numbers.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("123, 4567890123\n+442071838750"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/call", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		Success bool              `json:"success"`
		Total   int               `json:"total"`
		Results []calllog.Attempt `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2", resp.Total)
	}
	want := []string{"+14567890123", "+442071838750"}
	for i, number := range want {
		if resp.Results[i].Number != number {
			t.Errorf("results[%d].Number = %q, want %q", i, resp.Results[i].Number, number)
		}
	}
}

func TestAICommandSingle(t *testing.T) {
	dialer := &fakeDialer{}
	router := newTestRouter(t, dialer)

	w := postForm(router, "/ai-command", url.Values{"command": {"Call 9876543210 now"}})
	var resp struct {
		Success bool            `json:"success"`
		Action  string          `json:"action"`
		Result  calllog.Attempt `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Action != "call_single" {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Result.Number != "9876543210" {
		t.Errorf("Number = %q", resp.Result.Number)
	}
}

func TestAICommandCallAll(t *testing.T) {
	dialer := &fakeDialer{}
	router := newTestRouter(t, dialer)

	w := postForm(router, "/ai-command", url.Values{
		"command": {"start calling all numbers"},
		"numbers": {"4567890123\n5551234567"},
	})
	var resp struct {
		Success bool   `json:"success"`
		Action  string `json:"action"`
		Total   int    `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Action != "call_all" || resp.Total != 2 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestAICommandCallAllWithoutNumbers(t *testing.T) {
	router := newTestRouter(t, &fakeDialer{})

	w := postForm(router, "/ai-command", url.Values{"command": {"start calling all numbers"}})
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["success"] != false || resp["error"] != "No phone numbers available to call" {
		t.Fatalf("resp = %v", resp)
	}
}

func TestAICommandUnknown(t *testing.T) {
	router := newTestRouter(t, &fakeDialer{})

	w := postForm(router, "/ai-command", url.Values{"command": {"hello there"}})
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["success"] != false {
		t.Fatalf("resp = %v", resp)
	}
	if _, ok := resp["parsed"]; !ok {
		t.Error("expected parsed command in response")
	}
}

func TestGetLogsAndCleanup(t *testing.T) {
	dialer := &fakeDialer{fail: true}
	router := newTestRouter(t, dialer)

	postForm(router, "/call", url.Values{"numbers": {"4567890123"}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	var logsResp struct {
		Logs []calllog.Attempt `json:"logs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &logsResp); err != nil {
		t.Fatal(err)
	}
	if len(logsResp.Logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logsResp.Logs))
	}
	if logsResp.Logs[0].Error == nil {
		t.Fatal("expected an error on the failed attempt")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cleanup-logs", nil))
	var cleanResp struct {
		Success bool   `json:"success"`
		Count   int    `json:"count"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &cleanResp); err != nil {
		t.Fatal(err)
	}
	if !cleanResp.Success || cleanResp.Count != 1 {
		t.Fatalf("resp = %+v", cleanResp)
	}
	if cleanResp.Message != "Cleaned up 1 log entries" {
		t.Errorf("message = %q", cleanResp.Message)
	}
}

func TestCheckVerification(t *testing.T) {
	dialer := &fakeDialer{verified: []string{"+1 555 123 4567"}}
	router := newTestRouter(t, dialer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/check-verification/5551234567", nil))
	var resp struct {
		Success    bool   `json:"success"`
		Phone      string `json:"phone_number"`
		IsVerified bool   `json:"is_verified"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || !resp.IsVerified {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Phone != "+15551234567" {
		t.Errorf("phone_number = %q", resp.Phone)
	}
}

func TestCheckVerificationNotConfigured(t *testing.T) {
	router := newTestRouter(t, govoice.NoDialer{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/check-verification/5551234567", nil))
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["success"] != false || resp["error"] != "Twilio credentials not configured" {
		t.Fatalf("resp = %v", resp)
	}
}
