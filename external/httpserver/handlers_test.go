package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/speakband/speakband/internal/config"
	"github.com/speakband/speakband/internal/credits"
	"github.com/speakband/speakband/internal/pipeline"
)

type stubProcessor struct {
	err        error
	lastTaskID string
	calls      int
}

func (s *stubProcessor) Process(_ context.Context, taskID, _ string) error {
	s.calls++
	s.lastTaskID = taskID
	return s.err
}

type stubCredits struct {
	grantResult    credits.GrantResult
	grantErr       error
	purchaseAmount int
	purchaseErr    error
}

func (s *stubCredits) GrantFreeCredit(_ context.Context, _, _ string) (credits.GrantResult, error) {
	return s.grantResult, s.grantErr
}

func (s *stubCredits) HandlePurchase(_ context.Context, _ credits.PurchaseEvent) (int, error) {
	return s.purchaseAmount, s.purchaseErr
}

func testServer(processor FeedbackProcessor, creditService CreditService, secret string) *Server {
	cfg := &config.Config{
		Env:                   "development",
		Port:                  8080,
		DatabaseURL:           "postgres://localhost/test",
		OpenAIAPIKey:          "sk-test",
		TranscriptionModel:    "whisper-1",
		FeedbackModel:         "gpt-4",
		PurchaseWebhookSecret: secret,
	}
	return New(cfg, processor, creditService)
}

func doRequest(s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router().ServeHTTP(w, req)
	return w
}

func TestProcessFeedback_Success(t *testing.T) {
	proc := &stubProcessor{}
	w := doRequest(testServer(proc, &stubCredits{}, ""), http.MethodPost, "/functions/process-feedback",
		`{"task_id": "t1", "audio_url": "https://audio/t1.m4a"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success true, got %v", resp)
	}
	if proc.lastTaskID != "t1" {
		t.Fatalf("processor got task %q", proc.lastTaskID)
	}
}

func TestProcessFeedback_MissingFields(t *testing.T) {
	proc := &stubProcessor{}
	w := doRequest(testServer(proc, &stubCredits{}, ""), http.MethodPost, "/functions/process-feedback",
		`{"task_id": "t1"}`, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if proc.calls != 0 {
		t.Fatal("processor must not run on invalid request")
	}
}

func TestProcessFeedback_TaskNotFound(t *testing.T) {
	proc := &stubProcessor{err: pipeline.ErrTaskNotFound}
	w := doRequest(testServer(proc, &stubCredits{}, ""), http.MethodPost, "/functions/process-feedback",
		`{"task_id": "ghost", "audio_url": "https://audio/x.m4a"}`, nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestProcessFeedback_InvalidState(t *testing.T) {
	proc := &stubProcessor{err: pipeline.ErrInvalidState}
	w := doRequest(testServer(proc, &stubCredits{}, ""), http.MethodPost, "/functions/process-feedback",
		`{"task_id": "t1", "audio_url": "https://audio/t1.m4a"}`, nil)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestProcessFeedback_DownstreamFailure(t *testing.T) {
	proc := &stubProcessor{err: errors.New("transcription: upstream down")}
	w := doRequest(testServer(proc, &stubCredits{}, ""), http.MethodPost, "/functions/process-feedback",
		`{"task_id": "t1", "audio_url": "https://audio/t1.m4a"}`, nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	details, _ := resp["details"].(string)
	if !strings.Contains(details, "upstream down") {
		t.Fatalf("expected upstream details, got %v", resp)
	}
}

func TestCORSPreflight(t *testing.T) {
	w := doRequest(testServer(&stubProcessor{}, &stubCredits{}, ""), http.MethodOptions,
		"/functions/process-feedback", "", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected permissive CORS origin header")
	}
}

func TestHealthz(t *testing.T) {
	w := doRequest(testServer(&stubProcessor{}, &stubCredits{}, ""), http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %q", w.Code, w.Body.String())
	}
}

func TestGrantFreeCredit_RequiresIdentity(t *testing.T) {
	w := doRequest(testServer(&stubProcessor{}, &stubCredits{}, ""), http.MethodPost,
		"/functions/grant-free-credit", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGrantFreeCredit_AlreadyGranted(t *testing.T) {
	svc := &stubCredits{grantResult: credits.GrantResult{AlreadyGranted: true}}
	w := doRequest(testServer(&stubProcessor{}, svc, ""), http.MethodPost,
		"/functions/grant-free-credit", "", map[string]string{"X-User-ID": "user-1"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["already_granted"] != true {
		t.Fatalf("expected already_granted flag, got %v", resp)
	}
}

func TestPurchaseWebhook_SecretMismatch(t *testing.T) {
	w := doRequest(testServer(&stubProcessor{}, &stubCredits{}, "hook-secret"), http.MethodPost,
		"/functions/purchase-webhook",
		`{"type": "INITIAL_PURCHASE", "app_user_id": "user-1", "product_id": "credit_pack_8"}`,
		map[string]string{"Authorization": "Bearer wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestPurchaseWebhook_UnknownProduct(t *testing.T) {
	svc := &stubCredits{purchaseErr: credits.ErrUnknownProduct}
	w := doRequest(testServer(&stubProcessor{}, svc, ""), http.MethodPost,
		"/functions/purchase-webhook",
		`{"type": "INITIAL_PURCHASE", "app_user_id": "user-1", "product_id": "credit_pack_999"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPurchaseWebhook_Success(t *testing.T) {
	svc := &stubCredits{purchaseAmount: 8}
	w := doRequest(testServer(&stubProcessor{}, svc, "hook-secret"), http.MethodPost,
		"/functions/purchase-webhook",
		`{"type": "INITIAL_PURCHASE", "app_user_id": "user-1", "product_id": "credit_pack_8"}`,
		map[string]string{"Authorization": "Bearer hook-secret"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["amount"] != float64(8) {
		t.Fatalf("expected amount 8, got %v", resp)
	}
}
