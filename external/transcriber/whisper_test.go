package transcriber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/speakband/speakband/internal/transcriber"
)

func audioServer(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
}

func whisperServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func newTestTranscriber(providerURL string) transcriber.Transcriber {
	return NewWhisperTranscriber(WhisperConfig{
		APIKey:  "test-key",
		BaseURL: providerURL,
		Model:   "whisper-1",
	})
}

func TestTranscribe_Success(t *testing.T) {
	audio := audioServer(t, http.StatusOK, []byte("fake-m4a-bytes"))
	defer audio.Close()
	provider := whisperServer(t, http.StatusOK, `{"text": "I think it is a good idea"}`)
	defer provider.Close()

	stt := newTestTranscriber(provider.URL)
	text, err := stt.Transcribe(context.Background(), audio.URL+"/t1.m4a")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "I think it is a good idea" {
		t.Fatalf("unexpected transcript: %q", text)
	}
}

func TestTranscribe_AudioFetchFailure(t *testing.T) {
	audio := audioServer(t, http.StatusNotFound, nil)
	defer audio.Close()
	provider := whisperServer(t, http.StatusOK, `{"text": "unused"}`)
	defer provider.Close()

	stt := newTestTranscriber(provider.URL)
	_, err := stt.Transcribe(context.Background(), audio.URL+"/missing.m4a")
	te, ok := transcriber.AsError(err)
	if !ok {
		t.Fatalf("expected transcriber error, got %v", err)
	}
	if te.Stage != transcriber.StageFetch || te.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected error: %+v", te)
	}
}

func TestTranscribe_ProviderFailure(t *testing.T) {
	audio := audioServer(t, http.StatusOK, []byte("fake-m4a-bytes"))
	defer audio.Close()
	provider := whisperServer(t, http.StatusInternalServerError, `{"error": {"message": "overloaded", "type": "server_error"}}`)
	defer provider.Close()

	stt := newTestTranscriber(provider.URL)
	_, err := stt.Transcribe(context.Background(), audio.URL+"/t1.m4a")
	te, ok := transcriber.AsError(err)
	if !ok {
		t.Fatalf("expected transcriber error, got %v", err)
	}
	if te.Stage != transcriber.StageProvider {
		t.Fatalf("expected provider stage, got %+v", te)
	}
	if te.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected upstream status attached, got %+v", te)
	}
}

func TestTranscribe_MissingText(t *testing.T) {
	audio := audioServer(t, http.StatusOK, []byte("fake-m4a-bytes"))
	defer audio.Close()
	provider := whisperServer(t, http.StatusOK, `{"text": ""}`)
	defer provider.Close()

	stt := newTestTranscriber(provider.URL)
	_, err := stt.Transcribe(context.Background(), audio.URL+"/t1.m4a")
	te, ok := transcriber.AsError(err)
	if !ok {
		t.Fatalf("expected transcriber error, got %v", err)
	}
	if te.Stage != transcriber.StageDecode {
		t.Fatalf("expected decode stage, got %+v", te)
	}
}

func TestAudioFilename(t *testing.T) {
	if got := audioFilename("https://cdn.example.com/recordings/t1.m4a"); got != "t1.m4a" {
		t.Fatalf("unexpected filename: %q", got)
	}
	if got := audioFilename("https://cdn.example.com/"); got != "audio.m4a" {
		t.Fatalf("expected default filename, got %q", got)
	}
}
