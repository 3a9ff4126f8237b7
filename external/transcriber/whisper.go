package transcriber

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/speakband/speakband/internal/transcriber"
)

const fetchTimeout = 30 * time.Second

type WhisperConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// WhisperTranscriber fetches the stored audio binary and submits it to the
// Whisper transcription endpoint. It does not retry: a failed call surfaces
// immediately and the orchestrator decides what the task's fate is.
type WhisperTranscriber struct {
	client     *openai.Client
	httpClient *http.Client
	model      string
}

func NewWhisperTranscriber(cfg WhisperConfig) transcriber.Transcriber {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &WhisperTranscriber{
		client:     openai.NewClientWithConfig(clientConfig),
		httpClient: &http.Client{Timeout: fetchTimeout},
		model:      cfg.Model,
	}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioURL string) (string, error) {
	audio, err := t.fetchAudio(ctx, audioURL)
	if err != nil {
		return "", err
	}
	slog.Info("audio fetched", "audio_url", audioURL, "bytes", len(audio))

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		Reader:   bytes.NewReader(audio),
		FilePath: audioFilename(audioURL),
	})
	if err != nil {
		return "", providerError(err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", &transcriber.Error{
			Stage:   transcriber.StageDecode,
			Message: "provider response contains no transcript text",
		}
	}
	return text, nil
}

func (t *WhisperTranscriber) fetchAudio(ctx context.Context, audioURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, &transcriber.Error{Stage: transcriber.StageFetch, Message: err.Error(), Err: err}
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &transcriber.Error{Stage: transcriber.StageFetch, Message: err.Error(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &transcriber.Error{
			Stage:      transcriber.StageFetch,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("audio fetch returned status %d", resp.StatusCode),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transcriber.Error{Stage: transcriber.StageFetch, Message: err.Error(), Err: err}
	}
	if len(body) == 0 {
		return nil, &transcriber.Error{Stage: transcriber.StageFetch, Message: "audio body is empty"}
	}
	return body, nil
}

func providerError(err error) *transcriber.Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &transcriber.Error{
			Stage:      transcriber.StageProvider,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &transcriber.Error{
			Stage:      transcriber.StageProvider,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
			Err:        err,
		}
	}
	return &transcriber.Error{Stage: transcriber.StageProvider, Message: err.Error(), Err: err}
}

func audioFilename(audioURL string) string {
	u, err := url.Parse(audioURL)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "audio.m4a"
	}
	return path.Base(u.Path)
}
