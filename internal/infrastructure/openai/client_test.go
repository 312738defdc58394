package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path   string
	Auth   string
	Body   map[string]any
	Called int
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Called++
		captured.Path = r.URL.Path
		captured.Auth = r.Header.Get("Authorization")
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &captured.Body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return srv, captured
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		APIKey:      "test-key",
		BaseURL:     baseURL + "/v1",
		VisionModel: "gemini-2.0-flash-001",
		ImageModel:  "imagen-3.0-fast-generate-001",
		MaxTokens:   1000,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDescribeImage_RequestShape(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1,
		"model": "gemini-2.0-flash-001",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "# Title"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
	}`)
	client := newTestClient(srv.URL)

	answer, err := client.Vision().DescribeImage(context.Background(), "convert to markdown", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	require.Equal(t, "# Title", answer)

	require.Equal(t, "/v1/chat/completions", captured.Path)
	require.Equal(t, "Bearer test-key", captured.Auth)
	require.Equal(t, "gemini-2.0-flash-001", captured.Body["model"])
	require.EqualValues(t, 1000, captured.Body["max_tokens"])

	messages := captured.Body["messages"].([]any)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	require.Equal(t, "user", msg["role"])

	parts := msg["content"].([]any)
	require.Len(t, parts, 2)
	text := parts[0].(map[string]any)
	require.Equal(t, "text", text["type"])
	require.Equal(t, "convert to markdown", text["text"])

	img := parts[1].(map[string]any)
	require.Equal(t, "image_url", img["type"])
	url := img["image_url"].(map[string]any)["url"]
	require.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("png-bytes")), url)
}

func TestDescribeImage_NoChoices(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"id": "x", "object": "chat.completion", "choices": []}`)
	client := newTestClient(srv.URL)

	_, err := client.Vision().DescribeImage(context.Background(), "p", []byte("x"), "image/jpeg")
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestDescribeImage_APIError(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusInternalServerError, `{"error": {"message": "upstream down", "type": "server_error"}}`)
	client := newTestClient(srv.URL)

	_, err := client.Vision().DescribeImage(context.Background(), "p", []byte("x"), "image/jpeg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "upstream down")
	require.Equal(t, 1, captured.Called, "no retries")
}

func TestGenerateImage_RequestShape(t *testing.T) {
	payload := []byte("\x89PNG fake")
	srv, captured := newTestServer(t, http.StatusOK,
		`{"created": 1, "data": [{"b64_json": "`+base64.StdEncoding.EncodeToString(payload)+`"}]}`)
	client := newTestClient(srv.URL)

	data, err := client.Images().GenerateImage(context.Background(), "a cat", "1024x1024")
	require.NoError(t, err)
	require.Equal(t, payload, data)

	require.Equal(t, "/v1/images/generations", captured.Path)
	require.Equal(t, "imagen-3.0-fast-generate-001", captured.Body["model"])
	require.Equal(t, "a cat", captured.Body["prompt"])
	require.Equal(t, "1024x1024", captured.Body["size"])
	require.EqualValues(t, 1, captured.Body["n"])
	require.Equal(t, "b64_json", captured.Body["response_format"])
}

func TestGenerateImage_EmptyData(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"created": 1, "data": []}`)
	client := newTestClient(srv.URL)

	_, err := client.Images().GenerateImage(context.Background(), "a cat", "1024x1024")
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateImage_BadBase64(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"created": 1, "data": [{"b64_json": "%%%"}]}`)
	client := newTestClient(srv.URL)

	_, err := client.Images().GenerateImage(context.Background(), "a cat", "1024x1024")
	require.Error(t, err)
}

func TestNames(t *testing.T) {
	client := newTestClient("http://localhost")
	require.Equal(t, "gemini-2.0-flash-001", client.Vision().Name())
	require.Equal(t, "imagen-3.0-fast-generate-001", client.Images().Name())
}

func TestDataURL(t *testing.T) {
	require.Equal(t, "data:image/jpeg;base64,AQID", DataURL([]byte{1, 2, 3}, "image/jpeg"))
}
