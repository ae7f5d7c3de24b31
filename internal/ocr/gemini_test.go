package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/beast-reader/internal/config"
	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/models"
)

func geminiAnswer(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	require.NoError(t, err)
	return body
}

func newTestClient(url string) *GeminiClient {
	return NewGeminiClient(&config.OCRConfig{
		Enabled:        true,
		BaseURL:        url,
		Model:          "gemini-2.5-flash",
		APIKey:         "secret",
		TimeoutSeconds: 5,
		RateLimit:      100,
	}, logger.Discard())
}

func TestGeminiClientInterpret(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(geminiAnswer(t, `[
			{"betNumber":"123","straightAmount":1,"boxAmount":null,"comboAmount":0.5},
			{"betNumber":" 12-34 ","straightAmount":2,"boxAmount":null,"comboAmount":null,"gameMode":"Win 4"}
		]`))
	}))
	defer server.Close()

	results, err := newTestClient(server.URL).Interpret(context.Background(), Image{MIMEType: "image/png", Data: "aGVsbG8="})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "123", results[0].BetNumber)
	require.NotNil(t, results[0].StraightAmount)
	assert.Equal(t, "1", results[0].StraightAmount.String())
	assert.Nil(t, results[0].BoxAmount)
	assert.Equal(t, "0.5", results[0].ComboAmount.String())
	assert.Equal(t, "12-34", results[1].BetNumber)

	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 2)
	assert.Equal(t, "image/png", gotReq.Contents[0].Parts[0].InlineData.MIMEType)
	assert.Equal(t, "aGVsbG8=", gotReq.Contents[0].Parts[0].InlineData.Data)
	assert.Contains(t, gotReq.Contents[0].Parts[1].Text, "lottery ticket")
	assert.Equal(t, "application/json", gotReq.GenerationConfig.ResponseMIMEType)
	assert.Equal(t, "ARRAY", gotReq.GenerationConfig.ResponseSchema.Type)
}

func TestGeminiClientNonArrayIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(geminiAnswer(t, `{"betNumber":"123"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Interpret(context.Background(), Image{Data: "aGVsbG8="})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInterpretationFailed))
	assert.True(t, errors.Is(err, ErrInvalidResponse))
	assert.Equal(t, FailureMessage, models.UserMessage(err))
}

func TestGeminiClientDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Interpret(context.Background(), Image{Data: "aGVsbG8="})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
	assert.Equal(t, FailureMessage, models.UserMessage(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGeminiClientCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Interpret(ctx, Image{Data: "aGVsbG8="})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, ErrInterpretationFailed))
}

func TestGeminiClientEmptyImage(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").Interpret(context.Background(), Image{})
	assert.True(t, errors.Is(err, ErrEmptyImage))
	assert.Equal(t, FailureMessage, models.UserMessage(err))
}

func TestParseResults(t *testing.T) {
	results, err := ParseResults("```json\n[]\n```")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	_, err = ParseResults("not json")
	assert.True(t, errors.Is(err, ErrInvalidResponse))

	_, err = ParseResults(`"123"`)
	assert.True(t, errors.Is(err, ErrInvalidResponse))

	_, err = ParseResults(`[{"betNumber":"1","straightAmount":-2}]`)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestDisabledInterpreter(t *testing.T) {
	_, err := Disabled{}.Interpret(context.Background(), Image{Data: "x"})
	assert.True(t, errors.Is(err, ErrDisabled))
	assert.Equal(t, FailureMessage, models.UserMessage(err))
}
