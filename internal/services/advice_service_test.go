package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sportstock/backend/internal/models"
)

func TestBuildAdvicePrompt(t *testing.T) {
	items := []models.InventoryItem{testItem("a", "Nike", 2)}

	prompt, err := BuildAdvicePrompt(items)
	require.NoError(t, err)

	serialized, err := json.Marshal(items)
	require.NoError(t, err)
	require.Contains(t, prompt, string(serialized), "prompt embeds the JSON item list")
	require.Contains(t, prompt, "أقل من 3")
}

func TestAdviceService_Success(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)

		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{
				{Content: geminiContent{Parts: []geminiPart{{Text: "المخزون بحالة جيدة"}}}},
			},
		})
	}))
	defer server.Close()

	service := NewAdviceService("test-key", server.URL, "gemini-3-flash-preview")
	advice := service.InventoryAdvice(context.Background(), []models.InventoryItem{testItem("a", "Nike", 2)})

	require.Equal(t, "المخزون بحالة جيدة", advice)
	require.Equal(t, "/models/gemini-3-flash-preview:generateContent", gotPath)
	require.Equal(t, "test-key", gotKey)
}

func TestAdviceService_FailuresFallBack(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()

		service := NewAdviceService("test-key", server.URL, "gemini-3-flash-preview")
		advice := service.InventoryAdvice(context.Background(), nil)
		require.Equal(t, AdviceFallbackError, advice)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		service := NewAdviceService("test-key", "http://127.0.0.1:1", "gemini-3-flash-preview")
		advice := service.InventoryAdvice(context.Background(), nil)
		require.Equal(t, AdviceFallbackError, advice)
	})

	t.Run("missing api key", func(t *testing.T) {
		service := NewAdviceService("", "http://example.invalid", "gemini-3-flash-preview")
		advice := service.InventoryAdvice(context.Background(), nil)
		require.Equal(t, AdviceFallbackError, advice)
	})

	t.Run("empty candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(geminiResponse{})
		}))
		defer server.Close()

		service := NewAdviceService("test-key", server.URL, "gemini-3-flash-preview")
		advice := service.InventoryAdvice(context.Background(), nil)
		require.Equal(t, AdviceFallbackEmpty, advice)
	})
}
