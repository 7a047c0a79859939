package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sportstock/backend/internal/models"
)

// The advice panel never shows an error; failures reduce to these fixed
// fallback strings.
const (
	AdviceFallbackEmpty = "عذراً، لم أستطع تحليل البيانات حالياً."
	AdviceFallbackError = "حدث خطأ أثناء محاولة الاتصال بالذكاء الاصطناعي."
)

// AdviceService wraps the Gemini generateContent endpoint. It serializes the
// item list into a prompt and returns prose; it has no feedback into the data
// model.
type AdviceService struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewAdviceService(apiKey, baseURL, model string) *AdviceService {
	return &AdviceService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// InventoryAdvice asks the model for a natural-language summary of the
// inventory. Any failure comes back as the fixed fallback message, never as an
// error to the caller.
func (s *AdviceService) InventoryAdvice(ctx context.Context, items []models.InventoryItem) string {
	prompt, err := BuildAdvicePrompt(items)
	if err != nil {
		log.Printf("[Advice] prompt build failed: %v", err)
		return AdviceFallbackError
	}

	text, err := s.generate(ctx, prompt)
	if err != nil {
		log.Printf("[Advice] Gemini request failed: %v", err)
		return AdviceFallbackError
	}
	if strings.TrimSpace(text) == "" {
		return AdviceFallbackEmpty
	}
	return text
}

// BuildAdvicePrompt embeds the JSON-serialized item list in the fixed
// instruction text: flag records below the low-stock threshold, comment on
// category balance, suggest a sales/ordering strategy, answer in Arabic.
func BuildAdvicePrompt(items []models.InventoryItem) (string, error) {
	serialized, err := json.Marshal(items)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`أنت مساعد ذكي لإدارة المخزون الرياضي. إليك قائمة المخزون الحالي:
%s

بناءً على هذه البيانات:
1. حدد القطع التي تحتاج لإعادة طلب فورية (أقل من 3 قطع).
2. قدم نصيحة حول توازن الفئات (ملابس، أحذية، معدات).
3. اقترح استراتيجية بسيطة لتحسين المبيعات أو الطلب.
تحدث باللغة العربية بأسلوب احترافي وودود.`, serialized), nil
}

func (s *AdviceService) generate(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not configured")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
