package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-roaster-be/pkg/llm"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
)

type Provider struct {
	ApiKey  string
	BaseURL string
	Model   string
	Client  *http.Client

	// PollInterval spaces file state checks while an upload is PROCESSING.
	PollInterval time.Duration
	MaxPolls     int
}

// Ensure Provider implements both halves of the model contract
var (
	_ llm.Generator    = &Provider{}
	_ llm.FileUploader = &Provider{}
)

func NewProvider(apiKey, baseURL, model string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Provider{
		ApiKey:       apiKey,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		Model:        model,
		Client:       &http.Client{Timeout: timeout},
		PollInterval: time.Second,
		MaxPolls:     10,
	}
}

// --- Request/Response structs (Internal to this package) ---

type fileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type part struct {
	Text     string    `json:"text,omitempty"`
	FileData *fileData `json:"file_data,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *Provider) GenerateContent(ctx context.Context, req llm.Request, opts ...llm.Option) (string, error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}

	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: toParts(req.Parts)}},
	}
	if req.SystemInstruction != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: req.SystemInstruction}}}
	}
	if options.Temperature > 0 || options.MaxTokens > 0 {
		payload.GenerationConfig = &generationConfig{MaxOutputTokens: options.MaxTokens}
		if options.Temperature > 0 {
			payload.GenerationConfig.Temperature = &options.Temperature
		}
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.BaseURL, p.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", p.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resBody, err := p.do(httpReq)
	if err != nil {
		return "", err
	}

	var geminiRes generateResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(geminiRes.Candidates) == 0 {
		if geminiRes.PromptFeedback != nil && geminiRes.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked the prompt: %s", geminiRes.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("empty candidates from gemini api")
	}

	var text strings.Builder
	for _, pt := range geminiRes.Candidates[0].Content.Parts {
		text.WriteString(pt.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text (finish reason %s)", geminiRes.Candidates[0].FinishReason)
	}

	return text.String(), nil
}

func toParts(parts []llm.Part) []part {
	out := make([]part, 0, len(parts))
	for _, pt := range parts {
		if pt.File != nil {
			out = append(out, part{FileData: &fileData{MimeType: pt.File.MimeType, FileURI: pt.File.URI}})
			continue
		}
		out = append(out, part{Text: pt.Text})
	}
	return out
}

// do sends the request and maps any non-2xx answer to *llm.APIError.
func (p *Provider) do(req *http.Request) ([]byte, error) {
	res, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode/100 != 2 {
		return nil, decodeError(res.StatusCode, resBody)
	}
	return resBody, nil
}

func decodeError(statusCode int, body []byte) error {
	apiErr := &llm.APIError{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		apiErr.Status = envelope.Error.Status
	}
	return apiErr
}
