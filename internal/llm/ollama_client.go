package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"neuroleap-backend/utilities"
)

// OllamaClient implements LLMClient against an Ollama-compatible completion
// endpoint.
type OllamaClient struct {
	ollamaURL string
	model     string
	opts      GenerationOptions
	client    *http.Client
}

func NewOllamaClient(url, model string, opts GenerationOptions) *OllamaClient {
	return &OllamaClient{
		ollamaURL: url,
		model:     model,
		opts:      opts,
		client: &http.Client{
			Timeout: 600 * time.Second, // Set a timeout to avoid hanging requests
		},
	}
}

// Model returns the identifier recorded on generated content.
func (o *OllamaClient) Model() string {
	return o.model
}

func (o *OllamaClient) Complete(prompt string) (string, error) {
	requestBody, _ := json.Marshal(map[string]interface{}{
		"model":  o.model,
		"prompt": prompt,
		"options": map[string]interface{}{
			"temperature": o.opts.Temperature,
			"top_p":       o.opts.TopP,
			"num_predict": o.opts.MaxOutputTokens,
		},
	})

	req, err := http.NewRequest("POST", o.ollamaURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {

		}
	}(resp.Body)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	fullBody := string(bodyBytes)

	// If the response is streamed as multiple JSON objects (separated by
	// newlines), aggregate the chunks into one final string.
	if strings.Contains(fullBody, "\n") {
		return AggregateStreamedResponse(fullBody), nil
	}

	// Otherwise, attempt to decode a single JSON object.
	var result map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return "", err
	}
	if responseText, ok := result["response"].(string); ok {
		return responseText, nil
	}

	return "", errors.New("invalid response from Ollama")
}

type LLMResponseChunk struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// AggregateStreamedResponse takes the full raw response body (a string with
// multiple JSON objects separated by newlines) and concatenates the
// "response" fields into one final string.
func AggregateStreamedResponse(body string) string {
	lines := strings.Split(body, "\n")
	var builder strings.Builder
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			var chunk LLMResponseChunk
			if err := json.Unmarshal([]byte(trimmed), &chunk); err != nil {
				utilities.Warn("Error unmarshaling chunk: %v", err)
				continue
			}
			builder.WriteString(chunk.Response)
		}
	}
	return builder.String()
}
