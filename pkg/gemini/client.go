package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	BaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// APIError is returned when the inference call itself fails or when its
// response does not honor the requested output schema. It is terminal for
// the phase that issued the call; callers never retry or repair it.
type APIError struct {
	Op     string
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gemini %s failed: status %d: %s", e.Op, e.Status, e.Msg)
	}
	return fmt.Sprintf("gemini %s failed: %s", e.Op, e.Msg)
}

// Client is a Gemini API client constrained to structured JSON output.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Gemini client for the given model.
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// SetBaseURL points the client at an alternate endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Schema is a subset of the OpenAPI schema object accepted by the
// generateContent responseSchema field.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateJSON sends prompt to the model, demanding a JSON response that
// matches schema, and decodes the model's output into out. Any transport
// failure, non-2xx status, empty candidate set, or output that does not
// decode as the requested shape comes back as an *APIError.
func (c *Client) GenerateJSON(ctx context.Context, op, prompt string, schema *Schema, out any) error {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMIMEType: "application/json", ResponseSchema: schema},
	})
	if err != nil {
		return &APIError{Op: op, Msg: fmt.Sprintf("marshal request: %v", err)}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &APIError{Op: op, Msg: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Op: op, Msg: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Op: op, Msg: fmt.Sprintf("read response: %v", err)}
	}
	if resp.StatusCode >= 400 {
		return &APIError{Op: op, Status: resp.StatusCode, Msg: string(respBody)}
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return &APIError{Op: op, Msg: fmt.Sprintf("decode response: %v", err)}
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return &APIError{Op: op, Msg: "no candidates in response"}
	}

	text := gr.Candidates[0].Content.Parts[0].Text
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		// Schema-violating output is a hard failure, not something to
		// patch up locally.
		return &APIError{Op: op, Msg: fmt.Sprintf("schema-invalid model output: %v", err)}
	}
	return nil
}
