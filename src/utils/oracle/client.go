package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tendeko/closer/src/utils/config"
	"github.com/tendeko/closer/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
)

var (
	// Oracle endpoint unreachable or returned a non-success status
	ErrConnectivity = errors.New("oracle connectivity error")

	// Oracle responded, but the payload is not usable
	ErrResponseFormat = errors.New("oracle response format error")
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client talks to an OpenAI-compatible chat completion endpoint.
// All requests go through a shared rate limiter.
type Client struct {
	client  *resty.Client
	config  *config.Config
	log     *logrus.Entry
	limiter ratelimit.Limiter
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("oracle-client")
	self.limiter = ratelimit.New(config.Oracle.RequestsPerSecond)

	self.client = resty.New().
		SetBaseURL(config.Oracle.Url).
		SetTimeout(config.Oracle.RequestTimeout).
		SetHeader("Content-Type", "application/json")

	if config.Oracle.ApiKey != "" {
		self.client.SetAuthToken(config.Oracle.ApiKey)
	}

	return
}

// Complete sends one system+user prompt pair and returns the assistant's reply.
// With jsonMode the endpoint is asked for a JSON object and the reply is
// required to parse as one.
func (self *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (out string, err error) {
	self.limiter.Take()

	body := chatRequest{
		Model: self.config.Oracle.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	if jsonMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	resp, err := self.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(chatResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnectivity, err)
	}

	if !resp.IsSuccess() {
		self.log.WithField("status", resp.StatusCode()).
			WithField("resp", string(resp.Body())).
			Warn("Completion request failed")
		return "", fmt.Errorf("%w: unexpected status %s", ErrConnectivity, resp.Status())
	}

	result, ok := resp.Result().(*chatResponse)
	if !ok || len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrResponseFormat)
	}

	out = strings.TrimSpace(result.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("%w: empty completion", ErrResponseFormat)
	}

	if jsonMode {
		var probe map[string]interface{}
		if jsonErr := json.Unmarshal([]byte(out), &probe); jsonErr != nil {
			return "", fmt.Errorf("%w: completion is not a JSON object: %v", ErrResponseFormat, jsonErr)
		}
	}

	return
}
