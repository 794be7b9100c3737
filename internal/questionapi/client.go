// Package questionapi talks to a remote question-generation service over
// HTTP. It keeps its own bounded retry loop at this call boundary, sharing
// the backoff formula and transience classification with internal/retry so
// behavior stays identical end to end.
package questionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/mkarpov/interview-runner/internal/questions"
	"github.com/mkarpov/interview-runner/internal/retry"
	"github.com/mkarpov/interview-runner/internal/utils"
)

const (
	contentType = "application/json"
	userAgent   = "interview-runner"

	rateLimitWait = 60 * time.Second
	overloadWait  = 5 * time.Second
)

var wait = utils.WaitFor

type Client struct {
	HTTPClient *http.Client
	UserAgent  string

	baseURL string
	retry   retry.Config
	logger  *zap.Logger
}

func New(baseURL string, retryCfg retry.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent: userAgent,
		baseURL:   baseURL,
		retry:     retryCfg,
		logger:    logger,
	}
}

type generateRequest struct {
	JobDescription string `json:"job_description"`
}

type generateResponse struct {
	Questions []map[string]any `json:"questions"`
}

// Generate implements questions.Source against the remote service.
func (c *Client) Generate(ctx context.Context, jobDescription string) ([]questions.Question, error) {
	if err := questions.ValidateJobDescription(jobDescription); err != nil {
		return nil, err
	}

	maxRetries := c.retry.MaxRetries
	if maxRetries <= 0 {
		maxRetries = retry.DefaultMaxRetries
	}
	isTransient := c.retry.IsTransient
	if isTransient == nil {
		isTransient = retry.IsTransientUpstream
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		qs, err := c.generateOnce(ctx, jobDescription)
		if err == nil {
			return qs, nil
		}
		lastErr = err

		if attempt == maxRetries || !isTransient(err) {
			break
		}

		delay := c.retry.Delay(attempt)
		c.logger.Warn("question service busy, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) generateOnce(ctx context.Context, jobDescription string) ([]questions.Question, error) {
	payload, err := json.Marshal(generateRequest{JobDescription: jobDescription})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/generate-questions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.UserAgent)

	c.logger.Debug("make request", zap.String("url", url))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, &retry.TransientError{
			Err:           fmt.Errorf("question service rate limited: %s", resp.Status),
			SuggestedWait: rateLimitWait,
		}
	case http.StatusServiceUnavailable:
		return nil, &retry.TransientError{
			Err:           fmt.Errorf("question service overloaded: %s", resp.Status),
			SuggestedWait: overloadWait,
		}
	default:
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var response generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode question service response: %w", err)
	}

	var decoded []questions.Question
	cfg := &mapstructure.DecoderConfig{
		Result:           &decoded,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(response.Questions); err != nil {
		return nil, fmt.Errorf("decode question list: %w", err)
	}

	return questions.Vet(c.logger, decoded)
}
