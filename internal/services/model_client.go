package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"server/config"
	"server/internal/logger"
	"server/internal/models"
	"strconv"
	"strings"
	"time"
)

// systemInstruction is the fixed role given to the model for every
// analysis request. The product is Russian-language, so the report
// content is requested in Russian.
const systemInstruction = `Ты — HR-аналитик и специалист по командной психологии. ` +
	`На основе агрегированных результатов DISC и EQ тестирования команды составь анализ совместимости. ` +
	`Ответ верни строго в формате JSON с полями disc_analysis, eq_analysis, compatibility, recommendations. ` +
	`Все текстовые описания — на русском языке.`

// TeamAnalysisClient performs the single blocking external-model call
// of one analysis job.
type TeamAnalysisClient interface {
	AnalyzeTeam(ctx context.Context, payload models.TeamPayload) (*models.AnalysisResult, error)
}

type modelClient struct {
	log        logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

func NewTeamAnalysisClient(config config.Config) (TeamAnalysisClient, error) {
	if config.ModelAPIKey == "" {
		return nil, errors.New("model API key is not configured")
	}

	return &modelClient{
		log:        logger.New("TeamAnalysisClient"),
		baseURL:    strings.TrimSuffix(config.ModelBaseURL, "/"),
		apiKey:     config.ModelAPIKey,
		model:      config.ModelName,
		httpClient: &http.Client{Timeout: config.AnalysisTimeout},
		maxRetries: 3,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type modelHTTPError struct {
	StatusCode int
	Body       string
}

func (e *modelHTTPError) Error() string {
	return fmt.Sprintf("model http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
	return code == 408 || code == 429 || (code >= 500 && code <= 599)
}

func isRetryableErr(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var httpErr *modelHTTPError
	if errors.As(err, &httpErr) {
		return isRetryableHTTP(httpErr.StatusCode)
	}
	return false
}

// jitterSleep spreads a backoff interval by +/- 20% to avoid retry
// bursts lining up.
func jitterSleep(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := base.Seconds() * 0.2
	low := base.Seconds() - delta
	v := low + rand.Float64()*(2*delta)
	return time.Duration(v * float64(time.Second))
}

func (c *modelClient) doOnce(ctx context.Context, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &modelHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *modelClient) do(ctx context.Context, body any, out any) error {
	log := c.log.Function("do")
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, body)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("model response decode error: %w", uErr)
			}
			return nil
		}

		if !isRetryableErr(err) || attempt == c.maxRetries {
			return err
		}

		sleepFor := backoff
		if resp != nil {
			if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
				if secs, parseErr := strconv.Atoi(ra); parseErr == nil && secs > 0 {
					sleepFor = time.Duration(secs) * time.Second
				}
			}
		}
		if sleepFor > 10*time.Second {
			sleepFor = 10 * time.Second
		}
		sleepFor = jitterSleep(sleepFor)

		log.Warn("model request retrying",
			"attempt", attempt+1,
			"maxRetries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepFor):
		}
		backoff *= 2
	}

	return errors.New("unreachable retry loop")
}

func (c *modelClient) AnalyzeTeam(ctx context.Context, payload models.TeamPayload) (*models.AnalysisResult, error) {
	log := c.log.Function("AnalyzeTeam")

	userContent, err := json.Marshal(payload)
	if err != nil {
		return nil, NewModelFaultError("failed to serialize team payload: " + err.Error())
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: string(userContent)},
		},
		Temperature: 0.2,
	}
	req.ResponseFormat.Type = "json_object"

	var resp chatResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, NewModelFaultError(err.Error())
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, NewModelFaultError("model returned no content")
	}

	result, err := DecodeAnalysisResult([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		return nil, err
	}

	log.Info("team analysis completed", "teamSize", payload.TeamSize)
	return result, nil
}

// DecodeAnalysisResult validates the model's JSON before it reaches the
// report renderer. A body carrying an `error` key is a semantic
// failure even when it parses cleanly.
func DecodeAnalysisResult(raw []byte) (*models.AnalysisResult, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, NewModelFaultError("model returned unparseable JSON: " + err.Error())
	}

	if errRaw, ok := probe["error"]; ok {
		msg := strings.Trim(string(errRaw), `"`)
		return nil, NewModelFaultError("model returned error: " + msg)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, NewModelFaultError("model JSON does not match the analysis schema: " + err.Error())
	}

	return &result, nil
}
