// Package httprequest provides a node executor that performs an HTTP request
// with template-rendered configuration and surfaces the response as output.
package httprequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/velden/nodion/pkg/models"
	"github.com/velden/nodion/pkg/template"
)

const defaultTimeout = 30 * time.Second

type Executor struct {
	client *http.Client
}

func NewExecutor() *Executor {
	return &Executor{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

type config struct {
	url     string
	method  string
	headers map[string]string
	body    string
}

func parseConfig(node *models.WorkflowNode) (*config, error) {
	c := &config{
		method:  http.MethodGet,
		headers: make(map[string]string),
	}

	url, ok := node.Data["url"].(string)
	if !ok || url == "" {
		return nil, errors.New("missing required field 'url'")
	}

	c.url = url

	if method, ok := node.Data["method"].(string); ok {
		c.method = strings.ToUpper(method)
	}

	if headers, ok := node.Data["headers"].(map[string]any); ok {
		for name, value := range headers {
			if s, ok := value.(string); ok {
				c.headers[name] = s
			}
		}
	}

	if body, ok := node.Data["body"].(string); ok {
		c.body = body
	}

	return c, nil
}

func (e *Executor) Execute(ctx context.Context, node *models.WorkflowNode, wctx *models.WorkflowContext) (*models.NodeExecutionResult, error) {
	c, err := parseConfig(node)
	if err != nil {
		return nil, err
	}

	url, err := template.RenderRaw(c.url, wctx)
	if err != nil {
		return nil, fmt.Errorf("failed to render url template: %w", err)
	}

	var bodyReader io.Reader

	if c.body != "" {
		body, err := template.RenderRaw(c.body, wctx)
		if err != nil {
			return nil, fmt.Errorf("failed to render body template: %w", err)
		}

		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for name, value := range c.headers {
		rendered, err := template.RenderRaw(value, wctx)
		if err != nil {
			return nil, fmt.Errorf("failed to render header %s: %w", name, err)
		}

		req.Header.Set(name, rendered)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var body any = string(raw)

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			body = decoded
		}
	}

	output := map[string]any{
		"status_code": resp.StatusCode,
		"body":        body,
		"headers":     flattenHeaders(resp.Header),
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &models.NodeExecutionResult{
			Status: models.NodeStatusFailed,
			Output: output,
			Error:  fmt.Sprintf("request to %s returned status %d", url, resp.StatusCode),
		}, nil
	}

	return &models.NodeExecutionResult{
		Status: models.NodeStatusCompleted,
		Output: output,
	}, nil
}

func (e *Executor) Validate(_ context.Context, node *models.WorkflowNode) (*models.ValidationResult, error) {
	if _, err := parseConfig(node); err != nil {
		return &models.ValidationResult{Valid: false, Errors: []string{err.Error()}}, nil
	}

	return &models.ValidationResult{Valid: true}, nil
}

func (e *Executor) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Request URL. Supports templating.",
			},
			"method": map[string]any{
				"type": "string",
				"enum": []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD"},
			},
			"headers": map[string]any{
				"type": "object",
			},
			"body": map[string]any{
				"type": "string",
			},
		},
		"required": []string{"url"},
	}
}

func flattenHeaders(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for name := range header {
		flat[name] = header.Get(name)
	}

	return flat
}
