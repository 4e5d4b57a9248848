// Package template renders node configuration strings against the execution
// context, so node data can reference variables and prior node outputs.
package template

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/velden/nodion/pkg/models"
)

// RenderWithContext renders input with the execution context exposed as
// template data: .variables (also .vars), .env and .metadata.
func RenderWithContext(input string, wctx *models.WorkflowContext) (any, error) {
	data := map[string]any{
		"variables": wctx.Variables,
		"vars":      wctx.Variables,
		"env":       environment(wctx),
		"metadata":  wctx.Metadata,
	}

	return Render(input, data)
}

// Render renders templateStr with data. The rendered string is coerced back
// into a structured value where possible: JSON objects and arrays are
// unmarshalled, numbers and booleans parsed, everything else stays a string.
func Render(templateStr string, data any) (any, error) {
	tmpl, err := template.
		New("node_config").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
		}).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	result := strings.TrimSpace(buf.String())

	if (strings.HasPrefix(result, "{") && strings.HasSuffix(result, "}")) ||
		(strings.HasPrefix(result, "[") && strings.HasSuffix(result, "]")) {
		var jsonResult any

		if err := json.Unmarshal([]byte(result), &jsonResult); err != nil {
			return nil, fmt.Errorf("failed to parse json '%s': %w", result, err)
		}

		return jsonResult, nil
	}

	if num, err := strconv.ParseFloat(result, 64); err == nil {
		return num, nil
	}

	if b, err := strconv.ParseBool(result); err == nil {
		return b, nil
	}

	return result, nil
}

// RenderString renders a template and returns the coerced result's string
// form.
func RenderString(input string, wctx *models.WorkflowContext) (string, error) {
	result, err := RenderWithContext(input, wctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%v", result), nil
}

// RenderRaw renders a template and returns the output verbatim, with no JSON
// or scalar coercion. Use it when the rendered text must survive unchanged,
// such as HTTP request bodies.
func RenderRaw(input string, wctx *models.WorkflowContext) (string, error) {
	tmpl, err := template.New("node_config").Parse(input)
	if err != nil {
		return "", fmt.Errorf("failed to parse template '%s': %w", input, err)
	}

	data := map[string]any{
		"variables": wctx.Variables,
		"vars":      wctx.Variables,
		"env":       environment(wctx),
		"metadata":  wctx.Metadata,
	}

	var buf strings.Builder

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template '%s': %w", input, err)
	}

	return buf.String(), nil
}

// environment merges process environment variables with the context's own,
// the context winning on conflicts.
func environment(wctx *models.WorkflowContext) map[string]any {
	envMap := make(map[string]any)

	for _, env := range os.Environ() {
		if name, value, found := strings.Cut(env, "="); found {
			envMap[name] = value
		}
	}

	for name, value := range wctx.Environment {
		envMap[name] = value
	}

	return envMap
}
