package condition

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvaluator() *Evaluator {
	return NewEvaluator(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		expected  Expr
	}{
		{
			name:      "template reference",
			condition: "{{result.status}}",
			expected:  TemplateRef{Path: "result.status"},
		},
		{
			name:      "template reference with whitespace",
			condition: "{{ flag }}",
			expected:  TemplateRef{Path: "flag"},
		},
		{
			name:      "equality with string literal",
			condition: `status == "ok"`,
			expected:  Equals{Left: PathRef{Path: "status"}, Right: Literal{Value: "ok"}},
		},
		{
			name:      "equality with single quotes",
			condition: "kind == 'retry'",
			expected:  Equals{Left: PathRef{Path: "kind"}, Right: Literal{Value: "retry"}},
		},
		{
			name:      "equality with number",
			condition: "code == 200",
			expected:  Equals{Left: PathRef{Path: "code"}, Right: Literal{Value: float64(200)}},
		},
		{
			name:      "equality with boolean",
			condition: "enabled == true",
			expected:  Equals{Left: PathRef{Path: "enabled"}, Right: Literal{Value: true}},
		},
		{
			name:      "inequality",
			condition: "status != 'failed'",
			expected:  NotEquals{Left: PathRef{Path: "status"}, Right: Literal{Value: "failed"}},
		},
		{
			name:      "empty condition defaults to always",
			condition: "",
			expected:  Always{},
		},
		{
			name:      "unrecognized condition defaults to always",
			condition: "status is great",
			expected:  Always{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.condition))
		})
	}
}

func TestEvaluate_TemplateTruthiness(t *testing.T) {
	e := testEvaluator()

	output := map[string]any{"flag": true, "empty": nil}

	assert.True(t, e.Evaluate("{{flag}}", output))
	assert.False(t, e.Evaluate("{{empty}}", output))
	assert.False(t, e.Evaluate("{{missing}}", output))
}

func TestEvaluate_TemplateFalseValueIsStillTruthy(t *testing.T) {
	e := testEvaluator()

	// Truthiness is presence, not boolean value: only nil fails the check.
	assert.True(t, e.Evaluate("{{flag}}", map[string]any{"flag": false}))
	assert.True(t, e.Evaluate("{{count}}", map[string]any{"count": 0}))
}

func TestEvaluate_Equality(t *testing.T) {
	e := testEvaluator()

	tests := []struct {
		name      string
		condition string
		output    any
		expected  bool
	}{
		{"string match", `status == "ok"`, map[string]any{"status": "ok"}, true},
		{"string mismatch", `status == "ok"`, map[string]any{"status": "fail"}, false},
		{"numeric match", "code == 200", map[string]any{"code": 200}, true},
		{"numeric match float", "code == 200", map[string]any{"code": float64(200)}, true},
		{"numeric string coerces", "code == 200", map[string]any{"code": "200"}, true},
		{"boolean match", "enabled == true", map[string]any{"enabled": true}, true},
		{"inequality satisfied", `status != "failed"`, map[string]any{"status": "ok"}, true},
		{"inequality not satisfied", `status != "ok"`, map[string]any{"status": "ok"}, false},
		{"nested path", `result.status == "done"`, map[string]any{"result": map[string]any{"status": "done"}}, true},
		{"path against path", "a == b", map[string]any{"a": 5, "b": 5}, true},
		{"missing path equals nothing", `ghost == "x"`, map[string]any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Evaluate(tt.condition, tt.output))
		})
	}
}

func TestEvaluate_UnknownConditionIsSatisfied(t *testing.T) {
	e := testEvaluator()

	assert.True(t, e.Evaluate("", map[string]any{}))
	assert.True(t, e.Evaluate("anything goes here", nil))
}

func TestEvaluate_NonObjectOutput(t *testing.T) {
	e := testEvaluator()

	// Paths into non-indexable output resolve to nil rather than panicking.
	assert.False(t, e.Evaluate("{{result}}", "plain string"))
	assert.False(t, e.Evaluate(`result.x == 1`, 42))
}

func TestResolve(t *testing.T) {
	nested := map[string]any{"a": map[string]any{"b": map[string]any{"c": 5}}}

	assert.Equal(t, 5, Resolve("a.b.c", nested))
	assert.Nil(t, Resolve("a.x.c", nested))
	assert.Nil(t, Resolve("a.b.c.d", nested))
	assert.Equal(t, nested, Resolve("", nested))

	require.IsType(t, map[string]any{}, Resolve("a", nested))
}

func TestResolve_StringMap(t *testing.T) {
	output := map[string]any{"headers": map[string]string{"host": "example.com"}}

	assert.Equal(t, "example.com", Resolve("headers.host", output))
	assert.Nil(t, Resolve("headers.missing", output))
}

func TestResolve_NumericSegmentIsPlainKey(t *testing.T) {
	output := map[string]any{"items": map[string]any{"0": "first"}}

	assert.Equal(t, "first", Resolve("items.0", output))
	assert.Nil(t, Resolve("items.1", output))
}
