package condition

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// Evaluator decides whether an edge condition is satisfied by a node's
// output. Evaluation failures never abort a workflow execution; they are
// logged and the edge is treated as not satisfied.
type Evaluator struct {
	logger *slog.Logger
}

// NewEvaluator creates an evaluator logging through the given logger.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	return &Evaluator{
		logger: logger.With("module", "condition_evaluator"),
	}
}

// Evaluate parses and evaluates condition against output.
func (e *Evaluator) Evaluate(condition string, output any) (satisfied bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Condition evaluation failed, treating edge as not satisfied",
				"condition", condition, "error", r)

			satisfied = false
		}
	}()

	return Parse(condition).eval(output)
}

func (t TemplateRef) eval(output any) bool {
	return Resolve(t.Path, output) != nil
}

func (q Equals) eval(output any) bool {
	return looseEqual(q.Left.resolve(output), q.Right.resolve(output))
}

func (q NotEquals) eval(output any) bool {
	return !looseEqual(q.Left.resolve(output), q.Right.resolve(output))
}

func (Always) eval(any) bool {
	return true
}

// looseEqual compares values across representations: numbers and numeric
// strings compare numerically, booleans compare as booleans, everything else
// falls back to string form.
func looseEqual(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)

	if lok && rok {
		return lf == rf
	}

	lb, lok := left.(bool)
	rb, rok := right.(bool)

	if lok && rok {
		return lb == rb
	}

	return fmt.Sprintf("%v", left) == fmt.Sprintf("%v", right)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(v, 64)

		return n, err == nil && !math.IsNaN(n) && !math.IsInf(n, 0)
	default:
		return 0, false
	}
}
