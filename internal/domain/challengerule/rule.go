package challengerule

import (
	"context"

	"github.com/fatih/structs"
	"github.com/loyaltap/backend/pkg/errorx"
)

// Known challenge categories. The category decides which rule payload shape
// the opaque rules map must decode into.
const (
	CategoryScanCount = "scan_count"
	CategoryStepGoal  = "step_goal"
)

// Rule is a validated, typed view over a challenge's rules payload. Scoring
// never looks inside a rule; it only exists so malformed payloads are
// rejected at creation time instead of surfacing mid-challenge.
type Rule interface {
	// Encode returns the canonical map persisted with the challenge.
	Encode() map[string]any
}

func New(ctx context.Context, category string, data map[string]any) (Rule, error) {
	var rule Rule
	var err error
	switch category {
	case CategoryScanCount:
		rule, err = newScanCountRule(ctx, data)

	case CategoryStepGoal:
		rule, err = newStepGoalRule(ctx, data)

	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid challenge category %s", category)
	}

	if err != nil {
		return nil, err
	}

	return rule, nil
}

func encode(r Rule) map[string]any {
	return structs.Map(r)
}
