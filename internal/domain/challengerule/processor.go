package challengerule

import (
	"context"

	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
)

// ScanCount Rule
//
// Score increases by points_per_scan for every qualifying scan, optionally
// restricted to a set of tag external identifiers.
type scanCountRule struct {
	PointsPerScan uint64   `mapstructure:"points_per_scan" structs:"points_per_scan"`
	TagExternalID []string `mapstructure:"tag_external_ids" structs:"tag_external_ids"`
}

func newScanCountRule(ctx context.Context, data map[string]any) (*scanCountRule, error) {
	rule := scanCountRule{}
	err := mapstructure.Decode(data, &rule)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid rules payload")
	}

	if rule.PointsPerScan == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not found points_per_scan in rules")
	}

	return &rule, nil
}

func (r *scanCountRule) Encode() map[string]any {
	return encode(r)
}

// StepGoal Rule
//
// Score is reported by the tenant side; the goal bounds the total a
// participant can earn.
type stepGoalRule struct {
	Goal          uint64 `mapstructure:"goal" structs:"goal"`
	PointsPerStep uint64 `mapstructure:"points_per_step" structs:"points_per_step"`
}

func newStepGoalRule(ctx context.Context, data map[string]any) (*stepGoalRule, error) {
	rule := stepGoalRule{}
	err := mapstructure.Decode(data, &rule)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid rules payload")
	}

	if rule.Goal == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not found goal in rules")
	}

	return &rule, nil
}

func (r *stepGoalRule) Encode() map[string]any {
	return encode(r)
}
