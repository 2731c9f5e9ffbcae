package normalize

import (
	"github.com/jonathan/redline/internal/schemas"
	"github.com/jonathan/redline/internal/types"
	rootschemas "github.com/jonathan/redline/schemas"
)

// MapImprovement maps a decoded tree onto a QuestionImprovement.
// Follow-ups are padded or truncated to three slots, and a question that is not
// generic carries no improved question and no follow-ups.
func MapImprovement(tree any) (*types.QuestionImprovement, error) {
	obj, ok := tree.(map[string]any)
	if !ok {
		return nil, &SchemaValidationError{Message: "top-level value is not a JSON object"}
	}

	improvement := &types.QuestionImprovement{
		IsGeneric:        asBool(field(obj, "is_generic", "isGeneric")),
		Issues:           stringList(field(obj, "issues")),
		ImprovedQuestion: asString(field(obj, "improved_question", "improvedQuestion")),
		FollowUps:        followUps(field(obj, "followups", "follow_ups", "followUps")),
	}

	if !improvement.IsGeneric {
		improvement.ImprovedQuestion = ""
		improvement.FollowUps = types.FollowUpSet{}
	}

	if err := schemas.Validate(rootschemas.QuestionImprovement, improvement); err != nil {
		return nil, &SchemaValidationError{Message: "question improvement does not match schema", Cause: err}
	}
	return improvement, nil
}

// followUps accepts either a positional list or an object keyed by slot name
func followUps(v any) types.FollowUpSet {
	switch val := v.(type) {
	case []any:
		values := make([]string, 0, types.FollowUpSlots)
		for _, item := range val {
			if len(values) == types.FollowUpSlots {
				break
			}
			values = append(values, asString(item))
		}
		return types.NewFollowUpSet(values...)
	case map[string]any:
		return types.FollowUpSet{
			TradeOff:             asString(field(val, "trade_off", "tradeoff", "tradeOff")),
			Metrics:              asString(field(val, "metrics")),
			PersonalContribution: asString(field(val, "personal_contribution", "personalContribution")),
		}
	default:
		return types.FollowUpSet{}
	}
}
