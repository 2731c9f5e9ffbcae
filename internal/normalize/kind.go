package normalize

import (
	"strings"

	"github.com/jonathan/redline/internal/types"
)

// kindKeywords is checked in order; the first kind with a matching token wins.
// This is a keyword heuristic and can misclassify ambiguous labels.
var kindKeywords = []struct {
	kind   types.RiskKind
	tokens []string
}{
	{types.RiskWeakCausality, []string{"causal", "cause", "attribut", "correlat"}},
	{types.RiskVagueClaim, []string{"vague", "ambigu", "unclear", "generic", "unspecific", "abstract"}},
	{types.RiskExaggeration, []string{"exaggerat", "overstat", "inflat", "overclaim", "hyperbol"}},
	{types.RiskInconsistency, []string{"inconsisten", "contradict", "conflict", "mismatched date", "discrepan"}},
	{types.RiskRoleMismatch, []string{"role", "fit", "mismatch", "misalign", "irrelevan"}},
}

// RiskKind maps a model-supplied label onto one of the five risk kinds.
// Exact matches (ignoring case, spaces and hyphens) win; otherwise keyword
// heuristics apply, and anything unrecognized becomes vague_claim.
func RiskKind(label string) types.RiskKind {
	key := strings.ToLower(strings.TrimSpace(label))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	if kind := types.RiskKind(key); kind.Valid() {
		return kind
	}

	for _, rule := range kindKeywords {
		for _, token := range rule.tokens {
			if strings.Contains(key, token) {
				return rule.kind
			}
		}
	}
	return types.RiskVagueClaim
}
