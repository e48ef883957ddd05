package diagnosis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Name keys in priority order. The first non-empty value wins.
var nameKeys = []string{"diagnosis_name", "name", "diagnosisName"}

var (
	confidenceKeys    = aliases("confidence", "confidence_score")
	tierKeys          = aliases("probability", "probability_tier", "likelihood")
	supportingKeys    = aliases("supporting_findings", "supporting_evidence")
	contradictingKeys = aliases("contradicting_findings", "contradicting_evidence")
	redFlagKeys       = aliases("red_flags")
	nextStepKeys      = aliases("recommended_next_steps", "next_steps", "recommendations")
)

var (
	pathophysiologyKeys = aliases("pathophysiology")
	riskFactorKeys      = aliases("risk_factors")
	criteriaKeys        = aliases("diagnostic_criteria")
	treatmentKeys       = aliases("treatment", "management")
	complicationKeys    = aliases("complications")
	prognosisKeys       = aliases("prognosis")
	pearlKeys           = aliases("clinical_pearls", "pearls")
	referenceKeys       = aliases("references")
)

// aliases expands each snake_case key into itself followed by its
// lowerCamelCase form, preserving priority order.
func aliases(keys ...string) []string {
	out := make([]string, 0, len(keys)*2)
	seen := make(map[string]bool, len(keys)*2)
	for _, k := range keys {
		for _, variant := range []string{k, strcase.ToLowerCamel(k)} {
			if !seen[variant] {
				seen[variant] = true
				out = append(out, variant)
			}
		}
	}
	return out
}

// Normalize converts one raw generator entry into a Candidate.
// It returns false when no usable name is present.
func Normalize(raw map[string]any) (Candidate, bool) {
	name := firstText(raw, nameKeys)
	if name == "" {
		return Candidate{}, false
	}

	return Candidate{
		Name:                  name,
		Tier:                  NormalizeTier(first(raw, tierKeys)),
		Confidence:            NormalizeConfidence(first(raw, confidenceKeys)),
		SupportingFindings:    firstList(raw, supportingKeys),
		ContradictingFindings: firstList(raw, contradictingKeys),
		RedFlags:              firstList(raw, redFlagKeys),
		NextSteps:             firstList(raw, nextStepKeys),
	}, true
}

// NormalizeAll normalizes entries in order, drops unusable ones, and ranks
// the remainder from 1. The result is never nil.
func NormalizeAll(entries []map[string]any) []Candidate {
	out := make([]Candidate, 0, len(entries))
	for _, raw := range entries {
		c, ok := Normalize(raw)
		if !ok {
			continue
		}
		c.Rank = len(out) + 1
		out = append(out, c)
	}
	return out
}

// NormalizeConfidence coerces a raw confidence into [0,1]. Values above 1
// are percentages; a trailing "%" marks a percentage regardless of size.
// Missing or unparseable values normalize to 0.
func NormalizeConfidence(raw any) float64 {
	v, percent, ok := number(raw)
	if !ok || math.IsNaN(v) {
		return 0
	}
	if percent || v > 1 {
		v = v / 100
	}
	return math.Max(0, math.Min(1, v))
}

// NormalizeTier maps a raw probability label to a Tier, defaulting to low.
func NormalizeTier(raw any) Tier {
	s, ok := raw.(string)
	if !ok {
		return TierLow
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return TierHigh
	case "moderate", "medium":
		return TierModerate
	default:
		return TierLow
	}
}

// NormalizeContent converts a raw educational content payload.
func NormalizeContent(raw map[string]any) Content {
	return Content{
		Pathophysiology:    firstText(raw, pathophysiologyKeys),
		RiskFactors:        firstList(raw, riskFactorKeys),
		DiagnosticCriteria: firstList(raw, criteriaKeys),
		Treatment:          firstList(raw, treatmentKeys),
		Complications:      firstList(raw, complicationKeys),
		Prognosis:          firstText(raw, prognosisKeys),
		Pearls:             firstList(raw, pearlKeys),
		References:         firstList(raw, referenceKeys),
	}
}

func first(raw map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstText returns the first key whose value renders to non-empty text.
func firstText(raw map[string]any, keys []string) string {
	for _, k := range keys {
		if s := text(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

// firstList returns the first present list, accepting a lone string as a
// one-element list. Blank entries are dropped.
func firstList(raw map[string]any, keys []string) []string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		return list(v)
	}
	return []string{}
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		return strings.Join(list(t), " ")
	default:
		return ""
	}
}

func list(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range t {
			var s string
			switch it := item.(type) {
			case string:
				s = strings.TrimSpace(it)
			case float64, bool, json.Number:
				s = fmt.Sprint(it)
			}
			if s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func number(v any) (value float64, percent bool, ok bool) {
	switch t := v.(type) {
	case float64:
		return t, false, true
	case float32:
		return float64(t), false, true
	case int:
		return float64(t), false, true
	case int64:
		return float64(t), false, true
	case json.Number:
		f, err := t.Float64()
		return f, false, err == nil
	case string:
		s := strings.TrimSpace(t)
		if trimmed, found := strings.CutSuffix(s, "%"); found {
			s = strings.TrimSpace(trimmed)
			percent = true
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, percent, err == nil
	default:
		return 0, false, false
	}
}
