package diagnosis

import (
	"fmt"

	"github.com/JaimeStill/casebook/pkg/formatting"
)

// Keys under which generators have been observed to wrap the candidate list.
var listKeys = aliases("diagnoses", "differentials", "differential_diagnoses", "results", "candidates")

// Candidates decodes a raw generator body into normalized candidates.
// The body may be a JSON array, an object wrapping the array, or a single
// candidate object, optionally inside a markdown code fence.
func Candidates(body string) ([]Candidate, error) {
	payload, err := formatting.Parse[any](body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	entries, err := entriesOf(payload)
	if err != nil {
		return nil, err
	}

	return NormalizeAll(entries), nil
}

// ContentOf decodes a raw generator body into a Content block.
// An object wrapping the block under "content" is unwrapped.
func ContentOf(body string) (Content, error) {
	payload, err := formatting.Parse[map[string]any](body)
	if err != nil {
		return Content{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if inner, ok := payload["content"].(map[string]any); ok {
		payload = inner
	}

	return NormalizeContent(payload), nil
}

func entriesOf(payload any) ([]map[string]any, error) {
	switch p := payload.(type) {
	case []any:
		return objects(p), nil
	case map[string]any:
		for _, k := range listKeys {
			if v, ok := p[k]; ok {
				items, ok := v.([]any)
				if !ok {
					return nil, fmt.Errorf("%w: %q is not a list", ErrMalformedResponse, k)
				}
				return objects(items), nil
			}
		}
		if firstText(p, nameKeys) != "" {
			return []map[string]any{p}, nil
		}
		return []map[string]any{}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected payload type %T", ErrMalformedResponse, payload)
	}
}

func objects(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
