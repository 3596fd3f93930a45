package oracle

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"jobmatch-workers/internal/common/validation"
	"jobmatch-workers/internal/models"
)

var percentageSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["percentage"],
	"properties": {
		"percentage": {"type": "number"}
	}
}`)

var rationaleSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["strengths", "areasToImprove"],
	"properties": {
		"strengths":      {"type": "array", "items": {"type": "string"}},
		"areasToImprove": {"type": "array", "items": {"type": "string"}}
	}
}`)

// ParsePercentage extracts {"percentage": n} from model text. The value is
// returned unclamped; non-finite values are malformed.
func ParsePercentage(raw string) (float64, error) {
	doc, err := extractJSON(raw)
	if err != nil {
		return 0, err
	}
	if err := percentageSchema.ValidateJSON([]byte(doc)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var out struct {
		Percentage float64 `json:"percentage"`
	}
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if math.IsNaN(out.Percentage) || math.IsInf(out.Percentage, 0) {
		return 0, fmt.Errorf("%w: percentage is not finite", ErrMalformedResponse)
	}
	return out.Percentage, nil
}

// ParseRationale extracts strengths and areas to improve, dropping blank items.
func ParseRationale(raw string) (models.Rationale, error) {
	doc, err := extractJSON(raw)
	if err != nil {
		return models.Rationale{}, err
	}
	if err := rationaleSchema.ValidateJSON([]byte(doc)); err != nil {
		return models.Rationale{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var out models.Rationale
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return models.Rationale{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	out.Strengths = compact(out.Strengths)
	out.AreasToImprove = compact(out.AreasToImprove)
	return out, nil
}

// extractJSON strips markdown fences and surrounding prose and returns the
// outermost JSON object.
func extractJSON(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyResponse
	}
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}
	return raw[start : end+1], nil
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
