package guardrail

import (
	"regexp"
	"strings"
)

const (
	maxLabels     = 8
	maxLabelLen   = 16
	maxDiagramDim = 10000
)

var labelKey = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,7}$`)

// SanitizeDiagram keeps a diagram only if it is a recognised figure with
// plausible dimensions, and returns nil otherwise. Unknown keys are dropped.
func SanitizeDiagram(raw map[string]any) map[string]any {
	kind, _ := raw["type"].(string)
	var out map[string]any
	switch kind {
	case "right_triangle":
		out = dims(raw, "a", "b", "c")
	case "rectangle":
		out = dims(raw, "w", "h")
	case "triangle":
		out = triangle(raw)
	}
	if out == nil {
		return nil
	}
	out["type"] = kind
	if labels := sanitizeLabels(raw["labels"]); len(labels) > 0 {
		out["labels"] = labels
	}
	return out
}

func dims(raw map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys)+2)
	for _, k := range keys {
		n, ok := toInt(raw[k])
		if !ok || n <= 0 || n > maxDiagramDim {
			return nil
		}
		out[k] = n
	}
	return out
}

// triangle requires three positive angles summing to 180. The angles may
// be nested under "angles" or given at the top level.
func triangle(raw map[string]any) map[string]any {
	src := raw
	if nested, ok := raw["angles"].(map[string]any); ok {
		src = nested
	}
	angles := make(map[string]int, 3)
	sum := 0
	for _, k := range []string{"A", "B", "C"} {
		n, ok := toInt(src[k])
		if !ok || n <= 0 || n >= 180 {
			return nil
		}
		angles[k] = n
		sum += n
	}
	if sum != 180 {
		return nil
	}
	return map[string]any{"angles": angles}
}

func sanitizeLabels(v any) map[string]string {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string)
	for k, val := range raw {
		s, isText := val.(string)
		s = strings.TrimSpace(s)
		if !isText || s == "" || !labelKey.MatchString(k) {
			continue
		}
		if runeLen(s) > maxLabelLen || HasUnsafeLatex(s) || strings.ContainsAny(s, "<>") {
			continue
		}
		out[k] = s
		if len(out) == maxLabels {
			break
		}
	}
	return out
}
