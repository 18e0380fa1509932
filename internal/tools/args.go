package tools

import (
	"encoding/json"
	"math"
	"strings"

	"dune-mcp/internal/dune"
)

// Arguments is the raw argument bundle of one tool invocation. Accessors
// coerce JSON-decoded values and report failures as validation errors so bad
// input never reaches the transport client.
type Arguments map[string]any

// String returns a required string argument.
func (a Arguments) String(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", dune.NewValidationError("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", dune.NewValidationError("argument %q must be a string", key)
	}
	return s, nil
}

// StringOr returns an optional string argument, or def when absent.
func (a Arguments) StringOr(key, def string) string {
	if s, ok := a[key].(string); ok {
		return s
	}
	return def
}

// Int returns a required integer argument. JSON numbers arrive as float64;
// fractional values are rejected.
func (a Arguments) Int(key string) (int64, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, dune.NewValidationError("missing required argument %q", key)
	}
	return coerceInt(key, v)
}

// OptionalInt returns an integer argument and whether it was present.
func (a Arguments) OptionalInt(key string) (int64, bool, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	n, err := coerceInt(key, v)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// IntOr returns an integer argument, or def when absent. Coercion failures
// still surface.
func (a Arguments) IntOr(key string, def int64) (int64, error) {
	n, ok, err := a.OptionalInt(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return n, nil
}

// BoolOr returns an optional boolean argument, or def when absent.
func (a Arguments) BoolOr(key string, def bool) bool {
	if b, ok := a[key].(bool); ok {
		return b
	}
	return def
}

func coerceInt(key string, v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, dune.NewValidationError("argument %q must be an integer", key)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, dune.NewValidationError("argument %q must be an integer", key)
		}
		return i, nil
	default:
		return 0, dune.NewValidationError("argument %q must be an integer", key)
	}
}

// JSONObject decodes an optional JSON-string argument into a map, matching
// the original tool surface where parameter bindings arrive as JSON text.
func (a Arguments) JSONObject(key string) (map[string]any, error) {
	s := a.StringOr(key, "")
	if s == "" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, dune.NewValidationError("argument %q must be a JSON object: %v", key, err)
	}
	return out, nil
}

// queryParameters decodes the JSON-string parameter list accepted by
// create_query and update_query.
func (a Arguments) queryParameters(key string) ([]dune.QueryParameter, error) {
	s := a.StringOr(key, "")
	if s == "" {
		return nil, nil
	}
	var out []dune.QueryParameter
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, dune.NewValidationError("argument %q must be a JSON array of parameter objects: %v", key, err)
	}
	return out, nil
}

// tableSchema decodes the JSON-string column list accepted by create_table.
func (a Arguments) tableSchema(key string) ([]dune.TableColumn, error) {
	s, err := a.String(key)
	if err != nil {
		return nil, err
	}
	var out []dune.TableColumn
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, dune.NewValidationError("argument %q must be a JSON array of column objects: %v", key, err)
	}
	return out, nil
}

// rows decodes the JSON-string row list accepted by insert_data.
func (a Arguments) rows(key string) ([]map[string]any, error) {
	s, err := a.String(key)
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, dune.NewValidationError("argument %q must be a JSON array of row objects: %v", key, err)
	}
	return out, nil
}

// tags splits the comma-separated tag list accepted by query tools.
func (a Arguments) tags(key string) []string {
	s := a.StringOr(key, "")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
