package graphql

import (
	"encoding"
	"fmt"
	"math"
	"strconv"
)

// The built-in scalar coercion functions below implement the GraphQL spec's
// coercion rules for Int, Float, String, Boolean, and ID. Parse receives the
// decoded JSON-ish raw value (bool, string, float64, int64, []interface{},
// map[string]interface{}, or nil) that coerceRawValue or literalRaw in
// input.go hands it; Serialize receives
// whatever a resolver returned for the field.

func parseIntInput(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("Int cannot represent value %d: out of 32-bit range", v)
		}
		return v, nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("Int cannot represent non-integer value %v", v)
		}
		return int64(v), nil
	default:
		return nil, fmt.Errorf("Int cannot represent value %v", raw)
	}
}

func serializeIntOutput(value interface{}) (interface{}, error) {
	n, err := toInt64(value)
	if err != nil {
		return nil, fmt.Errorf("Int: %w", err)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil, fmt.Errorf("Int cannot represent value %d: out of 32-bit range", n)
	}
	return n, nil
}

func parseFloatInput(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("Float cannot represent value %v", raw)
	}
}

func serializeFloatOutput(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int, int32, int64:
		n, _ := toInt64(v)
		return float64(n), nil
	case NullFloat:
		if !v.Valid {
			return nil, fmt.Errorf("Float: null NullFloat")
		}
		return v.Float, nil
	default:
		return nil, fmt.Errorf("Float cannot represent value %v", value)
	}
}

func parseStringInput(raw interface{}) (interface{}, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("String cannot represent value %v", raw)
	}
	return s, nil
}

func serializeStringOutput(value interface{}) (interface{}, error) {
	if tm, ok := value.(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("String: %w", err)
		}
		return string(b), nil
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return nil, fmt.Errorf("String cannot represent non-string value %v", value)
	}
}

func parseBooleanInput(raw interface{}) (interface{}, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("Boolean cannot represent value %v", raw)
	}
	return b, nil
}

func serializeBooleanOutput(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case NullBoolean:
		if !v.Valid {
			return nil, fmt.Errorf("Boolean: null NullBoolean")
		}
		return v.Bool, nil
	default:
		return nil, fmt.Errorf("Boolean cannot represent non-boolean value %v", value)
	}
}

func parseIDInput(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return nil, fmt.Errorf("ID cannot represent value %v", raw)
	default:
		return nil, fmt.Errorf("ID cannot represent value %v", raw)
	}
}

func serializeIDOutput(value interface{}) (interface{}, error) {
	if tm, ok := value.(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("ID: %w", err)
		}
		return string(b), nil
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		n, err := toInt64(value)
		if err != nil {
			return nil, fmt.Errorf("ID cannot represent value %v", value)
		}
		return strconv.FormatInt(n, 10), nil
	}
}

func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v == math.Trunc(v) {
			return int64(v), nil
		}
		return 0, fmt.Errorf("non-integer value %v", v)
	case NullInt:
		if !v.Valid {
			return 0, fmt.Errorf("null NullInt")
		}
		return int64(v.Int), nil
	default:
		return 0, fmt.Errorf("cannot represent value %v as an integer", value)
	}
}
