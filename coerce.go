package docmap

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// coerceValue converts a raw attribute value to the declared key type.
// Only simple scalar types are coerced; maps, lists, embedded documents
// and KeyTypeAny values pass through unchanged.
func coerceValue(value any, keyType KeyType) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch keyType {
	case KeyTypeString:
		return toString(value)
	case KeyTypeInteger:
		return toInt64(value)
	case KeyTypeFloat:
		return toFloat64(value)
	case KeyTypeBool:
		return toBool(value)
	case KeyTypeTime:
		return toTime(value)
	case KeyTypeObjectID:
		id, ok := toUUID(value)
		if !ok {
			return nil, fmt.Errorf("invalid object id value: %v", value)
		}
		return id, nil
	default:
		return value, nil
	}
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprintf("%v", value), nil
	}
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", value)
	}
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", value)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}

func toTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case int64:
		return time.UnixMilli(v), nil
	case float64:
		return time.UnixMilli(int64(v)), nil
	case string:
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.UnixMilli(epoch), nil
		}
		formats := []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02",
			"2006-01",
		}
		for _, format := range formats {
			if parsed, err := time.Parse(format, v); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("unsupported time format: %s", v)
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time.Time", value)
	}
}

func toUUID(value any) (uuid.UUID, bool) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, true
	case *uuid.UUID:
		if v == nil {
			return uuid.Nil, false
		}
		return *v, true
	case string:
		parsed, err := uuid.Parse(v)
		return parsed, err == nil
	case []byte:
		if len(v) == 16 {
			parsed, err := uuid.FromBytes(v)
			return parsed, err == nil
		}
		parsed, err := uuid.Parse(string(v))
		return parsed, err == nil
	default:
		return uuid.Nil, false
	}
}
