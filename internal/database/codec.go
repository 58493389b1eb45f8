package database

import (
	"fmt"

	"github.com/philippgille/gokv/encoding"
)

// Raw stores values as-is, so the catalog key holds exactly the JSON text.
var Raw encoding.Codec = rawCodec{}

type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	switch val := v.(type) {
	case []byte:
		return val, nil
	case string:
		return []byte(val), nil
	case *[]byte:
		return *val, nil
	case *string:
		return []byte(*val), nil
	default:
		return nil, fmt.Errorf("raw codec: unsupported value type %T", v)
	}
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	switch dst := v.(type) {
	case *[]byte:
		*dst = append((*dst)[:0], data...)
		return nil
	case *string:
		*dst = string(data)
		return nil
	default:
		return fmt.Errorf("raw codec: unsupported target type %T", v)
	}
}
