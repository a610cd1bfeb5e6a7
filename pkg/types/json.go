package types

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON renders the value as its natural JSON counterpart.
// Unknown marshals as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeUnknown:
		return []byte("null"), nil
	case TypeBool:
		return json.Marshal(v.boolVal)
	case TypeExact:
		return json.Marshal(v.exactVal)
	case TypeInexact:
		return json.Marshal(v.inexactVal)
	case TypeString:
		return json.Marshal(v.stringVal)
	default:
		return nil, fmt.Errorf("cannot marshal %s value", v.typ)
	}
}
