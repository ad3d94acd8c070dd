package stage4

import (
	"encoding/json"
	"fmt"
)

// DecodePayload re-decodes a generic stage-4 output value into a typed
// Payload.
func DecodePayload(raw interface{}) (Payload, error) {
	switch v := raw.(type) {
	case Payload:
		return v, nil
	case map[string]interface{}:
		buf, err := json.Marshal(v)
		if err != nil {
			return Payload{}, err
		}
		var p Payload
		if err := json.Unmarshal(buf, &p); err != nil {
			return Payload{}, err
		}
		return p, nil
	default:
		return Payload{}, fmt.Errorf("stage4 upstream payload: unexpected type %T", raw)
	}
}
