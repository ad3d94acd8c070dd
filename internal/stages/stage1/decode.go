package stage1

import "encoding/json"

// decodeViaJSON re-marshals a generic map (produced by json.Unmarshal
// into map[string]interface{} at the controller boundary) and decodes
// it into a typed Payload, avoiding a second bespoke reflection-based
// decoder.
func decodeViaJSON(m map[string]interface{}) (Payload, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return Payload{}, err
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}
