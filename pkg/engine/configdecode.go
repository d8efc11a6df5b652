package engine

import "encoding/json"

// DecodeConfig maps a raw configuration bag onto a typed config struct via a
// JSON round-trip, so node packages can declare explicit fields and defaults
// instead of ad hoc string-keyed lookups.
func DecodeConfig(raw map[string]interface{}, v interface{}) error {
	if raw == nil {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
