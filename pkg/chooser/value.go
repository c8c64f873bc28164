package chooser

import "fmt"

// ValueData is the payload describing the current selection. Common keys are
// id, edit_url and title; widgets add their own (preview for images).
type ValueData map[string]any

// ID returns the selected object's id, or "" when there is none.
func (v ValueData) ID() string {
	return v.String("id")
}

// String returns the value stored under key formatted as a string.
func (v ValueData) String(key string) string {
	if v == nil {
		return ""
	}
	switch value := v[key].(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}

// Map returns the nested map stored under key, or nil.
func (v ValueData) Map(key string) map[string]any {
	if v == nil {
		return nil
	}
	switch value := v[key].(type) {
	case map[string]any:
		return value
	case ValueData:
		return value
	}
	return nil
}

// Clone returns a shallow copy.
func (v ValueData) Clone() ValueData {
	if v == nil {
		return nil
	}
	out := make(ValueData, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}
