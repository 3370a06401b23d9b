package fedreg

import "encoding/json"

// AgencyRef is one agency reference extracted from a document's agency list,
// carrying the original JSON fragment for the normalized agencies relation.
type AgencyRef struct {
	Name string
	Raw  json.RawMessage
}

// AgencyRefs extracts agency references from the raw agencies field of a
// document. The upstream API is inconsistent about the field's shape, so
// this tolerates a JSON string, a list of objects, a list of names, or a
// single object. Entries without a resolvable name are dropped.
func AgencyRefs(raw any) []AgencyRef {
	if raw == nil {
		return nil
	}

	switch v := raw.(type) {
	case string:
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return nil
		}
		return AgencyRefs(decoded)
	case []any:
		refs := make([]AgencyRef, 0, len(v))
		for _, item := range v {
			if ref, ok := agencyRef(item); ok {
				refs = append(refs, ref)
			}
		}
		return refs
	default:
		if ref, ok := agencyRef(v); ok {
			return []AgencyRef{ref}
		}
		return nil
	}
}

// AgencyNames returns just the display names from AgencyRefs.
func AgencyNames(raw any) []string {
	refs := AgencyRefs(raw)
	if len(refs) == 0 {
		return nil
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}

// agencyRef converts a single agency entry into an AgencyRef.
func agencyRef(item any) (AgencyRef, bool) {
	switch v := item.(type) {
	case map[string]any:
		name := stringKey(v, "name")
		if name == "" {
			name = stringKey(v, "raw_name")
		}
		if name == "" {
			name = stringKey(v, "agency")
		}
		if name == "" {
			return AgencyRef{}, false
		}
		raw, err := json.Marshal(v)
		if err != nil {
			raw = nil
		}
		return AgencyRef{Name: name, Raw: raw}, true
	case string:
		if v == "" {
			return AgencyRef{}, false
		}
		raw, _ := json.Marshal(v)
		return AgencyRef{Name: v, Raw: raw}, true
	default:
		return AgencyRef{}, false
	}
}

func stringKey(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
