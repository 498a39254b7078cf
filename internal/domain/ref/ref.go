// Package ref models the backend's loosely shaped entity references. The
// same field arrives as a bare id, a plain name string, or an embedded
// {id,name} object depending on the endpoint; Ref folds all three into one
// tagged value with a single display rule.
package ref

import (
	"encoding/json"
	"strings"
)

// Ref is a reference to a named entity (department, doctor, patient,
// disease). Zero value means absent.
type Ref struct {
	ID   int64
	Name string
}

// Display returns the canonical display string: the embedded or inline
// name when present, otherwise fallback.
func (r Ref) Display(fallback string) string {
	if strings.TrimSpace(r.Name) != "" {
		return r.Name
	}
	return fallback
}

// IsZero reports whether the reference is absent.
func (r Ref) IsZero() bool { return r.ID == 0 && r.Name == "" }

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = []byte(strings.TrimSpace(string(b)))
	if len(b) == 0 || string(b) == "null" {
		*r = Ref{}
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Ref{Name: s}
		return nil
	case '{':
		var obj struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*r = Ref{ID: obj.ID, Name: obj.Name}
		return nil
	default:
		var id int64
		if err := json.Unmarshal(b, &id); err != nil {
			// Unrecognized shapes normalize to absent rather than failing
			// the whole payload.
			*r = Ref{}
			return nil
		}
		*r = Ref{ID: id}
		return nil
	}
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	if r.ID == 0 {
		return json.Marshal(r.Name)
	}
	return json.Marshal(struct {
		ID   int64  `json:"id"`
		Name string `json:"name,omitempty"`
	}{r.ID, r.Name})
}
