package selection

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AllToken is the wire form of a wildcard selector.
const AllToken = "ALL"

// Selector names either one specific child id or every child under a parent.
// The zero value selects nothing and is rejected by Valid.
type Selector[K comparable] struct {
	id  K
	all bool
	ok  bool
}

// Specific returns a selector for exactly one child.
func Specific[K comparable](id K) Selector[K] {
	return Selector[K]{id: id, ok: true}
}

// All returns the wildcard selector ("every child under this parent").
func All[K comparable]() Selector[K] {
	return Selector[K]{all: true, ok: true}
}

// Valid reports whether s was built by Specific or All.
func (s Selector[K]) Valid() bool { return s.ok }

// IsAll reports whether s is the wildcard.
func (s Selector[K]) IsAll() bool { return s.ok && s.all }

// ID returns the specific id. The boolean is false for the wildcard and for
// the zero value.
func (s Selector[K]) ID() (K, bool) {
	if !s.ok || s.all {
		var zero K
		return zero, false
	}
	return s.id, true
}

func (s Selector[K]) String() string {
	switch {
	case !s.ok:
		return "<none>"
	case s.all:
		return AllToken
	default:
		return fmt.Sprint(s.id)
	}
}

// MarshalJSON encodes the wildcard as "ALL" and a specific selector as its id.
func (s Selector[K]) MarshalJSON() ([]byte, error) {
	if !s.ok {
		return []byte("null"), nil
	}
	if s.all {
		return json.Marshal(AllToken)
	}
	return json.Marshal(s.id)
}

// UnmarshalJSON accepts "ALL" or a JSON value decodable into K.
func (s *Selector[K]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Selector[K]{}
		return nil
	}
	var token string
	if err := json.Unmarshal(data, &token); err == nil && token == AllToken {
		*s = All[K]()
		return nil
	}
	var id K
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("selector must be %q or an id: %w", AllToken, err)
	}
	*s = Specific(id)
	return nil
}
