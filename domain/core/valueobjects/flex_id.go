package valueobjects

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FlexID is a value object for identifiers that cross the document/graph
// boundary. Callers supply them inconsistently as strings or numbers, so
// every comparison must succeed across raw, string-cast, and numeric-cast
// representations.
type FlexID struct {
	value string
}

// NewFlexID creates a FlexID from a string value
func NewFlexID(value string) FlexID {
	return FlexID{value: strings.TrimSpace(value)}
}

// NewFlexIDFromInt creates a FlexID from a numeric value
func NewFlexIDFromInt(value int) FlexID {
	return FlexID{value: strconv.Itoa(value)}
}

// NewFlexIDFromAny creates a FlexID from any supported representation.
// JSON decoding yields float64 for numbers, so that case is handled too.
func NewFlexIDFromAny(value interface{}) FlexID {
	switch v := value.(type) {
	case nil:
		return FlexID{}
	case string:
		return NewFlexID(v)
	case int:
		return NewFlexIDFromInt(v)
	case int64:
		return FlexID{value: strconv.FormatInt(v, 10)}
	case float64:
		return FlexID{value: strconv.FormatInt(int64(v), 10)}
	case FlexID:
		return v
	default:
		return FlexID{value: fmt.Sprintf("%v", v)}
	}
}

// String returns the string representation
func (id FlexID) String() string {
	return id.value
}

// IsZero checks if the FlexID is the zero value
func (id FlexID) IsZero() bool {
	return id.value == ""
}

// Int returns the numeric value if the identifier is numeric
func (id FlexID) Int() (int, bool) {
	n, err := strconv.Atoi(id.value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Matches reports whether two identifiers refer to the same entity.
// Raw equality is checked first, then numeric equality so that "05"
// and 5 compare equal.
func (id FlexID) Matches(other FlexID) bool {
	if id.IsZero() || other.IsZero() {
		return false
	}
	if id.value == other.value {
		return true
	}
	a, aok := id.Int()
	b, bok := other.Int()
	return aok && bok && a == b
}

// MatchesInt reports whether the identifier refers to the given number
func (id FlexID) MatchesInt(n int) bool {
	return id.Matches(NewFlexIDFromInt(n))
}

// GroupRef extracts N from the "group-{N}" reference form. The whole
// suffix must be numeric; "group-3-extra" is not a group reference.
func (id FlexID) GroupRef() (int, bool) {
	rest, ok := strings.CutPrefix(id.value, "group-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON implements json.Marshaler
func (id FlexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.value)), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting both string and
// numeric wire forms.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		id.value = unquoted
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("FlexID must be a string or number")
	}
	id.value = strconv.FormatInt(int64(f), 10)
	return nil
}
