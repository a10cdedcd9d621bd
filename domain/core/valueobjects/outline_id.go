package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// OutlineID is a value object representing a unique document identifier
// Value objects are immutable and have no identity beyond their value
type OutlineID struct {
	value string
}

// NewOutlineID creates a new random OutlineID
func NewOutlineID() OutlineID {
	return OutlineID{value: uuid.New().String()}
}

// NewOutlineIDFromString creates an OutlineID from an existing string
func NewOutlineIDFromString(id string) (OutlineID, error) {
	if id == "" {
		return OutlineID{}, errors.New("outline ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return OutlineID{}, errors.New("outline ID must be a valid UUID")
	}
	return OutlineID{value: id}, nil
}

// String returns the string representation of the OutlineID
func (id OutlineID) String() string {
	return id.value
}

// Equals checks if two OutlineIDs are equal
func (id OutlineID) Equals(other OutlineID) bool {
	return id.value == other.value
}

// IsZero checks if the OutlineID is the zero value
func (id OutlineID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id OutlineID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *OutlineID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("OutlineID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
