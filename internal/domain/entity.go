package domain

import (
	"errors"

	"github.com/google/uuid"
)

// EntityType represents the legal form of an owner
type EntityType string

const (
	EntityTypeIndividual EntityType = "INDIVIDUAL"
	EntityTypeCouple     EntityType = "COUPLE"
	EntityTypeCompany    EntityType = "COMPANY"
	EntityTypeTrust      EntityType = "TRUST"
	EntityTypeFoundation EntityType = "FOUNDATION"
	EntityTypeOther      EntityType = "OTHER"
)

// Entity is a legal or personal owner that records can be attributed to
type Entity struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Type   EntityType
}

// Validate ensures the entity adheres to domain rules
func (e *Entity) Validate() error {
	if e.Name == "" {
		return errors.New("entity name cannot be empty")
	}
	switch e.Type {
	case EntityTypeIndividual, EntityTypeCouple, EntityTypeCompany,
		EntityTypeTrust, EntityTypeFoundation, EntityTypeOther:
		return nil
	}
	return errors.New("invalid entity type " + string(e.Type))
}

// UnassignedLabel is how the unassigned owner renders
const UnassignedLabel = "unassigned"

// Owner is either a known entity or the synthetic unassigned bucket.
// The zero value is Unassigned. Owner is comparable and can key a map.
type Owner struct {
	id       uuid.UUID
	assigned bool
}

// Unassigned absorbs every record that has no owning entity
var Unassigned = Owner{}

// KnownOwner returns the owner for an entity id
func KnownOwner(id uuid.UUID) Owner {
	return Owner{id: id, assigned: true}
}

// OwnerOf returns KnownOwner(*id) or Unassigned when id is nil
func OwnerOf(id *uuid.UUID) Owner {
	if id == nil {
		return Unassigned
	}
	return KnownOwner(*id)
}

// EntityID returns the entity id and false for the unassigned owner
func (o Owner) EntityID() (uuid.UUID, bool) {
	return o.id, o.assigned
}

// IsUnassigned reports whether o is the unassigned bucket
func (o Owner) IsUnassigned() bool {
	return !o.assigned
}

func (o Owner) String() string {
	if !o.assigned {
		return UnassignedLabel
	}
	return o.id.String()
}

// ParseOwner is the inverse of Owner.String
func ParseOwner(s string) (Owner, error) {
	if s == "" || s == UnassignedLabel {
		return Unassigned, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return Owner{}, err
	}
	return KnownOwner(id), nil
}

// MarshalText renders the owner as its string form
func (o Owner) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses the string form produced by MarshalText
func (o *Owner) UnmarshalText(b []byte) error {
	parsed, err := ParseOwner(string(b))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
