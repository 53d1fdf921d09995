package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixUser     = "user"
	PrefixVenue    = "venue"
	PrefixSnapshot = "snap"
	PrefixSection  = "sect"
	PrefixAisle    = "aisle"
	PrefixOp       = "op"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewUserID() string     { return New(PrefixUser) }
func NewVenueID() string    { return New(PrefixVenue) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewSectionID() string  { return New(PrefixSection) }
func NewAisleID() string    { return New(PrefixAisle) }
func NewOpID() string       { return New(PrefixOp) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
