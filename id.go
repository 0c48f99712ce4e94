package bsonskema

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID is an opaque document identifier backed by an object id.
type ID struct {
	oid primitive.ObjectID
}

// ErrInvalidID is returned when parsing a malformed identifier.
var ErrInvalidID = errors.New("bsonskema: invalid id")

// NewID generates a fresh identifier.
func NewID() ID { return ID{oid: primitive.NewObjectID()} }

// IDFromObjectID wraps an object id.
func IDFromObjectID(oid primitive.ObjectID) ID { return ID{oid: oid} }

// ParseID parses the 24 character hex form of an identifier.
func ParseID(s string) (ID, error) {
	if !IsValidID(s) {
		return ID{}, ErrInvalidID
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return ID{}, errors.Join(ErrInvalidID, err)
	}
	return ID{oid: oid}, nil
}

// IsValidID reports whether s is the textual form of an identifier.
func IsValidID(s string) bool { return primitive.IsValidObjectID(s) }

// ObjectID returns the underlying object id.
func (id ID) ObjectID() primitive.ObjectID { return id.oid }

// IsZero reports whether id was never assigned.
func (id ID) IsZero() bool { return id.oid.IsZero() }

func (id ID) String() string { return id.oid.Hex() }
