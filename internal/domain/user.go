package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name"          json:"name"`
	Email    string             `bson:"email"         json:"email"`
	Avatar   string             `bson:"avatar"        json:"avatar"`
	Password string             `bson:"password"      json:"-"` // bcrypt hash
	Date     time.Time          `bson:"date"          json:"date"`
}

// UserSummary is the part of a user attached to a populated profile.
type UserSummary struct {
	ID     primitive.ObjectID `bson:"_id"    json:"_id"`
	Name   string             `bson:"name"   json:"name"`
	Avatar string             `bson:"avatar" json:"avatar"`
}

// Identity is the verified principal of an authenticated request.
type Identity struct {
	UserID primitive.ObjectID
}
