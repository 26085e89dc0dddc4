package repo

import (
	"context"
	"errors"
	"time"

	"github.com/tazhibayda/devconnector/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrEmailExists = errors.New("email already exists")

// FindUserByEmail returns nil, nil when no user has the address.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (u *domain.User, err error) {
	ctx, done := startSpan(ctx, "users.findByEmail")
	defer func() { done(err) }()

	var out domain.User
	err = s.colUsers.FindOne(ctx, bson.M{"email": email}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (u *domain.User, err error) {
	ctx, done := startSpan(ctx, "users.findByID")
	defer func() { done(err) }()

	var out domain.User
	err = s.colUsers.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser inserts u and fills in its ID and creation date.
// A violation of the unique email index is reported as ErrEmailExists.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) (err error) {
	ctx, done := startSpan(ctx, "users.insert")
	defer func() { done(err) }()

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Date = time.Now().UTC()

	_, err = s.colUsers.InsertOne(ctx, u)
	if IsDup(err) {
		return ErrEmailExists
	}
	return err
}
