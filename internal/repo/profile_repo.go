package repo

import (
	"context"
	"errors"
	"time"

	"github.com/tazhibayda/devconnector/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindProfileByUser returns the profile owned by userID with the owner's name
// and avatar joined in, or nil, nil when the user has no profile.
func (s *Store) FindProfileByUser(ctx context.Context, userID primitive.ObjectID) (p *domain.ProfileView, err error) {
	ctx, done := startSpan(ctx, "profiles.findByUser")
	defer func() { done(err) }()

	cur, err := s.colProfiles.Aggregate(ctx, populateOwner(userID))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return nil, cur.Err()
	}
	var out domain.ProfileView
	if err := cur.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func populateOwner(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user", Value: userID}}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "let", Value: bson.D{{Key: "uid", Value: "$user"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$_id", "$$uid"}},
				}}}}},
				bson.D{{Key: "$project", Value: bson.D{{Key: "name", Value: 1}, {Key: "avatar", Value: 1}}}},
			}},
			{Key: "as", Value: "user"},
		}}},
		// a dangling owner reference leaves user unset
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// UpsertProfile creates the profile of userID or merges f into the existing one
// in a single atomic operation. created reports whether a new document was inserted.
//
// Two first writes racing on the unique user index make one of them fail with a
// duplicate key; that one is retried once and then lands as an update.
func (s *Store) UpsertProfile(ctx context.Context, userID primitive.ObjectID, f domain.ProfileFields) (p *domain.Profile, created bool, err error) {
	ctx, done := startSpan(ctx, "profiles.upsert")
	defer func() { done(err) }()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	for attempt := 0; ; attempt++ {
		newID := primitive.NewObjectID()
		update := bson.D{
			{Key: "$set", Value: profileSetDoc(userID, f)},
			{Key: "$setOnInsert", Value: bson.D{
				{Key: "_id", Value: newID},
				{Key: "date", Value: time.Now().UTC()},
			}},
		}

		var out domain.Profile
		err = s.colProfiles.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&out)
		if IsDup(err) && attempt == 0 {
			continue
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, errors.New("upsert returned no document")
		}
		if err != nil {
			return nil, false, err
		}
		return &out, out.ID == newID, nil
	}
}

// profileSetDoc lists the fields a profile write touches: the owner plus every
// non-empty supplied field. Social links are addressed by dotted path so the
// ones not supplied keep their stored values.
func profileSetDoc(userID primitive.ObjectID, f domain.ProfileFields) bson.D {
	set := bson.D{{Key: "user", Value: userID}}
	add := func(key, v string) {
		if v != "" {
			set = append(set, bson.E{Key: key, Value: v})
		}
	}
	add("company", f.Company)
	add("website", f.Website)
	add("location", f.Location)
	add("bio", f.Bio)
	add("status", f.Status)
	add("githubusername", f.GitHubUsername)
	if f.Skills != nil {
		set = append(set, bson.E{Key: "skills", Value: f.Skills})
	}
	add("social.youtube", f.Social.YouTube)
	add("social.twitter", f.Social.Twitter)
	add("social.facebook", f.Social.Facebook)
	add("social.linkedin", f.Social.LinkedIn)
	add("social.instagram", f.Social.Instagram)
	return set
}
