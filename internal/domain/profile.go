package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Social struct {
	YouTube   string `bson:"youtube,omitempty"   json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty"   json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty"  json:"facebook,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"  json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

func (s Social) IsZero() bool { return s == Social{} }

// ProfileFields holds the editable part of a profile. An empty string or a nil
// slice means "not supplied": such fields are never written.
type ProfileFields struct {
	Company        string   `bson:"company,omitempty"        json:"company,omitempty"`
	Website        string   `bson:"website,omitempty"        json:"website,omitempty"`
	Location       string   `bson:"location,omitempty"       json:"location,omitempty"`
	Bio            string   `bson:"bio,omitempty"            json:"bio,omitempty"`
	Status         string   `bson:"status,omitempty"         json:"status,omitempty"`
	GitHubUsername string   `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Skills         []string `bson:"skills,omitempty"         json:"skills"`
	Social         Social   `bson:"social,omitempty"         json:"social"`
}

type Profile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User          primitive.ObjectID `bson:"user"          json:"user"`
	ProfileFields `bson:",inline"`
	Date          time.Time `bson:"date" json:"date"`
}

// ProfileView is a profile with its owner populated.
type ProfileView struct {
	ID            primitive.ObjectID `bson:"_id"  json:"_id"`
	User          *UserSummary       `bson:"user" json:"user"`
	ProfileFields `bson:",inline"`
	Date          time.Time `bson:"date" json:"date"`
}

// ProfileInput is the raw, untrimmed request payload of a profile write.
type ProfileInput struct {
	Company, Website, Location, Bio, Status, GitHubUsername string
	Skills                                                  string
	YouTube, Twitter, Facebook, LinkedIn, Instagram         string
}

// Fields assembles the sparse field-set: values are copied as given, skills are parsed.
func (in ProfileInput) Fields() ProfileFields {
	return ProfileFields{
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		Status:         in.Status,
		GitHubUsername: in.GitHubUsername,
		Skills:         ParseSkills(in.Skills),
		Social: Social{
			YouTube:   in.YouTube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			LinkedIn:  in.LinkedIn,
			Instagram: in.Instagram,
		},
	}
}

// ParseSkills splits a comma separated list, trims every element and drops empty ones.
// The result is nil when nothing is left.
func ParseSkills(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
