package queue

const (
	KeyUserRegistered = "user.registered"
	KeyProfileSaved   = "profile.saved"
)

type UserRegistered struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type ProfileSaved struct {
	UserID  string `json:"user_id"`
	Created bool   `json:"created"`
}
