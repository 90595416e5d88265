package models

// UserRef is a read-only projection of a backend user.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
