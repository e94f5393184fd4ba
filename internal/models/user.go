package models

// User mirrors the users table.
type User struct {
	UserID       string
	Name         string
	Email        string
	PasswordHash string
	AuditFields
}
