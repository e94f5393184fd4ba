package domain

// User represents a registered owner of financial data.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Email        string `json:"email"` // Unique
	PasswordHash string `json:"-"`     // bcrypt hash, never serialized
	AuditFields
}
