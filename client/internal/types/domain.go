package types

// ------------------------------
// Core Domain Entities
// ------------------------------

// Profile is a user as returned by the profile endpoints.
type Profile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Code      string    `json:"code,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt Timestamp `json:"created_at"`
}

// ExamConfig holds the exam settings edited from the admin panel.
type ExamConfig struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	GatePassword    string `json:"gate_password,omitempty"`
	BlocksCount     int    `json:"blocks_count,omitempty"`
	IsActive        bool   `json:"is_active"`
}
