package types

// ------------------------------
// Request Types
// ------------------------------

// LoginRequest carries credentials for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CodeRequest asks the backend to send a one-time login code.
type CodeRequest struct {
	Email string `json:"email"`
}

// GateRequest submits the password that unlocks an exam.
type GateRequest struct {
	Password string `json:"password"`
}
