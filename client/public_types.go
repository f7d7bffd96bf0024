package client

import "github.com/georgelotishvili/certification/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
type (
	// Request lifecycle
	RequestOptions = types.RequestOptions
	Call           = types.Call
	Result         = types.Result

	// Requests
	LoginRequest = types.LoginRequest
	CodeRequest  = types.CodeRequest
	GateRequest  = types.GateRequest

	// Domain entities
	Profile    = types.Profile
	ExamConfig = types.ExamConfig
	Timestamp  = types.Timestamp

	// Responses
	GateResult = types.GateResult
)
