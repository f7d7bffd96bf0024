package client

import (
	"context"

	"github.com/georgelotishvili/certification/client/internal/api"
)

// --------------------------------------------------------------------
// User operations - delegated to internal/api
// --------------------------------------------------------------------

// Profile retrieves the logged-in user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	return api.GetProfile(ctx, c, c.cfg.Endpoints.Users.Profile)
}

// PublicProfile retrieves another user's public profile.
func (c *Client) PublicProfile(ctx context.Context, userID int64) (*Profile, error) {
	return api.GetPublicProfile(ctx, c, c.cfg.Endpoints.Users.Public, userID)
}

// --------------------------------------------------------------------
// Exam operations - delegated to internal/api
// --------------------------------------------------------------------

// ExamConfig fetches the exam settings.
func (c *Client) ExamConfig(ctx context.Context) (*ExamConfig, error) {
	return api.GetExamConfig(ctx, c, c.cfg.Endpoints.Exam.Config)
}

// UpdateExamConfig saves the exam settings on behalf of actorEmail.
func (c *Client) UpdateExamConfig(ctx context.Context, cfg ExamConfig, actorEmail string) (*ExamConfig, error) {
	return api.UpdateExamConfig(ctx, c, c.cfg.Endpoints.Exam.Config, cfg, actorEmail)
}

// VerifyGate checks the gate password of an exam.
func (c *Client) VerifyGate(ctx context.Context, examID, password string) (*GateResult, error) {
	return api.VerifyGate(ctx, c, c.cfg.Endpoints.Exam.VerifyGate, examID, password)
}
