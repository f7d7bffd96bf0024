package api

import (
	"context"
	"net/http"

	"github.com/georgelotishvili/certification/client/internal/types"
	"github.com/georgelotishvili/certification/config"
)

// GetExamConfig fetches the current exam settings.
func GetExamConfig(ctx context.Context, d Doer, endpoint string) (*types.ExamConfig, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	res, err := d.Do(ctx, types.Call{Method: http.MethodGet, Endpoint: endpoint})
	if err != nil {
		return nil, err
	}
	var cfg types.ExamConfig
	if err := decodeInto(res, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateExamConfig saves exam settings. actorEmail is recorded by the backend
// for audit.
func UpdateExamConfig(ctx context.Context, d Doer, endpoint string, cfg types.ExamConfig, actorEmail string) (*types.ExamConfig, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	res, err := d.Do(ctx, types.Call{
		Method:   http.MethodPut,
		Endpoint: endpoint,
		Body:     cfg,
		Options:  &types.RequestOptions{ActorEmail: actorEmail},
	})
	if err != nil {
		return nil, err
	}
	var saved types.ExamConfig
	if err := decodeInto(res, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// VerifyGate checks the gate password of an exam. endpoint carries the {id}
// placeholder.
func VerifyGate(ctx context.Context, d Doer, endpoint, examID, password string) (*types.GateResult, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	res, err := d.Do(ctx, types.Call{
		Method:   http.MethodPost,
		Endpoint: config.WithID(endpoint, examID),
		Body:     types.GateRequest{Password: password},
	})
	if err != nil {
		return nil, err
	}
	var out types.GateResult
	if err := decodeInto(res, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
