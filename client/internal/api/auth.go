package api

import (
	"context"
	"net/http"

	"github.com/georgelotishvili/certification/client/internal/types"
)

// RequestCode asks the backend to email a one-time login code.
func RequestCode(ctx context.Context, d Doer, endpoint, email string) (any, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	res, err := d.Do(ctx, types.Call{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		Body:     types.CodeRequest{Email: email},
	})
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}
