// Package api holds one function per backend endpoint. Each takes a Doer so
// the client can supply its authenticated, deadline-bounded transport.
package api

import (
	"context"
	"encoding/json"
	"errors"

	apierrors "github.com/georgelotishvili/certification/client/internal/errors"
	"github.com/georgelotishvili/certification/client/internal/types"
)

// Doer sends a prepared call. Errors are *errors.APIError.
type Doer interface {
	Do(ctx context.Context, call types.Call) (*types.Result, error)
}

// checkContext fails fast on an already finished context, keeping the
// APIError shape.
func checkContext(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return apierrors.NewTimeoutError()
	default:
		return apierrors.NewNetworkError("request not sent", err)
	}
}

// decodeInto converts a decoded JSON body into out. The body has already been
// parsed into generic values, so it is re-encoded first.
func decodeInto(res *types.Result, out any) error {
	if s, ok := res.Body.(string); ok {
		if err := json.Unmarshal([]byte(s), out); err != nil {
			return apierrors.NewDecodeError(res.StatusCode, res.Body, err)
		}
		return nil
	}
	data, err := json.Marshal(res.Body)
	if err != nil {
		return apierrors.NewDecodeError(res.StatusCode, res.Body, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apierrors.NewDecodeError(res.StatusCode, res.Body, err)
	}
	return nil
}
