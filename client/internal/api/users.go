package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/georgelotishvili/certification/client/internal/types"
	"github.com/georgelotishvili/certification/config"
)

// GetProfile retrieves the profile of the logged-in user.
func GetProfile(ctx context.Context, d Doer, endpoint string) (*types.Profile, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	res, err := d.Do(ctx, types.Call{Method: http.MethodGet, Endpoint: endpoint})
	if err != nil {
		return nil, err
	}
	var p types.Profile
	if err := decodeInto(res, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPublicProfile retrieves the public part of another user's profile.
// endpoint carries the {id} placeholder.
func GetPublicProfile(ctx context.Context, d Doer, endpoint string, userID int64) (*types.Profile, error) {
	return GetProfile(ctx, d, config.WithID(endpoint, strconv.FormatInt(userID, 10)))
}
