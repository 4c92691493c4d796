package apiclient

import (
	"context"
	"net/http"

	"github.com/taskboard-dev/taskboard/shared/api"
	"github.com/taskboard-dev/taskboard/shared/domain"
)

// Refresh extends the session behind p's token.
func (c *APIClient) Refresh(ctx context.Context, p domain.Principal) (api.RefreshResponse, error) {
	var response api.RefreshResponse
	err := c.do(ctx, p, http.MethodPost, "/v1/auth/refresh", nil, &response)
	return response, err
}

func (c *APIClient) Logout(ctx context.Context, p domain.Principal) error {
	return c.do(ctx, p, http.MethodPost, "/v1/auth/logout", nil, nil)
}
