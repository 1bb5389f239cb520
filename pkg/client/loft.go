package client

import (
	"context"
	"net/http"
	"net/url"

	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/model"
)

// LoftClient reads lofts and owners from the lofts service as the system
// principal.
type LoftClient struct {
	http *HttpClient
}

func NewLoftClient(baseURL, serviceName, secret string) *LoftClient {
	c := NewHttpClient(baseURL)
	c.Secret = secret
	c.Headers[HeaderUserID] = "svc-" + serviceName
	c.Headers[HeaderUserRole] = string(model.RoleSystem)
	return &LoftClient{http: c}
}

func (c *LoftClient) GetLoft(ctx context.Context, id string) (*model.Loft, error) {
	var loft model.Loft
	if err := c.get(ctx, "/api/v1/lofts/id/"+url.PathEscape(id), "Loft", id, &loft); err != nil {
		return nil, err
	}
	return &loft, nil
}

func (c *LoftClient) GetOwner(ctx context.Context, id string) (*model.Owner, error) {
	var owner model.Owner
	if err := c.get(ctx, "/api/v1/owners/id/"+url.PathEscape(id), "Owner", id, &owner); err != nil {
		return nil, err
	}
	return &owner, nil
}

func (c *LoftClient) get(ctx context.Context, path, resource, id string, target any) error {
	resp, err := c.http.GET(ctx, path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeUnavailable, "lofts service is temporarily unavailable", http.StatusServiceUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := resp.DecodeData(target); err != nil {
			return apperrors.Internal("Failed to decode lofts service response", err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFoundWithID(resource, id)
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(GetErrorMessage(resp))
	default:
		return apperrors.Unavailable("lofts service").WithDetails(map[string]any{
			"status":  resp.StatusCode,
			"message": GetErrorMessage(resp),
		})
	}
}
