package api

import (
	"context"

	"github.com/kochabx/flowclient/client"
	"github.com/kochabx/flowclient/credential"
	"github.com/kochabx/flowclient/errors"
	"github.com/kochabx/flowclient/log"
)

// Login authenticates with the service and establishes a local session
func (a *API) Login(ctx context.Context, email, password string) (*credential.Profile, error) {
	req := LoginRequest{Email: email, Password: password}
	if err := a.validate.StructCtx(ctx, req); err != nil {
		return nil, errors.BadRequest("invalid login request: %v", err)
	}

	var out AuthResponse
	_, err := a.http.Post("/auth/login", req,
		client.WithContext(ctx),
		client.WithoutAuth(),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}

	if err := a.session.SetSession(ctx, out.AccessToken, out.User); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Register creates an account and establishes a local session
func (a *API) Register(ctx context.Context, name, email, password string) (*credential.Profile, error) {
	req := RegisterRequest{Name: name, Email: email, Password: password}
	if err := a.validate.StructCtx(ctx, req); err != nil {
		return nil, errors.BadRequest("invalid register request: %v", err)
	}

	var out AuthResponse
	_, err := a.http.Post("/auth/register", req,
		client.WithContext(ctx),
		client.WithoutAuth(),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}

	if err := a.session.SetSession(ctx, out.AccessToken, out.User); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout tears the session down. The server-side logout is best-effort;
// local teardown happens regardless and is idempotent.
func (a *API) Logout(ctx context.Context) error {
	if _, ok := a.session.Token(); ok {
		if _, err := a.http.Post("/auth/logout", nil, client.WithContext(ctx)); err != nil {
			log.Warnf("server logout failed, tearing down locally: %v", err)
		}
	}
	return a.session.Logout(ctx)
}

// Me fetches the profile of the authenticated user
func (a *API) Me(ctx context.Context) (*credential.Profile, error) {
	var user credential.Profile
	_, err := a.http.Get("/auth/me",
		client.WithContext(ctx),
		client.WithResponse(&user),
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// refreshCredential exchanges the current token for a fresh one. It runs on
// the refresh coordinator's single-flight path, so it must bypass the
// gatekeeper's own credential handling to avoid recursing into a refresh.
func (a *API) refreshCredential(ctx context.Context) (string, *credential.Profile, error) {
	token, ok := a.session.Token()
	if !ok {
		return "", nil, errors.Unauthorized("no credential to refresh")
	}

	var out AuthResponse
	_, err := a.http.Post("/auth/refresh", nil,
		client.WithContext(ctx),
		client.WithoutAuth(),
		client.WithHeader(map[string]string{"Authorization": "Bearer " + token}),
		client.WithResponse(&out),
	)
	if err != nil {
		return "", nil, err
	}
	return out.AccessToken, out.User, nil
}
