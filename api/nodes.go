package api

import (
	"context"
	"net/url"

	"github.com/kochabx/flowclient/client"
)

// ListNodes returns the node catalog used to build workflow definitions
func (a *API) ListNodes(ctx context.Context) ([]Node, error) {
	var out []Node
	_, err := a.http.Get("/nodes",
		client.WithContext(ctx),
		client.WithRetry(),
		client.WithResponse(&out),
	)
	return out, err
}

// GetNode returns one node type from the catalog
func (a *API) GetNode(ctx context.Context, nodeType string) (*Node, error) {
	var out Node
	_, err := a.http.Get("/nodes/"+url.PathEscape(nodeType),
		client.WithContext(ctx),
		client.WithRetry(),
		client.WithResponse(&out),
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
