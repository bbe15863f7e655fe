// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// AppClient provides access to the applet registry.
type AppClient struct {
	c *Client
}

// CategoryOption configures a [AppClient.Categories] request.
type CategoryOption func(url.Values)

// NonEmpty omits categories that hold no applets.
func NonEmpty() CategoryOption {
	return func(q url.Values) {
		q.Set("nonempty", "true")
	}
}

// Status returns information about the server's registry.
func (a *AppClient) Status(ctx context.Context) (*Status, error) {
	data, _, err := a.c.get(ctx, "/api/v1/status")
	if err != nil {
		return nil, err
	}

	var status Status
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	return &status, nil
}

// Categories returns every category with its applets in display order.
// The fallback category is always last.
func (a *AppClient) Categories(ctx context.Context, opts ...CategoryOption) ([]Category, error) {
	path := "/api/v1/categories"
	q := url.Values{}
	for _, opt := range opts {
		opt(q)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	data, _, err := a.c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var cats []Category
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return cats, nil
}

// List returns all applets ordered by plugin id.
func (a *AppClient) List(ctx context.Context) ([]Applet, error) {
	data, _, err := a.c.get(ctx, "/api/v1/apps")
	if err != nil {
		return nil, err
	}

	var apps []Applet
	if err := json.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("failed to decode applets: %w", err)
	}
	return apps, nil
}

// Get returns a single applet by plugin id.
func (a *AppClient) Get(ctx context.Context, plugin string) (*AppletDetail, error) {
	data, _, err := a.c.get(ctx, "/api/v1/apps/"+url.PathEscape(plugin))
	if err != nil {
		return nil, err
	}

	var detail AppletDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode applet: %w", err)
	}
	return &detail, nil
}

// Update forces the server to rescan its descriptor directory. Subscribers
// receive an "applist.updated" event with trigger "manual".
func (a *AppClient) Update(ctx context.Context) (*UpdateResult, error) {
	data, meta, err := a.c.post(ctx, "/api/v1/update")
	if err != nil {
		return nil, err
	}

	var result UpdateResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode update result: %w", err)
	}
	result.Generation = meta.Generation
	return &result, nil
}
