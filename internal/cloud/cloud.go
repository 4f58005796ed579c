// Package cloud is a client for the hosted workflow store, a Supabase-style
// REST endpoint serving rows from a `workflows` table. Node and edge payloads
// stay raw JSON so the compat package can decode the editor document.
package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/pixelgridgo/internal/compat"
	"github.com/vk/pixelgridgo/internal/ctxlog"
	"resty.dev/v3"
)

// ErrNotFound is returned by Load when the store has no row with the
// requested workflow id.
var ErrNotFound = errors.New("workflow not found")

// Workflow is the wire shape of a row in the workflow store.
type Workflow struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Nodes     json.RawMessage `json:"nodes"`
	Edges     json.RawMessage `json:"edges"`
	Gallery   json.RawMessage `json:"gallery,omitempty"`
	Viewport  json.RawMessage `json:"viewport,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
	UserEmail string          `json:"user_email,omitempty"`
	IsPublic  bool            `json:"is_public"`
}

// Summary is the trimmed row shape returned by List.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"`
	IsPublic  bool   `json:"is_public"`
}

// Client talks to a workflow store. Every request carries the store key as
// both the `apikey` header and a bearer token.
type Client struct {
	http *resty.Client
}

// New returns a client for the store at baseURL authenticated with key.
func New(baseURL, key string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("apikey", key).
		SetHeader("Authorization", "Bearer "+key).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c}
}

// Close releases the client's transport resources.
func (c *Client) Close() {
	c.http.Close()
}

// Load fetches a single workflow row by id.
func (c *Client) Load(ctx context.Context, id string) (*Workflow, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Fetching workflow from cloud store.", "workflowID", id)

	var rows []Workflow
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id).
		SetQueryParam("select", "*").
		SetResult(&rows).
		Get("/rest/v1/workflows")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflow %s: %w", id, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("cloud store returned %s: %s", res.Status(), snippet(res.String()))
	}

	// The store replies with an array even when filtering on a unique id.
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	logger.Debug("Fetched workflow from cloud store.", "workflowID", id, "name", rows[0].Name)
	return &rows[0], nil
}

// Save upserts a workflow row, matching on the primary key.
func (c *Client) Save(ctx context.Context, w *Workflow) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Saving workflow to cloud store.", "workflowID", w.ID, "name", w.Name)

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "resolution=merge-duplicates").
		SetBody(w).
		Post("/rest/v1/workflows")
	if err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", w.ID, err)
	}
	if res.IsError() {
		return fmt.Errorf("cloud store returned %s: %s", res.Status(), snippet(res.String()))
	}
	return nil
}

// List returns summaries of the stored workflows, most recently updated first.
func (c *Client) List(ctx context.Context) ([]Summary, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Listing workflows in cloud store.")

	var rows []Summary
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("select", "id,name,updated_at,is_public").
		SetQueryParam("order", "updated_at.desc").
		SetResult(&rows).
		Get("/rest/v1/workflows")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("cloud store returned %s: %s", res.Status(), snippet(res.String()))
	}
	return rows, nil
}

// Document decodes the row's node and edge payloads into an editor document.
func (w *Workflow) Document() (*compat.Document, error) {
	var doc compat.Document
	if len(w.Nodes) > 0 {
		if err := json.Unmarshal(w.Nodes, &doc.Nodes); err != nil {
			return nil, fmt.Errorf("failed to decode nodes of workflow %s: %w", w.ID, err)
		}
	}
	if len(w.Edges) > 0 {
		if err := json.Unmarshal(w.Edges, &doc.Edges); err != nil {
			return nil, fmt.Errorf("failed to decode edges of workflow %s: %w", w.ID, err)
		}
	}
	if len(w.Viewport) > 0 {
		if err := json.Unmarshal(w.Viewport, &doc.Viewport); err != nil {
			return nil, fmt.Errorf("failed to decode viewport of workflow %s: %w", w.ID, err)
		}
	}
	return &doc, nil
}

// NewWorkflow packs an editor document into a row ready for Save.
func NewWorkflow(id, name string, doc *compat.Document) (*Workflow, error) {
	nodes, err := json.Marshal(doc.Nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode nodes of workflow %s: %w", id, err)
	}
	edges, err := json.Marshal(doc.Edges)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edges of workflow %s: %w", id, err)
	}
	w := &Workflow{ID: id, Name: name, Nodes: nodes, Edges: edges}
	if doc.Viewport != nil {
		viewport, err := json.Marshal(doc.Viewport)
		if err != nil {
			return nil, fmt.Errorf("failed to encode viewport of workflow %s: %w", id, err)
		}
		w.Viewport = viewport
	}
	return w, nil
}

// snippet trims a response body down to a size that fits in an error message.
func snippet(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return "(empty body)"
	}
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return body
}
