package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vk/pixelgridgo/internal/compat"
	"github.com/vk/pixelgridgo/internal/ctxlog"
	"github.com/vk/pixelgridgo/internal/executor"
	"github.com/vk/pixelgridgo/internal/imagedata"
)

// RunRequest is the workflow:run payload: a React-Flow document plus
// optional base64 PNG sources keyed by the numeric reference their image
// nodes carry.
type RunRequest struct {
	Workflow json.RawMessage   `json:"workflow"`
	Inputs   map[string]string `json:"inputs,omitempty"`
}

// RunResult is the run:result payload. Image is a base64 PNG; it is empty
// when the graph has no wired output node.
type RunResult struct {
	OK     bool   `json:"ok"`
	Image  string `json:"image,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CheckResult is the check:result payload.
type CheckResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// runWorkflow renders the submitted document and packs the reply.
func (s *Server) runWorkflow(datas []any) RunResult {
	req, err := parseRequest(datas)
	if err != nil {
		return RunResult{Error: err.Error()}
	}
	doc, err := compat.Unmarshal(req.Workflow)
	if err != nil {
		return RunResult{Error: err.Error()}
	}
	g, _, err := doc.ToGraph()
	if err != nil {
		return RunResult{Error: err.Error()}
	}
	inputs, err := decodeInputs(req.Inputs)
	if err != nil {
		return RunResult{Error: err.Error()}
	}

	ctx := ctxlog.WithLogger(context.Background(), s.logger)
	img, err := executor.New().Execute(ctx, g, inputs)
	if err != nil {
		return RunResult{Error: err.Error()}
	}
	if img == nil {
		// A graph without a wired output node is valid and renders nothing.
		return RunResult{OK: true}
	}

	png, err := imagedata.EncodePNG(img)
	if err != nil {
		return RunResult{Error: err.Error()}
	}
	return RunResult{
		OK:     true,
		Image:  base64.StdEncoding.EncodeToString(png),
		Width:  img.Width,
		Height: img.Height,
	}
}

// checkWorkflow validates the submitted document without rendering: the
// graph is decoded and sorted, so cycles and dangling connections are
// reported, but no pixels move.
func (s *Server) checkWorkflow(datas []any) CheckResult {
	req, err := parseRequest(datas)
	if err != nil {
		return CheckResult{Error: err.Error()}
	}
	doc, err := compat.Unmarshal(req.Workflow)
	if err != nil {
		return CheckResult{Error: err.Error()}
	}
	g, _, err := doc.ToGraph()
	if err != nil {
		return CheckResult{Error: err.Error()}
	}
	if err := executor.Validate(g); err != nil {
		return CheckResult{Error: err.Error()}
	}
	return CheckResult{OK: true}
}

// parseRequest converts the raw event arguments into a typed request.
func parseRequest(datas []any) (*RunRequest, error) {
	if len(datas) == 0 {
		return nil, fmt.Errorf("event payload is missing")
	}
	var req RunRequest
	if err := decodePayload(datas[0], &req); err != nil {
		return nil, err
	}
	if len(req.Workflow) == 0 {
		return nil, fmt.Errorf("event payload has no workflow")
	}
	return &req, nil
}

// decodePayload re-marshals a socket.io payload into a typed struct. Events
// arrive as generic maps, so a round trip through encoding/json is the
// faithful conversion.
func decodePayload(data any, dst any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode event payload: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode event payload: %w", err)
	}
	return nil
}

// decodeInputs turns the base64 PNG map into executor inputs.
func decodeInputs(raw map[string]string) (map[uint64]*imagedata.ImageData, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	inputs := make(map[uint64]*imagedata.ImageData, len(raw))
	for key, encoded := range raw {
		ref, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid input reference %q: %w", key, err)
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode input %s: %w", key, err)
		}
		img, err := imagedata.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode input %s: %w", key, err)
		}
		inputs[ref] = img
	}
	return inputs, nil
}
