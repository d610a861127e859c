package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/ironsheep/image-ingest-mcp/internal/digest"
	"github.com/ironsheep/image-ingest-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_to_array").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// A failing tool never stops the server.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	l := s.log.With().Str("tool", params.Name).Logger()
	if id, err := uuid.NewV4(); err == nil {
		l = l.With().Str("request_id", id.String()).Logger()
	}
	l.Debug().Msg("tool call")

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		l.Warn().Err(err).Msg("tool call failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Loading
	case "image_load":
		return s.handleImageLoad(args)
	case "image_inspect":
		return s.handleImageInspect(args)
	case "image_frames":
		return s.handleImageFrames(args)

	// Content addressing
	case "image_digest":
		return s.handleImageDigest(args)
	case "image_load_by_digest":
		return s.handleImageLoadByDigest(ctx, args)

	// Transforms
	case "image_resize":
		return s.handleImageResize(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_save":
		return s.handleImageSave(args)

	// Arrays
	case "image_to_array":
		return s.handleImageToArray(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// gridResult describes a grid produced by a tool.
type gridResult struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Digest     string `json:"digest,omitempty"`
	URL        string `json:"url,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

func describeGrid(g *imaging.Grid) *gridResult {
	w, h := g.Size()
	return &gridResult{Width: w, Height: h}
}

// targetSize turns an optional [height, width] argument into Dimensions.
// An absent or empty list means no resize.
func targetSize(vals []int) (*imaging.Dimensions, error) {
	if len(vals) == 0 {
		return nil, nil
	}
	return imaging.ParseDimensions(vals...)
}

func (s *Server) qualityOrDefault(q *int) int {
	if q == nil {
		return s.quality
	}
	return *q
}

// === Loading Handlers ===

type imageLoadArgs struct {
	Path       string `json:"path"`
	TargetSize []int  `json:"target_size,omitempty"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	size, err := targetSize(a.TargetSize)
	if err != nil {
		return nil, err
	}
	g, err := s.proc.Load(a.Path, size)
	if err != nil {
		return nil, err
	}
	d, err := s.digests.Of(a.Path)
	if err != nil {
		return nil, err
	}

	res := describeGrid(g)
	res.Digest = d.String()
	return res, nil
}

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInspect(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.proc.Inspect(a.Path)
}

type imageFramesArgs struct {
	Path   string `json:"path"`
	Layout string `json:"layout,omitempty"`
}

type framesResult struct {
	FrameCount  int            `json:"frame_count"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	TensorShape []int          `json:"tensor_shape"`
	ArrayShape  []int          `json:"array_shape,omitempty"`
	Layout      imaging.Layout `json:"layout,omitempty"`
}

// handleImageFrames stacks the frames into an (F, H, W, 3) tensor and
// reports its shape. With a layout, the frames are also converted to an
// array: a still image converts like image_to_array, while a multi-frame
// stack has no rank-3 layout and fails with ErrUnsupportedRank.
func (s *Server) handleImageFrames(args json.RawMessage) (interface{}, error) {
	var a imageFramesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frames, err := s.proc.LoadFrames(a.Path)
	if err != nil {
		return nil, err
	}
	stacked, err := imaging.StackFrames(frames)
	if err != nil {
		return nil, err
	}

	w, h := frames[0].Size()
	res := &framesResult{FrameCount: len(frames), Width: w, Height: h, TensorShape: stacked.Shape}
	if a.Layout == "" {
		return res, nil
	}

	t := stacked
	if len(frames) == 1 {
		t = imaging.TensorOf(frames[0])
	}
	arr, err := s.proc.TensorToArray(t, imaging.Layout(a.Layout))
	if err != nil {
		return nil, err
	}
	res.ArrayShape = arr.Shape
	res.Layout = arr.Layout
	return res, nil
}

// === Content Addressing Handlers ===

func (s *Server) handleImageDigest(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	d, err := s.digests.Of(a.Path)
	if err != nil {
		return nil, err
	}
	return map[string]string{"digest": d.String()}, nil
}

type imageLoadByDigestArgs struct {
	Digest     string `json:"digest"`
	BaseURL    string `json:"base_url,omitempty"`
	TargetSize []int  `json:"target_size,omitempty"`
}

func (s *Server) handleImageLoadByDigest(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageLoadByDigestArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	d, err := digest.Parse(a.Digest)
	if err != nil {
		return nil, err
	}
	size, err := targetSize(a.TargetSize)
	if err != nil {
		return nil, err
	}

	f := s.fetcher.At(a.BaseURL)
	g, err := f.LoadByDigest(ctx, d, size)
	if err != nil {
		return nil, err
	}

	res := describeGrid(g)
	res.Digest = d.String()
	res.URL = f.URL(d)
	return res, nil
}

// === Transform Handlers ===

type imageResizeArgs struct {
	Path       string `json:"path"`
	TargetSize []int  `json:"target_size"`
	OutputPath string `json:"output_path"`
	Quality    *int   `json:"quality,omitempty"`
}

func (s *Server) handleImageResize(args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	size, err := imaging.ParseDimensions(a.TargetSize...)
	if err != nil {
		return nil, err
	}
	g, err := s.proc.Load(a.Path, size)
	if err != nil {
		return nil, err
	}
	return s.save(g, a.OutputPath, a.Quality)
}

type imageCropArgs struct {
	Path       string `json:"path"`
	Box        []int  `json:"box"`
	OutputPath string `json:"output_path"`
	Quality    *int   `json:"quality,omitempty"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	box, err := imaging.ParseCropBox(a.Box...)
	if err != nil {
		return nil, err
	}
	g, err := s.proc.Load(a.Path, nil)
	if err != nil {
		return nil, err
	}
	if g, err = s.proc.Crop(g, box); err != nil {
		return nil, err
	}
	return s.save(g, a.OutputPath, a.Quality)
}

type imageSaveArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	Quality    *int   `json:"quality,omitempty"`
	TargetSize []int  `json:"target_size,omitempty"`
	CropBox    []int  `json:"crop_box,omitempty"`
}

// handleImageSave runs the full path: load, optional resize, optional crop
// of the resized grid, then encode.
func (s *Server) handleImageSave(args json.RawMessage) (interface{}, error) {
	var a imageSaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	size, err := targetSize(a.TargetSize)
	if err != nil {
		return nil, err
	}
	g, err := s.proc.Load(a.Path, size)
	if err != nil {
		return nil, err
	}
	if len(a.CropBox) > 0 {
		box, err := imaging.ParseCropBox(a.CropBox...)
		if err != nil {
			return nil, err
		}
		if g, err = s.proc.Crop(g, box); err != nil {
			return nil, err
		}
	}
	return s.save(g, a.OutputPath, a.Quality)
}

func (s *Server) save(g *imaging.Grid, dst string, quality *int) (interface{}, error) {
	if err := s.proc.Save(g, dst, s.qualityOrDefault(quality)); err != nil {
		return nil, err
	}
	res := describeGrid(g)
	res.OutputPath = dst
	return res, nil
}

// === Array Handlers ===

type imageToArrayArgs struct {
	Path        string `json:"path"`
	Layout      string `json:"layout"`
	TargetSize  []int  `json:"target_size,omitempty"`
	IncludeData bool   `json:"include_data,omitempty"`
}

type arrayResult struct {
	Shape  []int          `json:"shape"`
	Layout imaging.Layout `json:"layout"`
	DType  string         `json:"dtype"`
	Data   []float32      `json:"data,omitempty"`
}

func (s *Server) handleImageToArray(args json.RawMessage) (interface{}, error) {
	var a imageToArrayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	size, err := targetSize(a.TargetSize)
	if err != nil {
		return nil, err
	}
	g, err := s.proc.Load(a.Path, size)
	if err != nil {
		return nil, err
	}
	arr, err := s.proc.ToArray(g, imaging.Layout(a.Layout))
	if err != nil {
		return nil, err
	}

	res := &arrayResult{Shape: arr.Shape, Layout: arr.Layout, DType: "float32"}
	if a.IncludeData {
		res.Data = arr.Data
	}
	return res, nil
}
