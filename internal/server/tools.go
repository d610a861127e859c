package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Path to the image file",
	}
}

func targetSizeProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "integer"},
		"minItems":    2,
		"maxItems":    2,
		"description": desc,
	}
}

func outputPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Destination JPEG path. The parent directory must already exist; an existing file is replaced",
	}
}

func qualityProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     100,
		"description": "JPEG quality, 0-100. Defaults to the configured quality (95 unless changed)",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Loading
		{
			Name:        "image_load",
			Description: "Decode an image file to RGB, optionally resizing it, and return its dimensions and content digest.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"target_size": targetSizeProperty("Optional [height, width] to resize to after decoding"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_inspect",
			Description: "Return dimensions, mean color, format and file size of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_frames",
			Description: "Count the frames of an animated GIF (1 for still images) and return the canvas size and stacked (frames, height, width, 3) tensor shape. With a layout, also convert to an array; multi-frame stacks cannot be converted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"layout": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"channels_first", "channels_last"},
						"description": "Optional axis order to convert the frames to",
					},
				},
				"required": []string{"path"},
			},
		},

		// Content addressing
		{
			Name:        "image_digest",
			Description: "Compute the MD5 content digest of a file's raw bytes as 32 lowercase hex characters.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_load_by_digest",
			Description: "Fetch the image stored under a digest from the remote store (base_url + digest) and decode it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"digest": map[string]interface{}{
						"type":        "string",
						"description": "32-character lowercase hex MD5 digest",
					},
					"base_url": map[string]interface{}{
						"type":        "string",
						"description": "Optional store prefix the digest is appended to. Defaults to the configured URL",
					},
					"target_size": targetSizeProperty("Optional [height, width] to resize to after decoding"),
				},
				"required": []string{"digest"},
			},
		},

		// Transforms
		{
			Name:        "image_resize",
			Description: "Resize an image to [height, width] with a Lanczos filter and save it as JPEG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"target_size": targetSizeProperty("Target [height, width]"),
					"output_path": outputPathProperty(),
					"quality":     qualityProperty(),
				},
				"required": []string{"path", "target_size", "output_path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Crop [left, upper, right, lower] from an image and save it as JPEG. The box is not checked against the image bounds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"box": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"minItems":    4,
						"maxItems":    4,
						"description": "Crop box [left, upper, right, lower] in source pixels; right and lower are exclusive",
					},
					"output_path": outputPathProperty(),
					"quality":     qualityProperty(),
				},
				"required": []string{"path", "box", "output_path"},
			},
		},
		{
			Name:        "image_save",
			Description: "Load an image, optionally resize then crop it, and save it as JPEG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"output_path": outputPathProperty(),
					"quality":     qualityProperty(),
					"target_size": targetSizeProperty("Optional [height, width] applied before cropping"),
					"crop_box": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"minItems":    4,
						"maxItems":    4,
						"description": "Optional crop box [left, upper, right, lower]",
					},
				},
				"required": []string{"path", "output_path"},
			},
		},

		// Arrays
		{
			Name:        "image_to_array",
			Description: "Convert an image to a float32 array laid out as channels_first (C,H,W) or channels_last (H,W,C).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"layout": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"channels_first", "channels_last"},
						"description": "Axis order of the output array",
					},
					"target_size": targetSizeProperty("Optional [height, width] to resize to before converting"),
					"include_data": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the flattened element data in the result. Default false",
						"default":     false,
					},
				},
				"required": []string{"path", "layout"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
