// Package server implements the MCP (Model Context Protocol) server for the
// image ingestion pipeline.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Loading:
//   - image_load: Decode to RGB, optional resize, return size and digest
//   - image_inspect: Size, mean color, format, file size
//   - image_frames: Frame count and stacked tensor shape of animated GIFs
//
// Content addressing:
//   - image_digest: MD5 of the file bytes
//   - image_load_by_digest: Fetch base_url + digest and decode
//
// Transforms (results written as JPEG):
//   - image_resize: Lanczos resize to [height, width]
//   - image_crop: Crop [left, upper, right, lower]
//   - image_save: Resize and/or crop, then encode
//
// Arrays:
//   - image_to_array: float32 array in channels_first or channels_last order
//
// # Error Handling
//
// Every tool failure (missing file, bad size, unknown layout, unreachable
// store) is returned as a JSON-RPC error response with code -32000 and the
// Go error string as data. The server keeps serving after any failure.
//
// No decoded image outlives the call that loaded it.
package server
