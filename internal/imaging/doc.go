// Package imaging turns encoded images into normalized pixel grids and
// numeric arrays.
//
// The pipeline is decode -> normalize to RGB -> resize/crop -> array
// conversion, with JPEG encoding to write results back out. Decoding,
// resampling, cropping and encoding are done by
// github.com/disintegration/imaging; this package fixes the contracts around
// them.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. A CropBox
// is (left, upper, right, lower) with right and lower exclusive. Resize
// targets are given as (height, width) and converted to the codec's
// (width, height) internally.
//
// # Color
//
// Every Grid is three-channel RGB. Grayscale and palette images are expanded
// with the codec's default conversion and alpha is dropped, not blended.
//
// # Arrays
//
// Arrays are rank 3 in one of two layouts:
//   - channels_first: (channel, height, width)
//   - channels_last: (height, width, channel)
//
// Single-channel sources that were never normalized (an *image.Gray passed
// straight to Convert) get a singleton channel axis. Any other rank is
// rejected.
//
// # Error Handling
//
// Processor methods never panic on bad input. Failures are logged and
// returned as errors wrapping one of the package's sentinel errors, so a
// caller processing many images can skip a bad one and keep going.
//
// # Thread Safety
//
// Grids and Arrays are immutable once returned and a Processor carries no
// per-image state, so calls may run concurrently on different images.
package imaging
