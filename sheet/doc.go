// Package sheet implements the raw pixel buffer a sprite sheet is edited in.
//
// A Buffer is a width×height grid of 8-bit pixels in either RGB or RGBA
// channel mode, stored row-major. Buffers are immutable by convention:
// structural edits elsewhere in this module allocate a fresh Buffer and
// compose into it with Paste, so callers holding an older Buffer (for undo,
// or for a padding-preview base) keep a stable view of those bytes.
//
// A Buffer implements image.Image, so it can be handed directly to the
// standard library encoders and to draw.Draw.
package sheet
