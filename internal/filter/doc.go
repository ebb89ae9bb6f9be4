// Package filter implements the post effects applied to a compositor
// region once its content is drawn:
//   - Gaussian blur, approximated by up to three cascaded box filters
//   - Drop shadow (blurred alpha silhouette, offset, composited beneath)
//   - Fill, tint and tritone recolors driven by luminance
//
// Effects work on an image region given in buffer coordinates. Every
// effect first resolves its parameters against the current transform with
// Update, which also decides whether the effect does anything at all.
//
// The vertical blur pass transposes the region and runs the horizontal
// kernel again, so the inner loop always walks contiguous memory.
package filter
