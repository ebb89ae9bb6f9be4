// Package stroke converts a device-space outline plus stroke parameters
// into a new outline whose filled interior is the stroked silhouette.
//
// The stroker walks every contour once and grows two borders, one on each
// side of the centerline, at a distance of half the stroke width. Corners
// get join geometry (miter with limit, round, bevel) on the outer border
// and an intersection or overlap on the inner border. Open contours get
// caps (butt, round, square) and are closed by appending the reversed
// second border to the first one; closed contours export both borders as
// separate contours with opposite orientation. The result is filled with
// the non-zero rule, so overlaps are harmless.
//
// Round joins, round caps and dots are emitted as cubic arcs and left to
// the scan converter to flatten. Curved input is flattened before
// stroking.
//
// Dashing runs before stroking: [Dash] walks the user-space path,
// consuming the on/off pattern cyclically, and produces an outline of
// open pieces that is then stroked like any other outline.
package stroke
