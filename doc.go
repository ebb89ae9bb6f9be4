// Package swraster is a CPU rasterizer for vector graphics.
//
// # Overview
//
// swraster turns resolved paths, gradients and images into pixels of a
// caller-owned buffer. It scan converts outlines into anti-aliased
// coverage spans, evaluates solid and gradient paints over them, blends
// with the selected blend method and composites groups through an
// intermediate buffer stack that supports opacity, masks and post
// effects.
//
// # Quick Start
//
//	buf := make([]uint32, 256*256)
//	s, _ := swraster.NewSurface32(buf, 256, 256, 256, swraster.ABGR8888, true)
//
//	r := swraster.NewRenderer[uint32]()
//	defer r.Close()
//	_ = r.Target(s)
//
//	p := new(path.Data).MoveTo(vec.Vec2{X: 10, Y: 10}).LineTo(vec.Vec2{X: 200, Y: 40}).LineTo(vec.Vec2{X: 60, Y: 220}).Close()
//	var sd swraster.ShapeData[uint32]
//	_ = r.PrepareShape(&sd, &swraster.Shape{
//		Path:      p,
//		Transform: matrix.Identity,
//		Fill:      swraster.Solid(swraster.Color{R: 255, A: 255}),
//	}, nil, 255, 0)
//	_ = r.RenderShape(&sd)
//	_ = r.Sync()
//
// # Pixel Formats
//
// A Renderer is instantiated for the storage type of its target:
// uint32 for ABGR8888 and ARGB8888, uint16 for RGB565 and uint8 for
// Gray8. Pixels are premultiplied while drawing; a surface created as
// straight alpha is premultiplied by Target and restored by Sync.
// RGB565 has no alpha channel, so source alpha folds into the blend
// weight and post effects are skipped.
//
// # Threading
//
// Prepare calls carry a thread id in [0, threads) and may run in parallel
// for distinct ids. Everything that writes pixels runs on one goroutine.
// The blur row loops use the renderer's worker pool when WithThreads
// asks for more than one thread.
//
// # Compositing
//
// OpenCompositor pushes an intermediate buffer; draws land there until
// BeginComposite selects how it resolves. With a mask method the
// compositor becomes a mask and following draws go to the parent, gated
// by its alpha or luma. A mask begun inside a masked group intersects
// with the enclosing mask unless SetMaskOp picks add, subtract or
// difference. EndComposite pops it and merges the content at
// the compositor opacity. Effect applies blur, drop shadow, fill, tint
// or tritone to an open compositor before it ends.
//
// # Logging
//
// The package is silent by default. SetLogger installs a log/slog logger
// that receives compositor and effect traces at debug level and refused
// allocations at warn level.
package swraster
