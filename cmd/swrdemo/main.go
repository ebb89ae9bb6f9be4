// Command swrdemo renders a YAML scene with the swraster rasterizer and
// writes it as an image.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"

	"github.com/gogpu/swraster"
)

func main() {
	var (
		input   = flag.String("scene", "scene.yaml", "scene file")
		output  = flag.String("output", "scene.png", "output file; the extension picks the format")
		threads = flag.Int("threads", 1, "worker threads, 0 for all CPUs")
		scale   = flag.Float64("scale", 1, "resize the result by this factor")
		verbose = flag.Bool("v", false, "log compositor and effect traces")
	)
	flag.Parse()

	if *verbose {
		swraster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	scene, err := LoadScene(*input)
	if err != nil {
		log.Fatal(err)
	}
	img, err := render(scene, *threads)
	if err != nil {
		log.Fatalf("render %s: %v", *input, err)
	}
	var out image.Image = img
	if *scale > 0 && *scale != 1 {
		out = imaging.Resize(img, int(float64(scene.Width)*(*scale)), 0, imaging.Lanczos)
	}
	if err := imaging.Save(out, *output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Scene saved to %s (%dx%d)\n", *output, out.Bounds().Dx(), out.Bounds().Dy())
}

func render(scene *Scene, threads int) (*image.NRGBA, error) {
	w, h := scene.Width, scene.Height
	buf := make([]uint32, w*h)
	bg := scene.Background
	for i := range buf {
		buf[i] = uint32(bg[3])<<24 | uint32(bg[2])<<16 | uint32(bg[1])<<8 | uint32(bg[0])
	}
	s, err := swraster.NewSurface32(buf, w, h, w, swraster.ABGR8888, false)
	if err != nil {
		return nil, err
	}

	r := swraster.NewRenderer[uint32](swraster.WithThreads(threads))
	defer r.Close()
	if err := r.Target(s); err != nil {
		return nil, err
	}
	for i := range scene.Shapes {
		if err := drawShape(r, &scene.Shapes[i]); err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
	}
	if err := r.Sync(); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, c := range buf {
		img.Pix[4*i+0] = uint8(c)
		img.Pix[4*i+1] = uint8(c >> 8)
		img.Pix[4*i+2] = uint8(c >> 16)
		img.Pix[4*i+3] = uint8(c >> 24)
	}
	return img, nil
}

// drawShape draws one shape, through a compositor when it has group
// opacity, an effect or a mask.
func drawShape(r *swraster.Renderer[uint32], d *ShapeDef) error {
	sh, err := d.Shape()
	if err != nil {
		return err
	}
	r.SetBlendMethod(swraster.BlendNormal)
	if d.Blend != "" {
		m, ok := swraster.ParseBlendMethod(d.Blend)
		if !ok {
			return fmt.Errorf("unknown blend method %q", d.Blend)
		}
		r.SetBlendMethod(m)
	}

	var sd swraster.ShapeData[uint32]
	if err := r.PrepareShape(&sd, sh, nil, 255, 0); err != nil {
		return err
	}

	var effect swraster.Effect
	switch {
	case d.Shadow != nil:
		effect = &swraster.DropShadow{
			Color:    d.Shadow.Color,
			Angle:    d.Shadow.Angle,
			Distance: d.Shadow.Distance,
			Sigma:    d.Shadow.Sigma,
			Quality:  100,
		}
	case d.Blur > 0:
		effect = &swraster.GaussianBlur{Sigma: d.Blur, Quality: 100}
	}
	if effect != nil && !swraster.PrepareEffect(effect, sh.Transform) {
		effect = nil
	}

	if d.Mask != nil {
		return drawMasked(r, d, &sd)
	}
	if effect == nil && d.opacity() == 255 {
		return r.RenderShape(&sd)
	}

	c, err := r.OpenCompositor(swraster.EffectRegion(effect, sd.Bounds()))
	if err != nil {
		return err
	}
	if err := r.RenderShape(&sd); err != nil {
		return err
	}
	r.BeginComposite(c, swraster.CompositeNone, d.opacity())
	if effect != nil {
		if _, err := r.Effect(c, effect, false); err != nil {
			return err
		}
	}
	return r.EndComposite(c)
}

// drawMasked renders the mask of d into a compositor and draws the shape
// through it.
func drawMasked(r *swraster.Renderer[uint32], d *ShapeDef, sd *swraster.ShapeData[uint32]) error {
	method, ok := maskMethods[d.MaskMethod]
	if !ok {
		return fmt.Errorf("unknown mask method %q", d.MaskMethod)
	}
	msh, err := d.Mask.Shape()
	if err != nil {
		return err
	}
	var md swraster.ShapeData[uint32]
	if err := r.PrepareShape(&md, msh, nil, 255, 0); err != nil {
		return err
	}
	c, err := r.OpenCompositor(md.Bounds())
	if err != nil {
		return err
	}
	if err := r.RenderShape(&md); err != nil {
		return err
	}
	r.BeginComposite(c, method, d.opacity())
	if err := r.RenderShape(sd); err != nil {
		return err
	}
	return r.EndComposite(c)
}
