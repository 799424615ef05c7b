// Package pixelsnap turns soft, off-grid "pixel art" (typically AI
// generated) into true low-resolution pixel art whose cells follow the
// artwork's implicit grid lines.
//
// The pipeline quantizes colors, measures edge energy per column and row,
// estimates the grid spacing, walks an elastic grid along the edges,
// stabilizes both axes against each other and finally takes the majority
// color of every cell.
package pixelsnap

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

type Snapper struct {
	opt Options
}

// Result is the snapped image together with the grid that produced it.
type Result struct {
	Image     *image.NRGBA
	SrcWidth  int
	SrcHeight int
	// Final cut positions in source pixels. len(ColCuts)-1 == Image width.
	ColCuts []int
	RowCuts []int
	// Resolved cell sizes and whether they came from peak detection
	// rather than the fallback segment count.
	StepX, StepY         float64
	DetectedX, DetectedY bool
	// Distinct opaque output colors, most frequent first.
	Palette []colorful.Color
}

func (r *Result) Width() int  { return r.Image.Rect.Dx() }
func (r *Result) Height() int { return r.Image.Rect.Dy() }

// New returns a Snapper using DefaultOptions with opts applied on top.
func New(opts ...Option) (*Snapper, error) {
	return NewWithOptions(buildOptions(opts))
}

func NewWithOptions(opt Options) (*Snapper, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return &Snapper{opt: opt}, nil
}

func (s *Snapper) Options() Options { return s.opt }

// Snap runs the full pipeline with DefaultOptions overridden by opts.
// The input is never modified.
func Snap(img image.Image, opts ...Option) (*image.NRGBA, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	res, err := s.Run(img)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// Run snaps img. It is safe to call concurrently on one Snapper.
func (s *Snapper) Run(img image.Image) (*Result, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}
	opt := s.opt
	log := opt.logger()

	// 1. Quantize
	quantized, centroids := quantize(toNRGBA(img), opt)
	log.Debug().Str("stage", "quantize").Int("centroids", len(centroids)).Msg("palette reduced")

	// 2. Edge profiles
	colProfile, rowProfile := edgeProfiles(quantized)

	// 3-4. Grid spacing
	rawX, okX := estimateStep(colProfile, opt)
	rawY, okY := estimateStep(rowProfile, opt)
	stepX, stepY := resolveSteps(rawX, okX, rawY, okY, w, h, opt)
	log.Debug().Str("stage", "step").
		Bool("detected_x", okX).Bool("detected_y", okY).
		Float64("step_x", stepX).Float64("step_y", stepY).
		Msg("grid spacing resolved")

	// 5. Elastic walk + two-pass stabilization
	rawCols := walk(colProfile, stepX, w, opt)
	rawRows := walk(rowProfile, stepY, h, opt)
	cols, rows := stabilizeBothAxes(colProfile, rowProfile, rawCols, rawRows, w, h, opt)
	log.Debug().Str("stage", "cuts").
		Int("raw_cols", len(rawCols)).Int("raw_rows", len(rawRows)).
		Int("cols", len(cols)).Int("rows", len(rows)).
		Msg("grid stabilized")

	// 6. Resample
	out := resample(quantized, cols, rows, opt.Workers)
	log.Debug().Str("stage", "resample").
		Int("width", out.Rect.Dx()).Int("height", out.Rect.Dy()).
		Msg("snapped")

	return &Result{
		Image:     out,
		SrcWidth:  w,
		SrcHeight: h,
		ColCuts:   cols,
		RowCuts:   rows,
		StepX:     stepX,
		StepY:     stepY,
		DetectedX: okX,
		DetectedY: okY,
		Palette:   paletteOf(out),
	}, nil
}

// FromPix wraps a row-major, non-premultiplied RGBA buffer without copying.
func FromPix(width, height int, pix []uint8) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, &DimensionError{Width: width, Height: height}
	}
	if len(pix) != width*height*4 {
		return nil, &BufferSizeError{Width: width, Height: height, Len: len(pix)}
	}
	return &image.NRGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}, nil
}

// toNRGBA copies img into a fresh, zero-origin NRGBA with a tight stride.
// NRGBA sources are copied row by row so the color channels of fully
// transparent pixels survive; draw would premultiply them away.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.NRGBA); ok {
		rowLen := b.Dx() * 4
		for y := range b.Dy() {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[off:off+rowLen])
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
