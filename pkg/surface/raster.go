package surface

import (
	"image"
	"io"

	"github.com/gogpu/gg"

	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

// Raster draws into a gg pixel context.
type Raster struct {
	ctx       *gg.Context
	paint     paint
	fonts     *fontCache
	font      *theme.Font
	textScale float64
}

var _ Surface = (*Raster)(nil)

// NewRaster allocates a width x height pixel surface.
func NewRaster(width, height int) *Raster {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Raster{
		ctx:       gg.NewContext(width, height),
		paint:     newPaint(),
		fonts:     defaultFonts,
		textScale: 1,
	}
}

func (r *Raster) Width() int  { return r.ctx.Width() }
func (r *Raster) Height() int { return r.ctx.Height() }

// Scale scales subsequent geometry. gg draws text in device space, so text
// positions and font sizes are scaled here as well.
func (r *Raster) Scale(sx, sy float64) {
	r.ctx.Scale(sx, sy)
	r.textScale *= sy
	if r.font != nil {
		r.SetFont(*r.font)
	}
}

func (r *Raster) SetColor(c theme.Color) {
	r.paint.color = c
	r.apply()
}

func (r *Raster) SetGlobalAlpha(a float64) {
	r.paint.alpha = a
	r.apply()
}

func (r *Raster) apply() {
	c := r.paint.effective()
	r.ctx.SetRGBA(c.R, c.G, c.B, c.A)
}

func (r *Raster) SetLineWidth(w float64) { r.ctx.SetLineWidth(w) }

func (r *Raster) SetDash(lengths ...float64) {
	if len(lengths) == 0 {
		r.ctx.ClearDash()
		return
	}
	r.ctx.SetDash(lengths...)
}

func (r *Raster) MoveTo(x, y float64) { r.ctx.MoveTo(x, y) }
func (r *Raster) LineTo(x, y float64) { r.ctx.LineTo(x, y) }
func (r *Raster) ClosePath()          { r.ctx.ClosePath() }
func (r *Raster) NewSubPath()         { r.ctx.NewSubPath() }

func (r *Raster) DrawCircle(x, y, radius float64) { r.ctx.DrawCircle(x, y, radius) }

func (r *Raster) DrawRectangle(x, y, w, h float64) { r.ctx.DrawRectangle(x, y, w, h) }

func (r *Raster) Fill() error   { return r.ctx.Fill() }
func (r *Raster) Stroke() error { return r.ctx.Stroke() }

func (r *Raster) FillRect(x, y, w, h float64) error {
	r.ctx.DrawRectangle(x, y, w, h)
	return r.ctx.Fill()
}

// SetFont selects the closest embedded face. Load failures leave the
// previous face active.
func (r *Raster) SetFont(f theme.Font) {
	r.font = &f
	scaled := f
	scaled.Size = f.Size * r.textScale
	face, err := r.fonts.face(scaled)
	if err != nil {
		return
	}
	r.ctx.SetFont(face)
}

func (r *Raster) DrawText(s string, x, y float64, align Align) {
	px, py := r.ctx.TransformPoint(x, y)
	r.ctx.DrawStringAnchored(s, px, py, align.anchor(), 0)
}

// Image returns the rendered pixels.
func (r *Raster) Image() image.Image { return r.ctx.Image() }

func (r *Raster) EncodePNG(w io.Writer) error { return r.ctx.EncodePNG(w) }

// EncodeJPEG writes the surface as JPEG with quality in 1..100.
func (r *Raster) EncodeJPEG(w io.Writer, quality int) error {
	return r.ctx.EncodeJPEG(w, quality)
}

// Close releases the context.
func (r *Raster) Close() error { return r.ctx.Close() }
