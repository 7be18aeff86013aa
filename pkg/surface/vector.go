package surface

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/recording"

	"github.com/alexisbeaulieu97/bizcharts/pkg/theme"
)

// Vector captures drawing calls as a gg recording that can be replayed into
// any registered export backend.
type Vector struct {
	rec   *recording.Recorder
	paint paint
}

var _ Surface = (*Vector)(nil)

// NewVector starts a recording of the given size.
func NewVector(width, height int) *Vector {
	return &Vector{rec: recording.NewRecorder(width, height), paint: newPaint()}
}

func (v *Vector) Width() int  { return v.rec.Width() }
func (v *Vector) Height() int { return v.rec.Height() }

func (v *Vector) Scale(sx, sy float64) { v.rec.Scale(sx, sy) }

func (v *Vector) SetColor(c theme.Color) {
	v.paint.color = c
	v.apply()
}

func (v *Vector) SetGlobalAlpha(a float64) {
	v.paint.alpha = a
	v.apply()
}

func (v *Vector) apply() {
	c := v.paint.effective()
	v.rec.SetColor(gg.RGBA2(c.R, c.G, c.B, c.A))
}

func (v *Vector) SetLineWidth(w float64) { v.rec.SetLineWidth(w) }

func (v *Vector) SetDash(lengths ...float64) {
	if len(lengths) == 0 {
		v.rec.ClearDash()
		return
	}
	v.rec.SetDash(lengths...)
}

func (v *Vector) MoveTo(x, y float64) { v.rec.MoveTo(x, y) }
func (v *Vector) LineTo(x, y float64) { v.rec.LineTo(x, y) }
func (v *Vector) ClosePath()          { v.rec.ClosePath() }
func (v *Vector) NewSubPath()         { v.rec.NewSubPath() }

func (v *Vector) DrawCircle(x, y, r float64) { v.rec.DrawCircle(x, y, r) }

func (v *Vector) DrawRectangle(x, y, w, h float64) { v.rec.DrawRectangle(x, y, w, h) }

func (v *Vector) Fill() error {
	v.rec.Fill()
	return nil
}

func (v *Vector) Stroke() error {
	v.rec.Stroke()
	return nil
}

func (v *Vector) FillRect(x, y, w, h float64) error {
	v.rec.FillRectangle(x, y, w, h)
	return nil
}

func (v *Vector) SetFont(f theme.Font) {
	v.rec.SetFontFamily(f.Family)
	v.rec.SetFontSize(f.Size)
}

// DrawText records the baseline origin; anchoring is left to the backend.
func (v *Vector) DrawText(s string, x, y float64, _ Align) {
	v.rec.DrawString(s, x, y)
}

// Finish seals the recording. The surface must not be drawn on afterwards.
func (v *Vector) Finish() *recording.Recording {
	return v.rec.FinishRecording()
}
