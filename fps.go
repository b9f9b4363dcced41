package greenmoon

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// fpsRefresh is how often the FPS widget re-reads the counters.
const fpsRefresh = 500 * time.Millisecond

// FPSWidget is a Label showing ebiten's measured FPS and TPS, refreshed
// about twice a second. Add it as a draw object with a high draw index so it
// stays on top.
type FPSWidget struct {
	*Label
	since time.Duration

	// read returns (fps, tps). Replaced in tests.
	read func() (float64, float64)
}

// NewFPSWidget creates the widget at pos.
func NewFPSWidget(pos Vec2) *FPSWidget {
	l := NewLabel("FPS: 0.0\nTPS: 0.0", pos)
	// Semi-transparent background for readability
	l.Background = Color{0, 0, 0, 128.0 / 255}
	return &FPSWidget{Label: l, read: func() (float64, float64) {
		return ebiten.ActualFPS(), ebiten.ActualTPS()
	}}
}

func (f *FPSWidget) Update(om *ObjectManager) error {
	f.since += om.Delta()
	if f.since < fpsRefresh {
		return nil
	}
	f.since = 0
	fps, tps := f.read()
	f.SetText(fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps))
	return nil
}

func (f *FPSWidget) Clone() Object {
	return &FPSWidget{Label: f.Label.Clone().(*Label), read: f.read}
}
