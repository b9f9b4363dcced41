package main

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/greenmoon"
)

// demoScenes builds the scenes every command runs against: "main" with an
// orbiting box that sheds sparks, and an empty "menu" to switch to.
func demoScenes(cfg greenmoon.Config) (*greenmoon.SceneManager, error) {
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)

	w, h := float64(cfg.Width), float64(cfg.Height)
	center := greenmoon.Vec2{X: w / 2, Y: h / 2}

	play := greenmoon.NewScene("main", nil)
	om := play.Objects()

	box := greenmoon.NewSprite(white, center)
	box.Scale = greenmoon.Vec2{X: 24, Y: 24}
	box.Align = greenmoon.AlignCenter
	box.Color = greenmoon.Color{R: 80.0 / 255.0, G: 180.0 / 255.0, B: 1, A: 1}
	om.AddDrawObject("box", box, greenmoon.WithDrawIndex(1))

	om.AddNormalObject("orbit", greenmoon.NewCircularMover(
		greenmoon.SubjectNamed("box"), center, math.Min(w, h)/3, 0, 2*math.Pi, 0.005, greenmoon.RepeatForward))

	sparks := greenmoon.NewParticleEffect(white, center, greenmoon.EmitterConfig{
		MaxParticles: 256,
		EmitRate:     40,
		Lifetime:     greenmoon.Range{Min: 0.5, Max: 1.2},
		Speed:        greenmoon.Range{Min: 20, Max: 60},
		Angle:        greenmoon.Range{Min: 0, Max: 2 * math.Pi},
		StartScale:   greenmoon.Range{Min: 3, Max: 4},
		EndScale:     greenmoon.Range{Min: 1, Max: 1},
		StartAlpha:   greenmoon.Range{Min: 1, Max: 1},
		EndAlpha:     greenmoon.Range{Min: 0, Max: 0},
		Gravity:      greenmoon.Vec2{Y: 30},
		StartColor:   greenmoon.Color{R: 1, G: 0.8, B: 0.3, A: 1},
		EndColor:     greenmoon.Color{R: 1, G: 0.2, B: 0.1, A: 1},
		WorldSpace:   true,
	})
	sparks.Start()
	om.AddDrawObject("sparks", sparks)
	om.AddNormalObject("pulse", greenmoon.NewTimedSender(time.Second,
		greenmoon.To("sparks"), greenmoon.Msg("burst", 16), true))

	om.AddDrawObject("title", greenmoon.NewLabel(cfg.Title, greenmoon.Vec2{X: 8, Y: 8}), greenmoon.WithDrawIndex(10))
	om.AddDrawObject("fps", greenmoon.NewFPSWidget(greenmoon.Vec2{X: 8, Y: h - 40}), greenmoon.WithDrawIndex(10))

	menu := greenmoon.NewScene("menu", nil)
	menu.Objects().AddDrawObject("title", greenmoon.NewLabel("paused", center))
	menu.AddProperty("overlay")

	sm := greenmoon.NewSceneManager()
	for _, s := range []*greenmoon.Scene{play, menu} {
		if err := sm.AddScene(s); err != nil {
			return nil, err
		}
	}
	return sm, nil
}
