package greenmoon

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game adapts a SceneManager to ebiten.Game. Update runs one scene update
// pass per tick with a fixed delta of one tick; Draw clears the screen and
// draws the current scene.
type Game struct {
	Scenes *SceneManager

	cfg   Config
	frame uint64
	quit  bool
}

// NewGame creates a Game for sm.
func NewGame(sm *SceneManager, cfg Config) *Game {
	return &Game{Scenes: sm, cfg: cfg}
}

// Frame returns the number of completed update passes.
func (g *Game) Frame() uint64 { return g.frame }

// Quit makes the next Update end the game loop.
func (g *Game) Quit() { g.quit = true }

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.frame++
	fc := FrameContext{Frame: g.frame, Delta: time.Second / time.Duration(ebiten.TPS())}
	if err := g.Scenes.Update(fc); err != nil {
		logger.Error("update failed", "frame", g.frame, "err", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.ClearColor.toRGBA())
	g.Scenes.Draw(&DrawContext{Screen: screen, Frame: g.frame})
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// applyConfig sets the log level and the debug mode of every scene.
func applyConfig(sm *SceneManager, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	SetLogLevel(cfg.LogLevel)
	for p := sm.scenes.Oldest(); p != nil; p = p.Next() {
		for s := p.Value; s != nil; s = s.child {
			s.objects.SetDebugMode(cfg.Debug)
		}
	}
	return nil
}

// Run opens a window and runs sm until the window is closed or Quit is
// called.
func Run(sm *SceneManager, cfg Config) error {
	if err := applyConfig(sm, cfg); err != nil {
		return err
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(cfg.FrameRate)
	logger.Info("starting", "title", cfg.Title, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), "fps", cfg.FrameRate)
	return ebiten.RunGame(NewGame(sm, cfg))
}

// Pacer spaces calls to Wait one frame apart.
type Pacer struct {
	frame time.Duration
	next  time.Time
	now   func() time.Time
}

// NewPacer creates a pacer for frameRate frames per second.
func NewPacer(frameRate int) *Pacer {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Pacer{frame: time.Second / time.Duration(frameRate), now: time.Now}
}

// Frame returns the frame duration.
func (p *Pacer) Frame() time.Duration { return p.frame }

// Wait blocks until the current frame's time is used up. The first call
// returns at once. A caller that falls more than a frame behind is not made
// to catch up.
func (p *Pacer) Wait(ctx context.Context) error {
	now := p.now()
	if p.next.IsZero() || now.After(p.next) {
		p.next = now.Add(p.frame)
		return ctx.Err()
	}
	t := time.NewTimer(p.next.Sub(now))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	p.next = p.next.Add(p.frame)
	return nil
}

// RunHeadless steps sm at cfg.FrameRate without a window. before, if not
// nil, runs ahead of every update pass on the same goroutine; an error from
// it stops the loop. frames <= 0 runs until ctx is done. Update errors are
// logged, not returned.
func RunHeadless(ctx context.Context, sm *SceneManager, cfg Config, frames int, before func(frame uint64) error) error {
	if err := applyConfig(sm, cfg); err != nil {
		return err
	}
	pacer := NewPacer(cfg.FrameRate)
	delta := pacer.Frame()
	for frame := uint64(1); frames <= 0 || frame <= uint64(frames); frame++ {
		if err := pacer.Wait(ctx); err != nil {
			return err
		}
		if before != nil {
			if err := before(frame); err != nil {
				return fmt.Errorf("frame %d: %w", frame, err)
			}
		}
		if err := sm.Update(FrameContext{Frame: frame, Delta: delta}); err != nil {
			logger.Error("update failed", "frame", frame, "err", err)
		}
	}
	return nil
}
