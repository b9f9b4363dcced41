package greenmoon

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestSpriteSize(t *testing.T) {
	s := NewSprite(ebiten.NewImage(16, 8), Vec2{})
	if got := s.Size(); got != (Size{16, 8}) {
		t.Errorf("Size() = %v, want {16 8}", got)
	}
	s.Scale = Vec2{-2, 0.5}
	if got := s.Size(); got != (Size{32, 4}) {
		t.Errorf("scaled Size() = %v, want {32 4}", got)
	}
}

func TestSpriteNilImage(t *testing.T) {
	s := NewSprite(nil, Vec2{1, 1})
	if got := s.Size(); got != (Size{}) {
		t.Errorf("Size() = %v, want zero", got)
	}
	// Draw with no image or screen must not panic.
	s.Draw(&DrawContext{})
	s.Draw(&DrawContext{Screen: ebiten.NewImage(4, 4)})
}

func TestSpriteMessages(t *testing.T) {
	om := NewObjectManager()
	om.AddDrawObject("hero", NewSprite(ebiten.NewImage(10, 10), Vec2{20, 20}))
	hero := To("hero")

	mustSend(t, om, hero, Msg("set_alignment", "center"))
	if !mustSend(t, om, hero, Msg("contains_point", Vec2{16, 16})).Equal(Bool(true)) {
		t.Error("centered sprite should contain (16, 16)")
	}
	if !mustSend(t, om, hero, Msg("contains_point", Vec2{26, 20})).Equal(Bool(false)) {
		t.Error("centered sprite should not contain (26, 20)")
	}

	mustSend(t, om, hero, Msg("set_scale", 3))
	size, err := mustSend(t, om, hero, Msg("get_size")).AsSize()
	if err != nil || size != (Size{30, 30}) {
		t.Errorf("get_size = %v, %v, want {30 30}", size, err)
	}

	if got := mustSend(t, om, hero, Msg("unknown")); !got.IsNone() {
		t.Errorf("unknown method = %v, want None", got)
	}
	if got := mustSend(t, om, hero, TaggedMessage("arm", "set_position", Vec(0, 0))); !got.IsNone() {
		t.Errorf("tagged message = %v, want None", got)
	}
	if got := vec(t, mustSend(t, om, hero, Msg("get_position"))); got != (Vec2{20, 20}) {
		t.Errorf("tagged message moved the sprite to %v", got)
	}
}

func TestSpriteClone(t *testing.T) {
	img := ebiten.NewImage(2, 2)
	s := NewSprite(img, Vec2{1, 2})
	c := s.Clone().(*Sprite)
	c.Position = Vec2{9, 9}
	if s.Position != (Vec2{1, 2}) {
		t.Error("clone shares placement with original")
	}
	if c.Image != img {
		t.Error("clone should share the image")
	}
}

func TestLabelText(t *testing.T) {
	om := NewObjectManager()
	l := NewLabel("ab\ncde", Vec2{})
	om.AddDrawObject("label", l)

	size, _ := mustSend(t, om, To("label"), Msg("get_size")).AsSize()
	if size != (Size{3 * debugGlyphW, 2 * debugGlyphH}) {
		t.Errorf("get_size = %v, want {18 32}", size)
	}

	mustSend(t, om, To("label"), Msg("set_text", "score: 10"))
	if got, _ := mustSend(t, om, To("label"), Msg("get_text")).AsString(); got != "score: 10" {
		t.Errorf("get_text = %q, want %q", got, "score: 10")
	}
	if !l.dirty {
		t.Error("set_text should mark the label dirty")
	}

	if _, err := om.SendMessage(To("label"), Msg("set_text", 10)); err == nil {
		t.Error("set_text with a number should fail")
	}
}

func TestLabelDrawCachesImage(t *testing.T) {
	l := NewLabel("hi", Vec2{})
	screen := ebiten.NewImage(32, 32)
	l.Draw(&DrawContext{Screen: screen})
	if l.dirty || l.image == nil {
		t.Fatal("Draw should render the label image")
	}
	img := l.image
	l.SetText("hi")
	l.Draw(&DrawContext{Screen: screen})
	if l.image != img {
		t.Error("unchanged text should reuse the label image")
	}
}

func TestFPSWidgetRefresh(t *testing.T) {
	om := NewObjectManager()
	f := NewFPSWidget(Vec2{})
	f.read = func() (float64, float64) { return 59.5, 60 }
	om.AddDrawObject("fps", f)
	if want := (Color{0, 0, 0, 128.0 / 255}); f.Background != want {
		t.Errorf("Background = %v, want %v", f.Background, want)
	}

	step(t, om, 1, quarter)
	if got := f.Text(); got != "FPS: 0.0\nTPS: 0.0" {
		t.Errorf("Text before refresh = %q", got)
	}
	step(t, om, 1, quarter)
	if got := f.Text(); got != "FPS: 59.5\nTPS: 60.0" {
		t.Errorf("Text after refresh = %q", got)
	}
	if f.since != 0 {
		t.Errorf("since = %v, want 0 after refresh", f.since)
	}

	step(t, om, 1, 100*time.Millisecond)
	if f.since != 100*time.Millisecond {
		t.Errorf("since = %v, want 100ms", f.since)
	}
}
