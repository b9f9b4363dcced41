package greenmoon

import (
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Sprite draws an image with a Placement. It answers the placement messages
// (get/set/add_position, get/set_scale, get/set_rotation, set_flip,
// set_alignment, set_alpha, set_color, get_bounds, contains_point) plus
// get_size.
type Sprite struct {
	Placement
	Image *ebiten.Image
}

// NewSprite creates a sprite at pos. img may be nil for logic-only tests.
func NewSprite(img *ebiten.Image, pos Vec2) *Sprite {
	s := &Sprite{Placement: DefaultPlacement(), Image: img}
	s.Position = pos
	return s
}

func (s *Sprite) imageSize() (float64, float64) {
	if s.Image == nil {
		return 0, 0
	}
	b := s.Image.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Size returns the scaled size of the image.
func (s *Sprite) Size() Size {
	w, h := s.imageSize()
	return Size{w * math.Abs(s.Scale.X), h * math.Abs(s.Scale.Y)}
}

func (s *Sprite) SendMessage(msg Message, _ *ObjectManager) (Value, error) {
	if msg.HasTags() {
		return None(), nil
	}
	if msg.Method == "get_size" {
		return SizeOf(s.Size()), nil
	}
	w, h := s.imageSize()
	v, _, err := s.handle(msg, w, h)
	return v, err
}

func (s *Sprite) Update(*ObjectManager) error { return nil }

func (s *Sprite) Draw(dc *DrawContext) {
	if dc.Screen == nil || s.Image == nil {
		return
	}
	w, h := s.imageSize()
	dc.Screen.DrawImage(s.Image, s.drawOptions(w, h))
}

// Clone shares the image, which is treated as an immutable asset handle.
func (s *Sprite) Clone() Object {
	c := *s
	return &c
}

// Debug font cell size used by ebitenutil.DebugPrint.
const (
	debugGlyphW = 6
	debugGlyphH = 16
)

// Label draws text with the ebitenutil debug font. Besides the placement
// messages it answers get_text and set_text.
type Label struct {
	Placement
	Background Color

	text  string
	image *ebiten.Image
	dirty bool
}

// NewLabel creates a label at pos.
func NewLabel(text string, pos Vec2) *Label {
	l := &Label{Placement: DefaultPlacement(), text: text, dirty: true}
	l.Position = pos
	return l
}

// Text returns the label's text.
func (l *Label) Text() string { return l.text }

// SetText changes the text. The label image is redrawn on the next Draw.
func (l *Label) SetText(text string) {
	if text == l.text {
		return
	}
	l.text = text
	l.dirty = true
}

func (l *Label) textSize() (float64, float64) {
	if l.text == "" {
		return 0, 0
	}
	lines := strings.Split(l.text, "\n")
	cols := 0
	for _, ln := range lines {
		cols = max(cols, len(ln))
	}
	return float64(cols * debugGlyphW), float64(len(lines) * debugGlyphH)
}

func (l *Label) SendMessage(msg Message, _ *ObjectManager) (Value, error) {
	if msg.HasTags() {
		return None(), nil
	}
	switch msg.Method {
	case "get_text":
		return String(l.text), nil
	case "set_text":
		s, err := msg.Value.AsString()
		if err != nil {
			return None(), err
		}
		l.SetText(s)
		return None(), nil
	case "get_size":
		w, h := l.textSize()
		return SizeOf(Size{w * math.Abs(l.Scale.X), h * math.Abs(l.Scale.Y)}), nil
	}
	w, h := l.textSize()
	v, _, err := l.handle(msg, w, h)
	return v, err
}

func (l *Label) Update(*ObjectManager) error { return nil }

func (l *Label) Draw(dc *DrawContext) {
	if dc.Screen == nil || l.text == "" {
		return
	}
	w, h := l.textSize()
	if l.dirty || l.image == nil {
		if l.image == nil || l.image.Bounds().Dx() != int(w) || l.image.Bounds().Dy() != int(h) {
			l.image = ebiten.NewImage(int(w), int(h))
		}
		l.image.Clear()
		if l.Background.A > 0 {
			l.image.Fill(l.Background.toRGBA())
		}
		ebitenutil.DebugPrint(l.image, l.text)
		l.dirty = false
	}
	dc.Screen.DrawImage(l.image, l.drawOptions(w, h))
}

func (l *Label) Clone() Object {
	c := *l
	c.image = nil
	c.dirty = true
	return &c
}
