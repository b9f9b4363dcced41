package greenmoon

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// particle holds per-particle simulation state.
type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64 // remaining lifetime in seconds
	maxLife    float64 // initial lifetime (for computing t)
	scale      float64
	startScale float64
	endScale   float64
	alpha      float64
	startAlpha float64
	endAlpha   float64
	color      Color
}

// EmitterConfig controls how particles are spawned and behave.
type EmitterConfig struct {
	// MaxParticles is the pool size. New particles are silently dropped when full.
	MaxParticles int
	// EmitRate is the number of particles spawned per second.
	EmitRate float64
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial particle speeds in pixels per second.
	Speed Range
	// Angle is the range of emission angles in radians.
	Angle Range
	// StartScale is interpolated to EndScale over a particle's lifetime.
	StartScale Range
	EndScale   Range
	// StartAlpha is interpolated to EndAlpha over a particle's lifetime.
	StartAlpha Range
	EndAlpha   Range
	// Gravity is the constant acceleration applied to all particles.
	Gravity Vec2
	// StartColor is interpolated to EndColor over a particle's lifetime.
	StartColor Color
	EndColor   Color
	// WorldSpace keeps emitted particles where they were spawned instead of
	// following the emitter when it moves.
	WorldSpace bool
}

// ParticleEffect is a CPU particle emitter object. Particles are drawn with
// Image centered on each particle.
//
// Messages: start, stop, reset, burst(n), get_position, set_position,
// set_rate, is_active, alive_count.
type ParticleEffect struct {
	Image    *ebiten.Image
	Position Vec2

	config    EmitterConfig
	particles []particle
	alive     int
	emitAccum float64
	active    bool
}

// NewParticleEffect creates an effect with a preallocated pool. It starts
// stopped.
func NewParticleEffect(img *ebiten.Image, pos Vec2, cfg EmitterConfig) *ParticleEffect {
	n := cfg.MaxParticles
	if n <= 0 {
		n = 128
	}
	return &ParticleEffect{
		Image:     img,
		Position:  pos,
		config:    cfg,
		particles: make([]particle, n),
	}
}

// Start begins emitting particles.
func (e *ParticleEffect) Start() { e.active = true }

// Stop stops emitting new particles. Existing particles live out.
func (e *ParticleEffect) Stop() { e.active = false }

// Reset stops emitting and kills all alive particles.
func (e *ParticleEffect) Reset() {
	e.active = false
	e.alive = 0
	e.emitAccum = 0
}

// IsActive reports whether the effect is emitting new particles.
func (e *ParticleEffect) IsActive() bool { return e.active }

// AliveCount returns the number of alive particles.
func (e *ParticleEffect) AliveCount() int { return e.alive }

// Config returns the emitter config for live tuning.
func (e *ParticleEffect) Config() *EmitterConfig { return &e.config }

// Burst spawns up to n particles at once, regardless of the emit rate.
// It returns how many were spawned.
func (e *ParticleEffect) Burst(n int) int {
	spawned := 0
	for ; spawned < n && e.alive < len(e.particles); spawned++ {
		e.spawn()
	}
	return spawned
}

// step advances the simulation by dt seconds.
func (e *ParticleEffect) step(dt float64) {
	gx := e.config.Gravity.X * dt
	gy := e.config.Gravity.Y * dt

	// Swap-remove dead particles.
	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}

		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt

		t := 1.0 - p.life/p.maxLife
		p.scale = lerp(p.startScale, p.endScale, t)
		p.alpha = lerp(p.startAlpha, p.endAlpha, t)
		p.color = Color{
			R: lerp(e.config.StartColor.R, e.config.EndColor.R, t),
			G: lerp(e.config.StartColor.G, e.config.EndColor.G, t),
			B: lerp(e.config.StartColor.B, e.config.EndColor.B, t),
			A: 1,
		}
		i++
	}

	if e.active && e.config.EmitRate > 0 {
		e.emitAccum += e.config.EmitRate * dt
		for e.emitAccum >= 1.0 {
			e.emitAccum -= 1.0
			if e.alive < len(e.particles) {
				e.spawn()
			}
		}
	}
}

// spawn initializes the particle at slot e.alive and increments alive.
func (e *ParticleEffect) spawn() {
	p := &e.particles[e.alive]

	angle := e.config.Angle.Random()
	speed := e.config.Speed.Random()
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed

	if e.config.WorldSpace {
		p.x, p.y = e.Position.X, e.Position.Y
	} else {
		p.x, p.y = 0, 0
	}

	p.life = e.config.Lifetime.Random()
	if p.life <= 0 {
		p.life = 1.0
	}
	p.maxLife = p.life

	p.startScale = e.config.StartScale.Random()
	p.endScale = e.config.EndScale.Random()
	p.scale = p.startScale
	p.startAlpha = e.config.StartAlpha.Random()
	p.endAlpha = e.config.EndAlpha.Random()
	p.alpha = p.startAlpha
	p.color = e.config.StartColor
	p.color.A = 1

	e.alive++
}

// particlePosition returns the screen position of a particle.
func (e *ParticleEffect) particlePosition(p *particle) (float64, float64) {
	if e.config.WorldSpace {
		return p.x, p.y
	}
	return p.x + e.Position.X, p.y + e.Position.Y
}

func (e *ParticleEffect) SendMessage(msg Message, _ *ObjectManager) (Value, error) {
	if msg.HasTags() {
		return None(), nil
	}
	switch msg.Method {
	case "start":
		e.Start()
	case "stop":
		e.Stop()
	case "reset":
		e.Reset()
	case "burst":
		n, err := msg.Value.AsInt()
		if err != nil {
			return None(), err
		}
		return Int(e.Burst(n)), nil
	case "get_position":
		return VecOf(e.Position), nil
	case "set_position":
		p, err := msg.Value.AsVec2()
		if err != nil {
			return None(), err
		}
		e.Position = p
	case "set_rate":
		r, err := msg.Value.Number()
		if err != nil {
			return None(), err
		}
		e.config.EmitRate = r
	case "is_active":
		return Bool(e.active), nil
	case "alive_count":
		return Int(e.alive), nil
	}
	return None(), nil
}

func (e *ParticleEffect) Update(om *ObjectManager) error {
	e.step(om.Delta().Seconds())
	return nil
}

func (e *ParticleEffect) Draw(dc *DrawContext) {
	if dc.Screen == nil || e.Image == nil {
		return
	}
	b := e.Image.Bounds()
	hw, hh := float64(b.Dx())/2, float64(b.Dy())/2
	var op ebiten.DrawImageOptions
	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		x, y := e.particlePosition(p)
		op.GeoM.Reset()
		op.GeoM.Translate(-hw, -hh)
		op.GeoM.Scale(p.scale, p.scale)
		op.GeoM.Translate(x, y)
		op.ColorScale.Reset()
		a := float32(p.alpha)
		op.ColorScale.Scale(float32(p.color.R)*a, float32(p.color.G)*a, float32(p.color.B)*a, a)
		dc.Screen.DrawImage(e.Image, &op)
	}
}

// Clone copies the configuration and position. The clone starts with an
// empty pool in the same emitting state.
func (e *ParticleEffect) Clone() Object {
	c := NewParticleEffect(e.Image, e.Position, e.config)
	c.active = e.active
	return c
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}
