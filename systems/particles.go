package systems

import (
	"math"
	"math/rand"
)

// ParticleType identifies the type of effect particle.
type ParticleType uint8

const (
	ParticleMuzzle ParticleType = iota
	ParticleSpark
	ParticleExplosion
)

// EffectParticle represents a visual feedback particle in world units.
type EffectParticle struct {
	X, Y       float32
	VelX, VelY float32 // units per second
	Life       float32 // seconds left
	MaxLife    float32
	Type       ParticleType
	Size       float32
}

// ParticleSystem manages effect particles for visual feedback.
type ParticleSystem struct {
	Particles    []EffectParticle
	maxParticles int
	rng          *rand.Rand
}

// NewParticleSystem creates a new particle system.
func NewParticleSystem(seed int64) *ParticleSystem {
	return &ParticleSystem{
		Particles:    make([]EffectParticle, 0, 500),
		maxParticles: 500,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Update ages and moves all particles by dt seconds.
func (s *ParticleSystem) Update(dt float64) {
	step := float32(dt)
	drag := float32(math.Pow(0.05, dt)) // keeps 5% of the speed after one second
	alive := 0
	for i := range s.Particles {
		p := &s.Particles[i]

		p.Life -= step
		if p.Life <= 0 {
			continue
		}

		p.VelX *= drag
		p.VelY *= drag
		p.X += p.VelX * step
		p.Y += p.VelY * step

		s.Particles[alive] = s.Particles[i]
		alive++
	}
	s.Particles = s.Particles[:alive]
}

// EmitMuzzle emits a small flash where a shot left the barrel.
func (s *ParticleSystem) EmitMuzzle(x, y float32) {
	s.burst(x, y, ParticleMuzzle, 4+s.rng.Intn(3), 40, 0.15)
}

// EmitSpark emits sparks where a bullet struck a wall.
func (s *ParticleSystem) EmitSpark(x, y float32) {
	s.burst(x, y, ParticleSpark, 8+s.rng.Intn(7), 120, 0.4)
}

// EmitExplosion emits the burst of a destroyed tank.
func (s *ParticleSystem) EmitExplosion(x, y float32) {
	s.burst(x, y, ParticleExplosion, 24+s.rng.Intn(13), 160, 1.0)
}

// burst emits count particles flying radially at up to speed, living up to life seconds.
func (s *ParticleSystem) burst(x, y float32, ptype ParticleType, count int, speed, life float32) {
	for i := 0; i < count; i++ {
		if len(s.Particles) >= s.maxParticles {
			return
		}
		angle := s.rng.Float64() * 2 * math.Pi
		v := speed * (0.3 + 0.7*s.rng.Float32())
		l := life * (0.5 + 0.5*s.rng.Float32())

		s.Particles = append(s.Particles, EffectParticle{
			X:       x + (s.rng.Float32()-0.5)*4,
			Y:       y + (s.rng.Float32()-0.5)*4,
			VelX:    float32(math.Cos(angle)) * v,
			VelY:    float32(math.Sin(angle)) * v,
			Life:    l,
			MaxLife: l,
			Type:    ptype,
			Size:    2 + s.rng.Float32()*1.5,
		})
	}
}

// Count returns the current number of active particles.
func (s *ParticleSystem) Count() int {
	return len(s.Particles)
}
