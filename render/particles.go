package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tankarena/camera"
	"github.com/pthm-cable/tankarena/systems"
)

// DrawParticles renders effect particles, fading them out as they age.
func DrawParticles(particles []systems.EffectParticle, cam *camera.Camera) {
	for i := range particles {
		p := &particles[i]
		if !cam.IsVisible(p.X, p.Y, p.Size) {
			continue
		}

		lifeRatio := p.Life / p.MaxLife

		var color rl.Color
		switch p.Type {
		case systems.ParticleMuzzle:
			// White-yellow
			color = rl.Color{R: 255, G: 240, B: 180, A: uint8(lifeRatio * 220)}
		case systems.ParticleSpark:
			// Yellow
			color = rl.Color{R: 250, G: 210, B: 90, A: uint8(lifeRatio * 200)}
		case systems.ParticleExplosion:
			// Orange
			color = rl.Color{R: 255, G: 150, B: 50, A: uint8(lifeRatio * 230)}
		}

		size := p.Size * lifeRatio * cam.Zoom
		if size < 0.5 {
			size = 0.5
		}
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, size, color)
	}
}
