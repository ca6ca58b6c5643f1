package systems

import "testing"

func TestParticleBurstsAndExpiry(t *testing.T) {
	ps := NewParticleSystem(1)

	ps.EmitSpark(10, 20)
	sparks := ps.Count()
	if sparks < 8 || sparks > 14 {
		t.Fatalf("spark count = %d, want 8..14", sparks)
	}
	ps.EmitExplosion(0, 0)
	if ps.Count() < sparks+24 {
		t.Fatalf("count after explosion = %d", ps.Count())
	}

	// Sparks live at most 0.4s, explosions at most 1s.
	for i := 0; i < 30; i++ {
		ps.Update(1.0 / 60)
	}
	for _, p := range ps.Particles {
		if p.Type == ParticleSpark {
			t.Fatal("sparks should have expired after 0.5s")
		}
	}
	for i := 0; i < 40; i++ {
		ps.Update(1.0 / 60)
	}
	if ps.Count() != 0 {
		t.Errorf("count after 1.17s = %d, want 0", ps.Count())
	}
}

func TestParticlesMoveOutward(t *testing.T) {
	ps := NewParticleSystem(7)
	ps.EmitMuzzle(0, 0)
	before := make([]float32, ps.Count())
	for i, p := range ps.Particles {
		before[i] = p.X*p.X + p.Y*p.Y
	}
	ps.Update(0.05)
	for i, p := range ps.Particles {
		if p.Life >= p.MaxLife {
			t.Errorf("particle %d did not age", i)
		}
		if d := p.X*p.X + p.Y*p.Y; d == before[i] {
			t.Errorf("particle %d did not move", i)
		}
	}
}

func TestParticleCap(t *testing.T) {
	ps := NewParticleSystem(3)
	for i := 0; i < 50; i++ {
		ps.EmitExplosion(0, 0)
	}
	if ps.Count() != 500 {
		t.Errorf("count = %d, want cap of 500", ps.Count())
	}
}
