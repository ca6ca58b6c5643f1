// Package render draws a game.Frame with raylib.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/tankarena/camera"
	"github.com/pthm-cable/tankarena/components"
	"github.com/pthm-cable/tankarena/game"
	"github.com/pthm-cable/tankarena/geom"
	"github.com/pthm-cable/tankarena/ui"
)

var (
	background = rl.Color{R: 24, G: 28, B: 24, A: 255}
	wallColor  = rl.Color{R: 110, G: 110, B: 100, A: 255}
	wallEdge   = rl.Color{R: 70, G: 70, B: 64, A: 255}
	gridColor  = rl.Color{R: 255, G: 255, B: 255, A: 20}
	bulletFill = rl.Color{R: 250, G: 230, B: 120, A: 255}
	rayNone    = rl.Color{R: 200, G: 200, B: 200, A: 40}
	rayWall    = rl.Color{R: 230, G: 200, B: 80, A: 160}
	rayEnemy   = rl.Color{R: 240, G: 70, B: 70, A: 200}
)

// Draw renders the arena contents. The caller owns BeginDrawing/EndDrawing.
func Draw(f game.Frame, cam *camera.Camera, overlays *ui.OverlayRegistry) {
	rl.ClearBackground(background)

	if overlays.IsEnabled(ui.OverlayGrid) {
		drawGrid(f, cam)
	}
	for _, w := range f.Walls {
		fillBox(cam, w, wallColor)
		outlineBox(cam, w, wallEdge)
	}

	for _, t := range f.Tanks {
		if overlays.IsEnabled(ui.OverlayHullRays) {
			drawRays(cam, t.HullRays)
		}
		if overlays.IsEnabled(ui.OverlayTurretRays) {
			drawRays(cam, t.TurretRays)
		}
	}
	for _, t := range f.Tanks {
		drawTank(cam, t)
		if overlays.IsEnabled(ui.OverlayCollisionBoxes) {
			outlineBox(cam, t.Hull, rl.Green)
		}
	}

	for _, b := range f.Bullets {
		if !cam.IsVisible(float32(b.Pos.X), float32(b.Pos.Y), float32(b.Radius)) {
			continue
		}
		sx, sy := cam.WorldToScreen(float32(b.Pos.X), float32(b.Pos.Y))
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, float32(b.Radius)*cam.Zoom, bulletFill)
	}
}

func drawTank(cam *camera.Camera, t game.TankView) {
	color := ui.TeamColor(t.Team)
	fillBox(cam, t.Hull, color)
	outlineBox(cam, t.Hull, rl.Black)

	// Hull front marker
	nose := r2.Add(t.Hull.Center, r2.Scale(t.Hull.Half.Y*0.8, geom.Forward(t.Hull.Angle)))
	nx, ny := cam.WorldToScreen(float32(nose.X), float32(nose.Y))
	rl.DrawCircleV(rl.Vector2{X: nx, Y: ny}, 2*cam.Zoom, rl.White)

	// Turret and barrel
	cx, cy := cam.WorldToScreen(float32(t.Hull.Center.X), float32(t.Hull.Center.Y))
	muzzle := r2.Add(t.Hull.Center, r2.Scale(t.Hull.Half.Y*1.3, geom.Forward(t.TurretAngle)))
	mx, my := cam.WorldToScreen(float32(muzzle.X), float32(muzzle.Y))

	turretColor := rl.ColorBrightness(color, -0.3)
	rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, rl.Vector2{X: mx, Y: my}, 4*cam.Zoom, turretColor)
	rl.DrawCircleV(rl.Vector2{X: cx, Y: cy}, float32(t.Hull.Half.X)*0.55*cam.Zoom, turretColor)
	if t.Gun.Ready() {
		rl.DrawCircleV(rl.Vector2{X: mx, Y: my}, 2*cam.Zoom, bulletFill)
	}
}

func drawRays(cam *camera.Camera, rays []game.RayView) {
	for _, r := range rays {
		color := rayNone
		switch r.Kind {
		case components.HitWall:
			color = rayWall
		case components.HitEnemy:
			color = rayEnemy
		}
		fx, fy := cam.WorldToScreen(float32(r.From.X), float32(r.From.Y))
		tx, ty := cam.WorldToScreen(float32(r.To.X), float32(r.To.Y))
		rl.DrawLineV(rl.Vector2{X: fx, Y: fy}, rl.Vector2{X: tx, Y: ty}, color)
		if r.Kind != components.HitNone {
			rl.DrawCircleV(rl.Vector2{X: tx, Y: ty}, 2, color)
		}
	}
}

func drawGrid(f game.Frame, cam *camera.Camera) {
	b := f.Bounds
	for x := b.Min.X; x <= b.Max.X; x += f.CellSize {
		x0, y0 := cam.WorldToScreen(float32(x), float32(b.Min.Y))
		x1, y1 := cam.WorldToScreen(float32(x), float32(b.Max.Y))
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, gridColor)
	}
	for y := b.Min.Y; y <= b.Max.Y; y += f.CellSize {
		x0, y0 := cam.WorldToScreen(float32(b.Min.X), float32(y))
		x1, y1 := cam.WorldToScreen(float32(b.Max.X), float32(y))
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, gridColor)
	}
}

// fillBox draws an oriented box rotated about its center.
func fillBox(cam *camera.Camera, box geom.OBB, color rl.Color) {
	sx, sy := cam.WorldToScreen(float32(box.Center.X), float32(box.Center.Y))
	w := float32(box.Half.X*2) * cam.Zoom
	h := float32(box.Half.Y*2) * cam.Zoom
	rl.DrawRectanglePro(
		rl.Rectangle{X: sx, Y: sy, Width: w, Height: h},
		rl.Vector2{X: w / 2, Y: h / 2},
		camera.ScreenRotation(box.Angle),
		color,
	)
}

func outlineBox(cam *camera.Camera, box geom.OBB, color rl.Color) {
	corners := box.Corners()
	var pts [4]rl.Vector2
	for i, c := range corners {
		x, y := cam.WorldToScreen(float32(c.X), float32(c.Y))
		pts[i] = rl.Vector2{X: x, Y: y}
	}
	for i := range pts {
		rl.DrawLineV(pts[i], pts[(i+1)%len(pts)], color)
	}
}
