// Interactive viewer for the simulation: renders the grid and live
// particles, with a control panel for pause/step/randomize/clear.
//
// Usage: go run ./cmd/terraspielview [-config path.yaml]
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/terraspiel/terraspiel/components"
	"github.com/terraspiel/terraspiel/config"
	"github.com/terraspiel/terraspiel/engine"
	"github.com/terraspiel/terraspiel/world"
)

func main() {
	configPath := flag.String("config", "", "config YAML file (empty = embedded defaults)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg := config.Cfg()

	elementsData, err := os.ReadFile(cfg.Assets.ElementsPath)
	if err != nil {
		log.Fatalf("reading element registry: %v", err)
	}
	elements, err := world.LoadElementRegistry(elementsData)
	if err != nil {
		log.Fatalf("loading element registry: %v", err)
	}

	rulesData, err := os.ReadFile(cfg.Assets.RulesPath)
	if err != nil {
		log.Fatalf("reading rule registry: %v", err)
	}
	rules, err := world.LoadRuleRegistry(rulesData, elements)
	if err != nil {
		log.Fatalf("loading rule registry: %v", err)
	}

	state := world.NewWorld(cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.Seed)
	state.Elements = elements
	state.Rules = rules
	state.Palette = world.BuildPalette(elements, state.RNG)

	eng := engine.New(state)
	gen := world.NewDefaultTerrainGenerator()
	eng.Randomize(cfg.Grid.Seed, gen)

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Terraspiel")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	cellPx := int32(cfg.Screen.CellPixels)
	if cellPx < 1 {
		cellPx = 1
	}

	img := rl.GenImageColor(state.Front.W, state.Front.H, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	pixels := make([]byte, state.Front.W*state.Front.H*4)

	running := cfg.Sim.AutoRun
	placeElement := "SAND"
	elementChoices := []string{"SAND", "SOIL", "WATER", "STONE", "OIL", "SEED", "CLAY"}
	elementIdx := int32(0)

	for !rl.WindowShouldClose() {
		if running || rl.IsKeyPressed(rl.KeySpace) {
			eng.Tick()
		}
		if rl.IsKeyPressed(rl.KeyP) {
			running = !running
		}

		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			mx, my := rl.GetMouseX(), rl.GetMouseY()
			gx, gy := int(mx/cellPx), int(my/cellPx)
			if err := state.Place(gx, gy, placeElement); err != nil {
				slog.Warn("place failed", "error", err)
			}
		}

		fillPixels(pixels, state.Front)
		rl.UpdateTexture(texture, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(state.Front.W), Height: float32(state.Front.H)},
			rl.Rectangle{X: 0, Y: 0, Width: float32(state.Front.W) * float32(cellPx), Height: float32(state.Front.H) * float32(cellPx)},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)

		drawParticles(eng, cellPx)

		panelX := int32(state.Front.W)*cellPx + 10
		rl.DrawRectangle(panelX-5, 0, int32(cfg.Screen.Width)-panelX+5, int32(cfg.Screen.Height), rl.Color{R: 20, G: 20, B: 24, A: 255})

		rl.DrawText(fmt.Sprintf("frame %d", state.FrameCount), panelX, 10, 16, rl.RayWhite)
		stats := state.Stats()
		rl.DrawText(fmt.Sprintf("cells %d", sumCounts(stats.CellCounts)), panelX, 30, 14, rl.LightGray)
		rl.DrawText(fmt.Sprintf("particles %d", eng.ParticleCount()), panelX, 48, 14, rl.LightGray)

		if gui.Button(rl.Rectangle{X: float32(panelX), Y: 75, Width: 120, Height: 28}, toggleLabel(running)) {
			running = !running
		}
		if gui.Button(rl.Rectangle{X: float32(panelX), Y: 110, Width: 120, Height: 28}, "Randomize") {
			eng.Randomize(state.RNG.Int63(), gen)
		}
		if gui.Button(rl.Rectangle{X: float32(panelX), Y: 145, Width: 120, Height: 28}, "Clear") {
			eng.Clear()
		}

		rl.DrawText("Place element:", panelX, 190, 14, rl.LightGray)
		newIdx := gui.SliderBar(
			rl.Rectangle{X: float32(panelX), Y: 210, Width: 120, Height: 20},
			"", "", float32(elementIdx), 0, float32(len(elementChoices)-1),
		)
		elementIdx = int32(newIdx)
		placeElement = elementChoices[elementIdx]
		rl.DrawText(placeElement, panelX, 235, 16, rl.RayWhite)

		rl.EndDrawing()
	}
}

func toggleLabel(running bool) string {
	if running {
		return "Pause"
	}
	return "Run"
}

func sumCounts(counts map[world.ElementID]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// fillPixels rasterizes a grid's colour buffer into an RGBA8 byte slice
// for texture upload.
func fillPixels(pixels []byte, g *world.Grid) {
	for i, c := range g.Colors {
		pixels[i*4+0] = byte(c.R)
		pixels[i*4+1] = byte(c.G)
		pixels[i*4+2] = byte(c.B)
		pixels[i*4+3] = 255
	}
}

func drawParticles(eng *engine.Engine, cellPx int32) {
	eng.Particles(func(p components.Particle) {
		px := int32(p.X)*cellPx + cellPx/2
		py := int32(p.Y)*cellPx + cellPx/2
		rl.DrawCircle(px, py, float32(cellPx)/2, particleColor(p.Kind))
	})
}

func particleColor(kind world.ParticleKind) rl.Color {
	switch kind {
	case world.ParticleEther:
		return rl.Color{R: 120, G: 230, B: 255, A: 220}
	case world.ParticleThunder:
		return rl.Color{R: 255, G: 240, B: 120, A: 220}
	case world.ParticleFireEmber:
		return rl.Color{R: 255, G: 110, B: 40, A: 220}
	default:
		return rl.Color{R: 200, G: 200, B: 200, A: 220}
	}
}
