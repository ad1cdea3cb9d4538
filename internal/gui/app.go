package gui

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/pulse/internal/clock"
	"github.com/san-kum/pulse/internal/multiplier"
	"github.com/san-kum/pulse/internal/raster"
)

var (
	ColBg       = rl.NewColor(15, 23, 42, 255)    // slate-900
	ColHeadline = rl.NewColor(226, 232, 240, 255) // slate-200
	ColAttrib   = rl.NewColor(148, 163, 184, 255) // slate-400
	ColHint     = rl.NewColor(34, 211, 238, 255)  // cyan-400
	ColTextDim  = rl.NewColor(71, 85, 105, 255)   // slate-600
)

type Options struct {
	Effect multiplier.Config
	Width  int
	Height int
	FPS    int
	Seed   int64
	Logger *zap.Logger
}

type App struct {
	effect  *multiplier.Effect
	surface *textureSurface
	timers  *clock.Timers
	font    rl.Font
	log     *zap.Logger
	quit    bool
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), "pulse")
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
}

// Run opens a window hosting the effect and blocks until it is closed.
func Run(opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = opts.Effect.FallbackWidth*2, opts.Effect.FallbackHeight*2
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	initWindow(opts)
	defer rl.CloseWindow()

	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()
	app.RunLoop()
	return nil
}

// NewApp needs an open window.
func NewApp(opts Options) (*App, error) {
	a := &App{
		timers: clock.NewTimers(clock.Real{}),
		font:   rl.GetFontDefault(),
		log:    opts.Logger,
	}

	w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	var surface multiplier.Surface
	if ts := newTextureSurface(w, h, raster.Background); ts.Valid() {
		a.surface = ts
		surface = ts
	} else {
		a.log.Warn("render texture unavailable")
	}

	effectOpts := []multiplier.Option{multiplier.WithLogger(a.log.Named("effect"))}
	if opts.Seed != 0 {
		effectOpts = append(effectOpts, multiplier.WithRand(rand.New(rand.NewSource(opts.Seed))))
	}
	effect, err := multiplier.New(surface, a.timers, opts.Effect, effectOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.effect = effect

	if err := effect.Mount(w, h); err != nil {
		a.log.Warn("window host degraded", zap.Error(err))
	}
	return a, nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		a.effect.Resize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
	}
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) || rl.IsKeyPressed(rl.KeySpace) {
		a.effect.Interact()
	}
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
	}
	a.timers.Poll()
}

func (a *App) Draw() {
	alive := false
	if a.surface != nil {
		rl.BeginTextureMode(a.surface.target)
		alive = a.effect.Tick()
		rl.EndTextureMode()
	}

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	if alive {
		a.surface.Present()
	} else {
		a.drawCentered("rendering unavailable", float32(rl.GetScreenHeight())/2, 20, ColTextDim)
	}
	a.drawCaption()
	rl.EndDrawing()
}

func (a *App) drawCaption() {
	c := a.effect.Caption()
	h := float32(rl.GetScreenHeight())

	a.drawCentered(c.Headline, h*0.12, 28, ColHeadline)
	if c.Attribution != "" {
		a.drawCentered(c.Attribution, h*0.12+40, 18, ColAttrib)
	}
	if c.Hint != "" {
		a.drawCentered(c.Hint, h-48, 16, ColHint)
	}
}

func (a *App) drawCentered(text string, y, size float32, col rl.Color) {
	m := rl.MeasureTextEx(a.font, text, size, 2)
	x := (float32(rl.GetScreenWidth()) - m.X) / 2
	rl.DrawTextEx(a.font, text, rl.NewVector2(x, y), size, 2, col)
}

// Close cancels the phase timer and frees the render texture.
func (a *App) Close() {
	if a.effect != nil {
		a.effect.Close()
	}
	if a.surface != nil {
		a.surface.Unload()
	}
}
