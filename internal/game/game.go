package game

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/hollowgate/internal/clock"
	"github.com/samdwyer/hollowgate/internal/config"
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/sim"
	"github.com/samdwyer/hollowgate/internal/telemetry"
	"github.com/samdwyer/hollowgate/internal/ui"
	"github.com/samdwyer/hollowgate/internal/world"
)

// holdWindow is how long one arrow key press keeps the hero moving.
// Terminals repeat key events while a key is held.
const holdWindow = 0.2

var errQuit = errors.New("quit requested")

// Game holds the terminal session around one simulation.
type Game struct {
	cfg      config.Config
	sim      *sim.Sim
	screen   *ui.Screen
	renderer *ui.Renderer
	clock    clock.Clock
	log      *zap.Logger
	tracer   trace.Tracer

	state     State
	simNow    float64
	holding   bool
	holdUntil float64
	focus     world.Vec2
	buttons   tcell.ButtonMask
	snap      sim.Snapshot
	feed      []string
}

// New creates a new game instance bound to s on the terminal.
func New(cfg config.Config, s *sim.Sim, log *zap.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return newGame(cfg, s, screen, clock.NewLoop(cfg.MaxFrameDelta), log), nil
}

func newGame(cfg config.Config, s *sim.Sim, screen *ui.Screen, clk clock.Clock, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}

	g := &Game{
		cfg:      cfg,
		sim:      s,
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		clock:    clk,
		log:      log.Named("game"),
		tracer:   telemetry.Tracer("game"),
		state:    StatePlaying,
		simNow:   s.Now(),
	}
	g.snap = s.Snapshot()
	g.focus = g.snap.Player.Pos
	return g
}

// Run executes the main game loop until the player quits or ctx is done.
// Input is polled on its own goroutine; the simulation is only touched from
// the tick loop.
func (g *Game) Run(ctx context.Context) error {
	ctx, span := g.tracer.Start(ctx, "game.run")
	span.SetAttributes(
		attribute.Int64("sim.seed", g.sim.Seed()),
		attribute.Int("game.tick_rate", g.cfg.TickRate),
	)
	defer span.End()
	defer g.screen.Close()

	grp, ctx := errgroup.WithContext(ctx)
	inputs := make(chan tcell.Event, 64)

	grp.Go(func() error {
		g.pollInput(ctx, inputs)
		return nil
	})
	grp.Go(func() error {
		// Closing the screen unblocks PollEvent.
		defer g.screen.Close()
		return g.loop(ctx, inputs)
	})

	err := grp.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		span.RecordError(err)
	}
	g.log.Info("session ended",
		zap.Float64("sim_time", g.simNow),
		zap.Int("level", g.snap.Player.Level),
	)
	return err
}

func (g *Game) pollInput(ctx context.Context, out chan<- tcell.Event) {
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (g *Game) loop(ctx context.Context, inputs <-chan tcell.Event) error {
	period := time.Second / time.Duration(max(g.cfg.TickRate, 1))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	g.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-inputs:
			if err := g.handleEvent(ev); err != nil {
				return err
			}
		case <-ticker.C:
			g.tick(ctx)
		}
	}
}

// tick advances wall time, steps the simulation unless paused and redraws.
func (g *Game) tick(ctx context.Context) {
	wall, dt := g.clock.Tick()
	if g.holding && wall >= g.holdUntil {
		g.sim.SetMoveDir(world.Vec2{})
		g.holding = false
	}

	if g.state == StatePlaying {
		g.simNow += dt
		for _, e := range g.sim.Step(ctx, g.simNow, dt) {
			g.notify(e)
		}
	}
	g.draw()
}

func (g *Game) draw() {
	g.snap = g.sim.Snapshot()
	g.focus = g.snap.Player.Pos
	g.renderer.Render(g.snap, g.feed, g.state == StatePaused)
}

func (g *Game) notify(e event.Event) {
	switch e.Type {
	case event.LevelUp, event.PlayerDied, event.PlayerRespawned:
		g.log.Info("session event",
			zap.Stringer("type", e.Type),
			zap.Float64("at", e.At),
			zap.Float64("amount", e.Amount),
		)
	}
	g.feed = pushFeed(g.feed, describe(e))
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return g.handleKeyEvent(ev)
	case *tcell.EventMouse:
		g.handleMouseEvent(ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return nil
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ev *tcell.EventKey) error {
	a := translateKey(ev.Key(), ev.Rune())
	var err error
	switch a.cmd {
	case cmdQuit:
		return errQuit
	case cmdPause:
		g.state = g.state.Toggle()
	case cmdMove:
		g.sim.SetMoveDir(a.dir)
		g.holding = true
		g.holdUntil = g.clock.Now() + holdWindow
	case cmdAttack:
		err = g.sim.Submit(sim.BasicAttack())
	case cmdStop:
		g.sim.SetMoveDir(world.Vec2{})
		g.holding = false
		err = g.sim.Submit(sim.Stop())
	case cmdRecall:
		err = g.sim.Submit(sim.Recall())
	case cmdSkill:
		err = g.sim.Submit(sim.CastSkill(a.skill, nil))
	}
	if err != nil {
		g.log.Warn("intent rejected", zap.Error(err))
	}
	return nil
}

// handleMouseEvent aims with pointer motion and acts on left-button presses.
func (g *Game) handleMouseEvent(ev *tcell.EventMouse) {
	x, y := ev.Position()
	vp := g.renderer.Viewport(g.focus)
	if y >= vp.Rows {
		g.sim.SetCursor(nil)
		g.buttons = ev.Buttons()
		return
	}
	point := vp.ToWorld(x, y)
	g.sim.SetCursor(&point)

	pressed := ev.Buttons()&tcell.Button1 != 0 && g.buttons&tcell.Button1 == 0
	g.buttons = ev.Buttons()
	if !pressed {
		return
	}

	in := sim.MoveTo(point)
	if g.snap.Phase == sim.PhaseAwaitingTeleport {
		in = sim.PortalInteraction(point)
	}
	if err := g.sim.Submit(in); err != nil {
		g.log.Warn("intent rejected", zap.Stringer("intent", in.Kind), zap.Error(err))
	}
}
