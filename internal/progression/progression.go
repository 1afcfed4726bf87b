// Package progression turns kills into experience and levels, grows the
// hero's stats, scales respawning enemies and persists progress.
package progression

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/store"
	"github.com/samdwyer/hollowgate/internal/telemetry"
)

// Persisted keys.
const (
	KeyLevel     = "player.level"
	KeyXP        = "player.xp"
	unlockPrefix = "unlock."
)

// Tracker applies the progression curve to one hero.
type Tracker struct {
	def      gamedata.ProgressionDef
	store    store.Store
	unlocked []string
	seen     map[string]bool

	events *event.Queue
	log    *zap.Logger
	tracer trace.Tracer
}

// New creates a tracker. st may be nil, in which case nothing is persisted.
func New(def gamedata.ProgressionDef, st store.Store, events *event.Queue, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		def:    def,
		store:  st,
		seen:   make(map[string]bool),
		events: events,
		log:    log.Named("progression"),
		tracer: telemetry.Tracer("progression"),
	}
}

// Init sets the XP requirement for the hero's current level.
func (t *Tracker) Init(p *entity.Player) {
	if p.Level < 1 {
		p.Level = 1
	}
	p.XPToNext = t.def.RequiredXP(p.Level)
}

// Unlocked returns the content markers earned so far, in unlock order.
func (t *Tracker) Unlocked() []string {
	return append([]string(nil), t.unlocked...)
}

// GrantXP adds amount to the hero's XP and applies every level-up it pays
// for. The remainder carries over. Returns the number of levels gained.
func (t *Tracker) GrantXP(ctx context.Context, now float64, p *entity.Player, amount float64) int {
	if !(amount > 0) || math.IsInf(amount, 1) {
		return 0
	}
	if p.XPToNext <= 0 {
		t.Init(p)
	}

	p.XP += amount
	gained := 0
	for p.XP >= p.XPToNext {
		p.XP -= p.XPToNext
		t.levelUp(ctx, now, p)
		gained++
	}
	if p.XP < 0 {
		p.XP = 0
	}

	if gained > 0 {
		if err := t.Save(ctx, p); err != nil {
			t.log.Error("save progress failed", zap.Error(err), zap.Int("level", p.Level))
		}
	}
	return gained
}

func (t *Tracker) levelUp(ctx context.Context, now float64, p *entity.Player) {
	_, span := t.tracer.Start(ctx, "player.level_up")
	defer span.End()

	p.Level++
	t.grow(p)
	p.XPToNext = t.def.RequiredXP(p.Level)
	markers := t.unlockThrough(p.Level)

	span.SetAttributes(
		attribute.Int("hero.level", p.Level),
		attribute.Float64("hero.xp_to_next", p.XPToNext),
		attribute.StringSlice("hero.unlocks", markers),
	)
	t.log.Info("level up",
		zap.Int("level", p.Level),
		zap.Float64("max_hp", p.MaxHP),
		zap.Float64("damage", p.BaseDamage),
		zap.Strings("unlocks", markers),
	)
	t.events.Push(event.Event{
		Type: event.LevelUp, At: now, SourceID: p.ID(), Pos: p.Pos,
		Amount: float64(p.Level),
	})
}

// grow applies one level of stat growth. Current HP and MP rise by the same
// amount as their maximums.
func (t *Tracker) grow(p *entity.Player) {
	g := t.def.Growth

	oldHP, oldMP := p.MaxHP, p.MaxMP
	p.MaxHP *= g.HP
	p.MaxMP *= g.MP
	p.HPRegen *= g.HPRegen
	p.MPRegen *= g.MPRegen
	p.BaseDamage *= g.Damage

	if p.Alive {
		p.HP += p.MaxHP - oldHP
		p.MP += p.MaxMP - oldMP
	}
	p.ClampVitals()
}

// unlockThrough records every marker whose level is at most level and
// returns the ones that are new.
func (t *Tracker) unlockThrough(level int) []string {
	var fresh []string
	for _, u := range t.def.Unlocks {
		if u.Level <= level && !t.seen[u.Marker] {
			t.seen[u.Marker] = true
			t.unlocked = append(t.unlocked, u.Marker)
			fresh = append(fresh, u.Marker)
		}
	}
	return fresh
}

// Save writes level, XP and unlock markers.
func (t *Tracker) Save(ctx context.Context, p *entity.Player) error {
	if t.store == nil {
		return nil
	}
	if err := t.store.Set(ctx, KeyLevel, strconv.Itoa(p.Level)); err != nil {
		return err
	}
	if err := t.store.Set(ctx, KeyXP, strconv.FormatFloat(p.XP, 'f', -1, 64)); err != nil {
		return err
	}
	for _, m := range t.unlocked {
		if err := t.store.Set(ctx, unlockPrefix+m, "1"); err != nil {
			return err
		}
	}
	return nil
}

// Load restores saved progress onto a fresh level-one hero, re-applying stat
// growth for every saved level. Missing keys leave the hero untouched.
func (t *Tracker) Load(ctx context.Context, p *entity.Player) error {
	if t.store == nil {
		t.Init(p)
		return nil
	}

	level, err := t.loadInt(ctx, KeyLevel)
	if err != nil {
		return err
	}
	xp, err := t.loadFloat(ctx, KeyXP)
	if err != nil {
		return err
	}

	for p.Level < level {
		p.Level++
		t.grow(p)
	}
	t.Init(p)
	p.XP = math.Max(0, math.Min(xp, p.XPToNext-1))

	for _, u := range t.def.Unlocks {
		v, err := t.store.Get(ctx, unlockPrefix+u.Marker)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if v != "" && !t.seen[u.Marker] {
			t.seen[u.Marker] = true
			t.unlocked = append(t.unlocked, u.Marker)
		}
	}
	t.unlockThrough(p.Level)

	t.log.Info("progress loaded",
		zap.Int("level", p.Level),
		zap.Float64("xp", p.XP),
		zap.Strings("unlocks", t.unlocked),
	)
	return nil
}

func (t *Tracker) loadInt(ctx context.Context, key string) (int, error) {
	v, err := t.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("progression: bad %s %q", key, v)
	}
	return n, nil
}

func (t *Tracker) loadFloat(ctx context.Context, key string) (float64, error) {
	v, err := t.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return 0, fmt.Errorf("progression: bad %s %q", key, v)
	}
	return f, nil
}
