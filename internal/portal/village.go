package portal

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/telemetry"
	"github.com/samdwyer/hollowgate/internal/world"
)

// RespawnMessage is shown while the hero waits to respawn.
const RespawnMessage = "You have fallen. Respawning in the village..."

// Village provides rest regeneration and the death/respawn cycle.
type Village struct {
	Rest    world.Ring
	Message string

	multiplier float64
	respawn    gamedata.RespawnBalance
	recall     *Recall
	respawning bool

	events *event.Queue
	log    *zap.Logger
	tracer trace.Tracer
}

// NewVillage creates the village services. recall is cancelled on respawn.
func NewVillage(cfg gamedata.VillageBalance, respawn gamedata.RespawnBalance, recall *Recall, events *event.Queue, log *zap.Logger) *Village {
	if log == nil {
		log = zap.NewNop()
	}
	return &Village{
		Rest:       world.Ring{Center: cfg.Center, Radius: cfg.RestRadius},
		multiplier: cfg.RestMultiplier,
		respawn:    respawn,
		recall:     recall,
		events:     events,
		log:        log.Named("village"),
		tracer:     telemetry.Tracer("village"),
	}
}

// RegenMultiplier returns the regen multiplier at the hero's position.
func (v *Village) RegenMultiplier(p *entity.Player) float64 {
	if v.Rest.Contains(p.Pos) {
		return v.multiplier
	}
	return 1
}

// Regen restores HP and MP for dt seconds.
func (v *Village) Regen(dt float64, p *entity.Player) {
	p.Regenerate(dt, v.RegenMultiplier(p))
}

// UpdateLife handles death and respawn. On the first tick after death the
// hero's orders are dropped and the respawn timer starts; once it elapses the
// hero returns to the village at full health and mana, briefly invulnerable.
func (v *Village) UpdateLife(ctx context.Context, now float64, p *entity.Player) {
	if p.SettleDeath() {
		v.events.Push(event.Event{
			Type: event.PlayerDied, At: now, TargetID: p.ID(), Pos: p.Pos,
		})
	}
	if p.Alive {
		return
	}
	if !v.respawning {
		v.respawning = true
		p.RespawnAt = now + v.respawn.PlayerDelay
		p.ClearOrders()
		p.MoveDir = world.Vec2{}
		v.Message = RespawnMessage
		v.log.Info("hero died",
			zap.String("hero", p.ID()),
			zap.Int("level", p.Level),
			zap.Float64("respawn_at", p.RespawnAt),
		)
		return
	}
	if now >= p.RespawnAt {
		v.revive(ctx, now, p)
	}
}

// Respawning reports whether the hero is dead and waiting to respawn.
func (v *Village) Respawning() bool { return v.respawning }

func (v *Village) revive(ctx context.Context, now float64, p *entity.Player) {
	_, span := v.tracer.Start(ctx, "player.respawn")
	defer span.End()

	p.Pos = v.Rest.Center
	p.Alive = true
	p.HP = p.MaxHP
	p.MP = p.MaxMP
	p.InvulnerableUntil = now + v.respawn.Invulnerability
	p.RespawnAt = 0
	p.ClearOrders()
	if v.recall != nil {
		v.recall.Cancel(p)
	}
	v.respawning = false
	v.Message = ""

	span.SetAttributes(
		attribute.Int("hero.level", p.Level),
		attribute.Float64("hero.invulnerable_until", p.InvulnerableUntil),
	)
	v.events.Push(event.Event{
		Type: event.PlayerRespawned, At: now, SourceID: p.ID(), Pos: p.Pos,
	})
}
