package progression

import (
	"context"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/gamedata"
)

// ScaleEnemy returns def's stats for a life spawned while the hero is at
// playerLevel and the slot has respawned generation times. Both factors
// compound multiplicatively. Speed is not scaled.
func (t *Tracker) ScaleEnemy(def *gamedata.EnemyDef, playerLevel, generation int) entity.Stats {
	if playerLevel < 1 {
		playerLevel = 1
	}
	if generation < 0 {
		generation = 0
	}
	factor := math.Pow(1+t.def.EnemyLevelRate, float64(playerLevel-1)) *
		math.Pow(1+t.def.EnemyGenerationRate, float64(generation))

	return entity.Stats{
		MaxHP:    def.HP * factor,
		Damage:   def.Damage * factor,
		XPReward: math.Round(def.XP * factor),
		Speed:    def.Speed,
	}
}

// SpawnEnemy gives e a fresh life at its spawn origin without advancing its
// generation. Used when the field is first populated.
func (t *Tracker) SpawnEnemy(e *entity.Enemy, playerLevel int) {
	e.Reset(t.ScaleEnemy(e.Def, playerLevel, e.Generation))
}

// RespawnEnemy advances e's generation and revives it with rescaled stats.
func (t *Tracker) RespawnEnemy(ctx context.Context, now float64, e *entity.Enemy, playerLevel int) {
	_, span := t.tracer.Start(ctx, "enemy.respawn")
	defer span.End()

	e.Generation++
	t.SpawnEnemy(e, playerLevel)

	span.SetAttributes(
		attribute.String("enemy.id", e.ID()),
		attribute.String("enemy.type", e.Def.ID),
		attribute.Int("enemy.generation", e.Generation),
		attribute.Int("hero.level", playerLevel),
	)
	t.log.Debug("enemy respawned",
		zap.String("enemy", e.ID()),
		zap.Int("generation", e.Generation),
		zap.Float64("max_hp", e.MaxHP),
	)
	t.events.Push(event.Event{
		Type: event.EnemyRespawned, At: now, SourceID: e.ID(), Pos: e.Pos,
		Amount: float64(e.Generation),
	})
}

// UpdateRespawns schedules dead enemies for respawn after delay and revives
// those whose time has come.
func (t *Tracker) UpdateRespawns(ctx context.Context, now float64, enemies []*entity.Enemy, playerLevel int, delay float64) {
	for _, e := range enemies {
		if e == nil || e.Alive {
			continue
		}
		if e.RespawnAt == 0 {
			e.RespawnAt = now + delay
			e.ClearOrders()
			continue
		}
		if now >= e.RespawnAt {
			t.RespawnEnemy(ctx, now, e, playerLevel)
		}
	}
}
