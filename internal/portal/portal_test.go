package portal

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/world"
)

var (
	testVillage = gamedata.VillageBalance{
		Center:          world.V(0, 0),
		RestRadius:      8,
		ExclusionRadius: 12,
		RestMultiplier:  6,
		PortalPosition:  world.V(0, -3),
		PortalRadius:    1.2,
		ClickTolerance:  0.5,
		SpinSpeed:       1.5,
	}
	testRespawn = gamedata.RespawnBalance{PlayerDelay: 5, Invulnerability: 3, EnemyDelay: 12}
)

func newHero(pos world.Vec2) *entity.Player {
	return entity.NewPlayer(gamedata.HeroDef{
		Name: "Tester", HP: 100, MP: 50, Damage: 10, HPRegen: 1, MPRegen: 2,
		Speed: 5, AttackRange: 2, AttackCooldown: 1, AcquireRadius: 10,
	}, pos)
}

func TestRecallFlow(t *testing.T) {
	ctx := context.Background()
	events := event.NewQueue()
	r := NewRecall(testVillage, events, nil)
	hero := newHero(world.V(30, 10))

	require.True(t, r.RecallToVillage(ctx, 1, hero))
	assert.True(t, hero.Frozen)
	assert.Equal(t, StateAwaitingTeleport, r.State())
	assert.Equal(t, RecallPrompt, r.Message)
	assert.Same(t, r.Village, r.Return.LinkedTo)
	assert.Equal(t, 1, events.Count(event.RecallPrompted))

	click := r.Return.Pos
	assert.True(t, r.HandleFrozenPortalClick(ctx, 2, click, hero))
	assert.False(t, hero.Frozen)
	assert.Equal(t, StateIdle, r.State())
	assert.Nil(t, r.Return)
	assert.Empty(t, r.Message)
	assert.Equal(t, testVillage.PortalPosition, hero.Pos)
	assert.Equal(t, 1, events.Count(event.TeleportSucceeded))

	assert.False(t, r.HandleFrozenPortalClick(ctx, 3, click, hero), "portal already consumed")
	assert.Equal(t, 1, events.Count(event.TeleportSucceeded))
}

func TestRecallIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewRecall(testVillage, event.NewQueue(), nil)
	hero := newHero(world.V(30, 10))

	require.True(t, r.RecallToVillage(ctx, 0, hero))
	first := r.Return

	hero.Pos = world.V(31, 10)
	require.True(t, r.RecallToVillage(ctx, 1, hero))
	assert.Same(t, first, r.Return)
	assert.Equal(t, world.V(31, 10), r.Return.Pos)
	assert.True(t, hero.Frozen)
}

func TestRecallClearsOrders(t *testing.T) {
	r := NewRecall(testVillage, event.NewQueue(), nil)
	hero := newHero(world.V(30, 10))
	dest := world.V(40, 10)
	hero.MoveTarget = &dest
	hero.AttackMove = true
	hero.MoveDir = world.V(1, 0)

	require.True(t, r.RecallToVillage(context.Background(), 0, hero))

	assert.Nil(t, hero.MoveTarget)
	assert.False(t, hero.AttackMove)
	assert.True(t, hero.MoveDir.IsZero())
	assert.False(t, hero.CanAct())
}

func TestRecallWhileDeadFails(t *testing.T) {
	r := NewRecall(testVillage, event.NewQueue(), nil)
	hero := newHero(world.V(30, 10))
	hero.Alive = false

	assert.False(t, r.RecallToVillage(context.Background(), 0, hero))
	assert.Nil(t, r.Return)
	assert.False(t, hero.Frozen)
}

func TestPortalClickTolerance(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		want   bool
	}{
		{"center", 0, true},
		{"inside radius", 1.0, true},
		{"within tolerance", 1.7, true},
		{"outside tolerance", 1.71, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			r := NewRecall(testVillage, event.NewQueue(), nil)
			hero := newHero(world.V(30, 0))
			require.True(t, r.RecallToVillage(ctx, 0, hero))

			got := r.HandleFrozenPortalClick(ctx, 1, world.V(30+tt.offset, 0), hero)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, !tt.want, hero.Frozen)
		})
	}
}

func TestClickWithoutRecallFails(t *testing.T) {
	r := NewRecall(testVillage, event.NewQueue(), nil)
	hero := newHero(world.V(0, -3))

	assert.False(t, r.HandleFrozenPortalClick(context.Background(), 0, world.V(0, -3), hero))
	assert.Equal(t, world.V(0, -3), hero.Pos)
}

func TestRepair(t *testing.T) {
	r := NewRecall(testVillage, event.NewQueue(), nil)
	hero := newHero(world.V(30, 0))

	hero.Frozen = true
	assert.True(t, r.Repair(hero))
	assert.False(t, hero.Frozen)

	assert.False(t, r.Repair(hero))
}

func TestPortalSpinWraps(t *testing.T) {
	p := NewPortal(world.V(0, 0), 1)

	p.Advance(10, 1)

	assert.InDelta(t, math.Mod(10, 2*math.Pi), p.Spin, 1e-9)
	assert.GreaterOrEqual(t, p.Spin, 0.0)
	assert.Less(t, p.Spin, 2*math.Pi)
}

func TestRegenMultiplier(t *testing.T) {
	v := NewVillage(testVillage, testRespawn, nil, event.NewQueue(), nil)

	tests := []struct {
		name string
		pos  world.Vec2
		want float64
	}{
		{"center", world.V(0, 0), 6},
		{"on rest boundary", world.V(8, 0), 6},
		{"outside", world.V(8.01, 0), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.RegenMultiplier(newHero(tt.pos)))
		})
	}
}

func TestRegenClampsToMax(t *testing.T) {
	v := NewVillage(testVillage, testRespawn, nil, event.NewQueue(), nil)
	hero := newHero(world.V(0, 0))
	hero.HP = 90
	hero.MP = 10

	v.Regen(1, hero)
	assert.Equal(t, 96.0, hero.HP)
	assert.Equal(t, 22.0, hero.MP)

	v.Regen(100, hero)
	assert.Equal(t, 100.0, hero.HP)
	assert.Equal(t, 50.0, hero.MP)

	hero.Pos = world.V(30, 0)
	hero.HP = 50
	v.Regen(1, hero)
	assert.Equal(t, 51.0, hero.HP)
}

func TestDeathAndRespawn(t *testing.T) {
	ctx := context.Background()
	events := event.NewQueue()
	recall := NewRecall(testVillage, events, nil)
	v := NewVillage(testVillage, testRespawn, recall, events, nil)
	hero := newHero(world.V(30, 0))
	hero.Level = 4
	hero.XP = 17
	dest := world.V(40, 0)
	hero.MoveTarget = &dest

	hero.TakeDamage(hero.MaxHP)
	hero.MP = 3
	v.UpdateLife(ctx, 10, hero)

	assert.False(t, hero.CanAct())
	assert.Nil(t, hero.MoveTarget)
	assert.Equal(t, RespawnMessage, v.Message)
	assert.Equal(t, 15.0, hero.RespawnAt)
	assert.True(t, v.Respawning())

	v.UpdateLife(ctx, 14.9, hero)
	assert.False(t, hero.Alive)

	v.UpdateLife(ctx, 15, hero)
	assert.True(t, hero.Alive)
	assert.Equal(t, hero.MaxHP, hero.HP)
	assert.Equal(t, hero.MaxMP, hero.MP)
	assert.Equal(t, testVillage.Center, hero.Pos)
	assert.Greater(t, hero.InvulnerableUntil, 15.0)
	assert.True(t, hero.Invulnerable(15))
	assert.Empty(t, v.Message)
	assert.False(t, v.Respawning())
	assert.Equal(t, 4, hero.Level, "death keeps progression")
	assert.Equal(t, 17.0, hero.XP)
	assert.Equal(t, 1, events.Count(event.PlayerRespawned))
}

func TestZeroHealthStartsRespawn(t *testing.T) {
	ctx := context.Background()
	events := event.NewQueue()
	v := NewVillage(testVillage, testRespawn, NewRecall(testVillage, events, nil), events, nil)
	hero := newHero(world.V(30, 0))
	hero.HP = 0

	v.UpdateLife(ctx, 10, hero)

	assert.False(t, hero.Alive)
	assert.False(t, hero.CanAct())
	assert.Equal(t, 15.0, hero.RespawnAt)
	assert.True(t, v.Respawning())
	assert.Equal(t, 1, events.Count(event.PlayerDied))
}

func TestRespawnCancelsPendingRecall(t *testing.T) {
	ctx := context.Background()
	events := event.NewQueue()
	recall := NewRecall(testVillage, events, nil)
	v := NewVillage(testVillage, testRespawn, recall, events, nil)
	hero := newHero(world.V(30, 0))

	require.True(t, recall.RecallToVillage(ctx, 0, hero))
	hero.TakeDamage(hero.MaxHP)
	v.UpdateLife(ctx, 1, hero)
	v.UpdateLife(ctx, 6, hero)

	assert.True(t, hero.Alive)
	assert.False(t, hero.Frozen)
	assert.Nil(t, recall.Return)
}

func TestCancelThenRecallAgain(t *testing.T) {
	ctx := context.Background()
	r := NewRecall(testVillage, event.NewQueue(), nil)
	hero := newHero(world.V(30, 10))

	r.Cancel(hero)
	assert.Equal(t, StateIdle, r.State(), "cancel while idle is a no-op")
	assert.False(t, hero.Frozen)

	require.True(t, r.RecallToVillage(ctx, 1, hero))
	r.Cancel(hero)
	assert.Equal(t, StateIdle, r.State())
	assert.False(t, hero.Frozen)
	assert.Nil(t, r.Return)
	assert.Nil(t, r.Village.LinkedTo)

	hero.Pos = world.V(20, 20)
	require.True(t, r.RecallToVillage(ctx, 2, hero))
	assert.Equal(t, StateAwaitingTeleport, r.State())
	assert.Equal(t, world.V(20, 20), r.Return.Pos)
	assert.True(t, hero.Frozen)
}

func TestMissedClickKeepsWaiting(t *testing.T) {
	ctx := context.Background()
	r := NewRecall(testVillage, event.NewQueue(), nil)
	hero := newHero(world.V(30, 10))
	require.True(t, r.RecallToVillage(ctx, 1, hero))

	assert.False(t, r.HandleFrozenPortalClick(ctx, 2, world.V(0, 0), hero))
	assert.Equal(t, StateAwaitingTeleport, r.State())
	assert.True(t, hero.Frozen)
	assert.Equal(t, world.V(30, 10), hero.Pos)
}
