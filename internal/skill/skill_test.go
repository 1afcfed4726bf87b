package skill

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/hollowgate/internal/combat"
	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/event"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/world"
)

type foes []*entity.Enemy

func (f foes) Targets() []combat.Target {
	out := make([]combat.Target, len(f))
	for i, e := range f {
		out[i] = e
	}
	return out
}

var testSkills = []gamedata.SkillDef{
	{Key: gamedata.KeyQ, Name: "Chain", Archetype: gamedata.ArchetypeChain, Cooldown: 4, ManaCost: 20, Damage: 30, Range: 10, Jumps: 2, JumpRange: 6},
	{Key: gamedata.KeyW, Name: "Rift", Archetype: gamedata.ArchetypeArea, Cooldown: 6, ManaCost: 30, Damage: 25, Radius: 3.5, SlowFactor: 0.5, SlowDuration: 2.5},
	{Key: gamedata.KeyE, Name: "Aura", Archetype: gamedata.ArchetypeAura, Damage: 12, Radius: 4, Tick: 2, TickManaCost: 5, Duration: 10, ToggleLockout: 0.5},
	{Key: gamedata.KeyR, Name: "Storm", Archetype: gamedata.ArchetypeStorm, Cooldown: 20, ManaCost: 60, Damage: 40, Radius: 7, Count: 8, Duration: 6, StrikeRadius: 1.8},
}

type fixture struct {
	sys    *System
	hero   *entity.Player
	foes   foes
	events *event.Queue
}

func newFixture(t *testing.T, defs []gamedata.SkillDef, enemyPos ...world.Vec2) *fixture {
	t.Helper()
	reg, err := gamedata.NewSkillRegistry(defs)
	require.NoError(t, err)

	hero := entity.NewPlayer(gamedata.HeroDef{
		Name: "Tester", HP: 200, MP: 120, Damage: 10, Speed: 5,
		AttackRange: 2, AttackCooldown: 1, AcquireRadius: 10,
	}, world.V(0, 0))

	def := &gamedata.EnemyDef{ID: "dummy", Name: "Dummy", Glyph: "d", HP: 1000, Damage: 1, Speed: 1, XP: 1, AggroRadius: 1, AttackRadius: 1, AttackCooldown: 1}
	var roster foes
	for _, p := range enemyPos {
		roster = append(roster, entity.NewEnemy(def, p))
	}

	events := event.NewQueue()
	sys := New(reg, hero, roster, rand.New(rand.NewSource(7)), events, nil)
	return &fixture{sys: sys, hero: hero, foes: roster, events: events}
}

func (f *fixture) cast(t *testing.T, now float64, key gamedata.Key, point *world.Vec2) bool {
	t.Helper()
	ok, err := f.sys.Cast(context.Background(), now, key, point)
	require.NoError(t, err)
	return ok
}

func TestCastManaExactlyEqualToCost(t *testing.T) {
	f := newFixture(t, testSkills, world.V(3, 0))
	f.hero.MP = 20

	assert.True(t, f.cast(t, 0, gamedata.KeyQ, nil))
	assert.Equal(t, 0.0, f.hero.MP)
	assert.Equal(t, 4.0, f.hero.Cooldowns[gamedata.KeyQ])
}

func TestCastInsufficientManaChangesNothing(t *testing.T) {
	f := newFixture(t, testSkills, world.V(3, 0))
	f.hero.MP = 19

	assert.False(t, f.cast(t, 0, gamedata.KeyQ, nil))
	assert.Equal(t, 19.0, f.hero.MP)
	assert.True(t, f.hero.CooldownReady(gamedata.KeyQ, 0))
	assert.Equal(t, 1000.0, f.foes[0].HP)
	assert.Zero(t, f.events.Len())
}

func TestCastRespectsCooldown(t *testing.T) {
	f := newFixture(t, testSkills, world.V(2, 0))
	p := world.V(2, 0)

	require.True(t, f.cast(t, 0, gamedata.KeyW, &p))
	mp := f.hero.MP
	assert.False(t, f.cast(t, 5.99, gamedata.KeyW, &p))
	assert.Equal(t, mp, f.hero.MP)
	assert.True(t, f.cast(t, 6, gamedata.KeyW, &p))
}

func TestCastBlockedWhileFrozenOrDead(t *testing.T) {
	f := newFixture(t, testSkills, world.V(3, 0))

	f.hero.Frozen = true
	assert.False(t, f.cast(t, 0, gamedata.KeyQ, nil))

	f.hero.Frozen = false
	f.hero.Alive = false
	assert.False(t, f.cast(t, 0, gamedata.KeyQ, nil))
	assert.Equal(t, 120.0, f.hero.MP)
}

func TestCastInputErrors(t *testing.T) {
	f := newFixture(t, testSkills)
	bad := world.V(math.NaN(), 0)

	_, err := f.sys.Cast(context.Background(), 0, gamedata.Key("X"), nil)
	assert.ErrorIs(t, err, ErrUnknownSkill)

	_, err = f.sys.Cast(context.Background(), 0, gamedata.KeyW, nil)
	assert.ErrorIs(t, err, ErrNoPoint)

	_, err = f.sys.Cast(context.Background(), 0, gamedata.KeyW, &bad)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	assert.Equal(t, 120.0, f.hero.MP)
}

func TestChainHitsEachEnemyOnce(t *testing.T) {
	f := newFixture(t, testSkills, world.V(3, 0), world.V(6, 0), world.V(9, 0))

	require.True(t, f.cast(t, 0, gamedata.KeyQ, nil))

	for i, e := range f.foes {
		assert.Equal(t, 970.0, e.HP, "enemy %d", i)
	}
	assert.Equal(t, 3, f.events.Count(event.ChainHit))
}

func TestChainStopsAfterJumps(t *testing.T) {
	f := newFixture(t, testSkills, world.V(3, 0), world.V(6, 0), world.V(9, 0), world.V(12, 0))

	require.True(t, f.cast(t, 0, gamedata.KeyQ, nil))

	assert.Equal(t, 970.0, f.foes[2].HP)
	assert.Equal(t, 1000.0, f.foes[3].HP)
	assert.Equal(t, 3, f.events.Count(event.ChainHit))
}

func TestChainStopsWhenNoTargetInJumpRange(t *testing.T) {
	f := newFixture(t, testSkills, world.V(3, 0), world.V(20, 0))

	require.True(t, f.cast(t, 0, gamedata.KeyQ, nil))

	assert.Equal(t, 970.0, f.foes[0].HP)
	assert.Equal(t, 1000.0, f.foes[1].HP)
}

func TestChainWithoutTargetIsNoOp(t *testing.T) {
	f := newFixture(t, testSkills, world.V(30, 0))

	assert.False(t, f.cast(t, 0, gamedata.KeyQ, nil))
	assert.Equal(t, 120.0, f.hero.MP)
	assert.True(t, f.hero.CooldownReady(gamedata.KeyQ, 0))
}

func TestAreaDamagesAndRefreshesSlow(t *testing.T) {
	f := newFixture(t, testSkills, world.V(10, 0), world.V(13.5, 0), world.V(14, 0))
	p := world.V(10, 0)

	require.True(t, f.cast(t, 0, gamedata.KeyW, &p))
	assert.Equal(t, 975.0, f.foes[0].HP)
	assert.Equal(t, 975.0, f.foes[1].HP, "radius boundary is inclusive")
	assert.Equal(t, 1000.0, f.foes[2].HP)
	assert.Equal(t, 0.5, f.foes[0].SlowFactor)
	assert.Equal(t, 2.5, f.foes[0].SlowUntil)

	require.True(t, f.cast(t, 6, gamedata.KeyW, &p))
	assert.Equal(t, 0.5, f.foes[0].SlowFactor, "slow refreshes rather than stacks")
	assert.Equal(t, 8.5, f.foes[0].SlowUntil)
}

func TestAuraTicksOnSchedule(t *testing.T) {
	f := newFixture(t, testSkills, world.V(2, 0))

	require.True(t, f.cast(t, 0, gamedata.KeyE, nil))
	f.events.Drain()

	var tickTimes []float64
	for now := 0.25; now <= 14; now += 0.25 {
		f.sys.Update(now)
		for _, ev := range f.events.Drain() {
			if ev.Type == event.AuraTick {
				tickTimes = append(tickTimes, ev.At)
			}
		}
	}

	assert.Equal(t, []float64{2, 4, 6, 8, 10}, tickTimes)
	assert.False(t, f.hero.Aura.Active)
	assert.Equal(t, 5, f.hero.Aura.Ticks)
	assert.Equal(t, 95.0, f.hero.MP)
	assert.Equal(t, 1000.0-5*12, f.foes[0].HP)
}

func TestAuraCatchesUpOnLongFrame(t *testing.T) {
	f := newFixture(t, testSkills)

	require.True(t, f.cast(t, 0, gamedata.KeyE, nil))
	f.sys.Update(30)

	assert.Equal(t, 5, f.events.Count(event.AuraTick))
	assert.False(t, f.hero.Aura.Active)
}

func TestAuraDeactivatesWhenManaRunsOut(t *testing.T) {
	f := newFixture(t, testSkills, world.V(1, 0))
	f.hero.MP = 7

	require.True(t, f.cast(t, 0, gamedata.KeyE, nil))
	f.sys.Update(2)
	assert.True(t, f.hero.Aura.Active)
	assert.Equal(t, 2.0, f.hero.MP)

	f.sys.Update(4)
	assert.False(t, f.hero.Aura.Active)
	assert.Equal(t, 1, f.hero.Aura.Ticks)
	assert.Equal(t, 2.0, f.hero.MP)
	assert.Equal(t, 988.0, f.foes[0].HP)
}

func TestAuraToggleOffStartsLockout(t *testing.T) {
	f := newFixture(t, testSkills)

	require.True(t, f.cast(t, 0, gamedata.KeyE, nil))
	require.True(t, f.cast(t, 1, gamedata.KeyE, nil))
	assert.False(t, f.hero.Aura.Active)

	assert.False(t, f.cast(t, 1.2, gamedata.KeyE, nil))
	assert.True(t, f.cast(t, 1.5, gamedata.KeyE, nil))
	assert.True(t, f.hero.Aura.Active)
	assert.Equal(t, 3.5, f.hero.Aura.NextTickAt)
}

func TestStormStrikesResolveOnce(t *testing.T) {
	f := newFixture(t, testSkills, world.V(1, 1), world.V(-2, 3), world.V(4, -4))

	require.True(t, f.cast(t, 0, gamedata.KeyR, nil))
	require.Len(t, f.hero.Strikes, 8)
	for _, s := range f.hero.Strikes {
		assert.Greater(t, s.At, 0.0)
		assert.LessOrEqual(t, s.At, 6.0)
		assert.LessOrEqual(t, s.Pos.Len(), 7+1e-9)
	}

	// Strike positions are fixed at cast time.
	f.hero.Pos = world.V(30, 30)

	strikes := 0
	for now := 0.1; now <= 8; now += 0.1 {
		f.sys.Update(now)
		strikes += f.events.Count(event.StormStrike)
		f.events.Drain()
	}
	assert.Equal(t, 8, strikes)
	assert.Empty(t, f.hero.Strikes)

	f.sys.Update(20)
	assert.Zero(t, f.events.Count(event.StormStrike))
}

func TestStormStrikeDamage(t *testing.T) {
	f := newFixture(t, testSkills, world.V(0, 0))
	f.hero.Strikes = []entity.ScheduledStrike{
		{At: 1, Pos: world.V(1, 0), Radius: 1.8, Damage: 40},
		{At: 2, Pos: world.V(5, 0), Radius: 1.8, Damage: 40},
	}

	f.sys.Update(1.5)
	assert.Equal(t, 960.0, f.foes[0].HP)
	assert.Len(t, f.hero.Strikes, 1)

	f.sys.Update(2)
	assert.Equal(t, 960.0, f.foes[0].HP)
	assert.Empty(t, f.hero.Strikes)
}

func TestBeamAndNova(t *testing.T) {
	defs := []gamedata.SkillDef{
		{Key: gamedata.KeyQ, Name: "Beam", Archetype: gamedata.ArchetypeBeam, Cooldown: 1, ManaCost: 10, Damage: 20, Range: 10, Width: 1},
		{Key: gamedata.KeyW, Name: "Nova", Archetype: gamedata.ArchetypeNova, Cooldown: 1, ManaCost: 10, Damage: 15, Radius: 3},
	}
	f := newFixture(t, defs, world.V(5, 0.5), world.V(5, 2), world.V(-3, 0), world.V(0, 2))
	aim := world.V(10, 0)

	require.True(t, f.cast(t, 0, gamedata.KeyQ, &aim))
	assert.Equal(t, 980.0, f.foes[0].HP)
	assert.Equal(t, 1000.0, f.foes[1].HP)
	assert.Equal(t, 1000.0, f.foes[2].HP, "behind the caster")

	require.True(t, f.cast(t, 0, gamedata.KeyW, nil))
	assert.Equal(t, 985.0, f.foes[2].HP)
	assert.Equal(t, 985.0, f.foes[3].HP)
	assert.Equal(t, 980.0, f.foes[0].HP)
}

func TestBasicAttack(t *testing.T) {
	f := newFixture(t, testSkills, world.V(2, 0), world.V(2.01, 0))

	assert.True(t, f.sys.BasicAttack(0, f.foes[0]))
	assert.Equal(t, 990.0, f.foes[0].HP)
	assert.False(t, f.sys.BasicAttack(0.5, f.foes[0]), "cooldown")
	assert.False(t, f.sys.BasicAttack(1, f.foes[1]), "out of range")
	assert.True(t, f.sys.BasicAttack(1, f.foes[0]))
}

func TestCanCast(t *testing.T) {
	f := newFixture(t, testSkills)

	assert.True(t, f.sys.CanCast(gamedata.KeyR, 0))
	f.hero.MP = 59
	assert.False(t, f.sys.CanCast(gamedata.KeyR, 0))
	assert.False(t, f.sys.CanCast(gamedata.Key("Z"), 0))
}
