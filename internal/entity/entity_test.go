package entity

import (
	"math"
	"testing"

	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/world"
)

func testHero() gamedata.HeroDef {
	return gamedata.HeroDef{
		Name: "Tester", HP: 100, MP: 50, Damage: 10,
		HPRegen: 1, MPRegen: 2, Speed: 5,
		AttackRange: 2, AttackCooldown: 1, AcquireRadius: 10,
	}
}

func testEnemyDef() *gamedata.EnemyDef {
	return &gamedata.EnemyDef{
		ID: "wolf", Name: "Wolf", Glyph: "w", HP: 40, Damage: 5, Speed: 4,
		XP: 10, AggroRadius: 8, AttackRadius: 1.5, AttackCooldown: 1,
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateIdle, "idle"},
		{StateWander, "wander"},
		{StateChase, "chase"},
		{StateAttack, "attack"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}

func TestNewPlayer(t *testing.T) {
	p := NewPlayer(testHero(), world.V(1, 2))

	if p.Level != 1 || p.HP != 100 || p.MP != 50 || !p.Alive {
		t.Errorf("NewPlayer() = level %d hp %v mp %v alive %v", p.Level, p.HP, p.MP, p.Alive)
	}
	if p.ID() == "" {
		t.Error("NewPlayer() should assign an ID")
	}
	if p.Position() != world.V(1, 2) {
		t.Errorf("Position() = %v, want (1,2)", p.Position())
	}
}

func TestTakeDamageClampsAndKills(t *testing.T) {
	p := NewPlayer(testHero(), world.Vec2{})

	if got := p.TakeDamage(30); got != 30 {
		t.Errorf("TakeDamage(30) = %v, want 30", got)
	}
	if got := p.TakeDamage(500); got != 70 {
		t.Errorf("TakeDamage(500) = %v, want 70", got)
	}
	if p.HP != 0 || p.IsAlive() {
		t.Errorf("After lethal damage HP = %v alive = %v", p.HP, p.IsAlive())
	}
	if got := p.TakeDamage(10); got != 0 {
		t.Errorf("TakeDamage on dead = %v, want 0", got)
	}
	if got := p.Heal(10); got != 0 {
		t.Errorf("Heal on dead = %v, want 0", got)
	}
}

func TestSettleDeath(t *testing.T) {
	tests := []struct {
		name      string
		hp        float64
		alive     bool
		wantDied  bool
		wantAlive bool
	}{
		{"healthy", 10, true, false, true},
		{"zero hp", 0, true, true, false},
		{"negative hp", -3, true, true, false},
		{"nan hp", math.NaN(), true, true, false},
		{"already dead", 0, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(testHero(), world.Vec2{})
			p.HP = tt.hp
			p.Alive = tt.alive

			if got := p.SettleDeath(); got != tt.wantDied {
				t.Errorf("SettleDeath() = %v, want %v", got, tt.wantDied)
			}
			if p.Alive != tt.wantAlive {
				t.Errorf("Alive = %v, want %v", p.Alive, tt.wantAlive)
			}
			if tt.wantDied && p.HP != 0 {
				t.Errorf("HP = %v after death, want 0", p.HP)
			}
		})
	}
}

func TestHealAndRestoreCapped(t *testing.T) {
	p := NewPlayer(testHero(), world.Vec2{})
	p.HP = 95
	p.MP = 48

	if got := p.Heal(20); got != 5 {
		t.Errorf("Heal(20) = %v, want 5", got)
	}
	if got := p.RestoreMP(20); got != 2 {
		t.Errorf("RestoreMP(20) = %v, want 2", got)
	}
	if p.HP != p.MaxHP || p.MP != p.MaxMP {
		t.Error("Vitals should be capped at max")
	}
}

func TestSpendMP(t *testing.T) {
	p := NewPlayer(testHero(), world.Vec2{})
	p.MP = 20

	if !p.SpendMP(20) || p.MP != 0 {
		t.Errorf("SpendMP(20) with 20 MP should leave 0, got %v", p.MP)
	}
	if p.SpendMP(1) {
		t.Error("SpendMP with insufficient MP should fail")
	}
}

func TestClampVitalsRepairs(t *testing.T) {
	p := NewPlayer(testHero(), world.Vec2{})
	p.HP = -5
	p.MP = 500

	if !p.ClampVitals() {
		t.Error("ClampVitals() should report a repair")
	}
	if p.HP != 0 || p.MP != p.MaxMP {
		t.Errorf("ClampVitals() left HP %v MP %v", p.HP, p.MP)
	}

	p.MP = math.NaN()
	p.ClampVitals()
	if p.MP != 0 {
		t.Errorf("ClampVitals() NaN MP = %v, want 0", p.MP)
	}

	if p.ClampVitals() {
		t.Error("ClampVitals() on valid vitals should report nothing")
	}
}

func TestPlayerIntegrateMoveTarget(t *testing.T) {
	p := NewPlayer(testHero(), world.V(0, 0))
	target := world.V(10, 0)
	p.MoveTarget = &target

	p.Integrate(1, nil)
	if p.Pos != world.V(5, 0) {
		t.Errorf("Pos after 1s = %v, want (5,0)", p.Pos)
	}
	p.Integrate(2, nil)
	if p.Pos != target || p.MoveTarget != nil {
		t.Errorf("Pos = %v, MoveTarget = %v; want arrival and cleared order", p.Pos, p.MoveTarget)
	}
}

func TestPlayerIntegrateFrozenDoesNotMove(t *testing.T) {
	p := NewPlayer(testHero(), world.V(0, 0))
	target := world.V(10, 0)
	p.MoveTarget = &target
	p.Frozen = true

	p.Integrate(1, nil)
	if p.Pos != world.V(0, 0) {
		t.Errorf("Frozen player moved to %v", p.Pos)
	}
}

func TestPlayerIntegrateAttackMove(t *testing.T) {
	p := NewPlayer(testHero(), world.V(0, 0))
	e := NewEnemy(testEnemyDef(), world.V(20, 0))
	p.AttackTarget = e

	p.Integrate(1, nil)
	if !p.AttackMove {
		t.Error("Player should be attack-moving toward an out-of-range target")
	}

	for i := 0; i < 10; i++ {
		p.Integrate(1, nil)
	}
	if p.Pos.Dist(e.Pos) > p.Reach {
		t.Errorf("Player stopped at distance %v, want within reach %v", p.Pos.Dist(e.Pos), p.Reach)
	}
	if p.AttackMove {
		t.Error("AttackMove should clear once in range")
	}
}

func TestPlayerIntegrateMoveDirCancelsOrders(t *testing.T) {
	p := NewPlayer(testHero(), world.V(0, 0))
	target := world.V(-10, 0)
	p.MoveTarget = &target
	p.MoveDir = world.V(0, 3)

	p.Integrate(1, nil)
	if p.MoveTarget != nil {
		t.Error("Held movement should cancel the click order")
	}
	if p.Pos.Dist(world.V(0, 5)) > 1e-9 {
		t.Errorf("Pos = %v, want (0,5)", p.Pos)
	}
}

func TestEnemySlowRefreshesNotStacks(t *testing.T) {
	e := NewEnemy(testEnemyDef(), world.Vec2{})

	e.ApplySlow(0.5, 3)
	e.ApplySlow(0.5, 5)
	if got := e.EffectiveSpeed(4); got != 2 {
		t.Errorf("EffectiveSpeed during slow = %v, want 2", got)
	}
	if got := e.EffectiveSpeed(5); got != 4 {
		t.Errorf("EffectiveSpeed after slow = %v, want 4", got)
	}
}

func TestEnemyReset(t *testing.T) {
	e := NewEnemy(testEnemyDef(), world.V(30, 0))
	e.Pos = world.V(40, 0)
	e.TakeDamage(1000)
	e.State = StateAttack
	e.RespawnAt = 12

	e.Reset(Stats{MaxHP: 80, Damage: 9, XPReward: 15, Speed: 4})

	if !e.Alive || e.HP != 80 || e.MaxHP != 80 {
		t.Errorf("Reset() HP = %v/%v alive %v", e.HP, e.MaxHP, e.Alive)
	}
	if e.Pos != e.SpawnOrigin {
		t.Errorf("Reset() Pos = %v, want spawn origin", e.Pos)
	}
	if e.State != StateWander || e.RespawnAt != 0 {
		t.Errorf("Reset() State = %v RespawnAt = %v", e.State, e.RespawnAt)
	}
}

func TestEnemyIntegrateClamps(t *testing.T) {
	e := NewEnemy(testEnemyDef(), world.V(20, 0))
	target := world.V(0, 0)
	e.MoveTarget = &target
	ring := world.Ring{Center: world.V(0, 0), Radius: 12}

	for i := 0; i < 10; i++ {
		e.Integrate(float64(i), 1, ring.PushOut)
	}
	if d := e.Pos.Dist(ring.Center); d < ring.Radius-1e-9 {
		t.Errorf("Enemy entered exclusion ring: distance %v", d)
	}
}
