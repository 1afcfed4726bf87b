package sim

import (
	"github.com/samdwyer/hollowgate/internal/entity"
	"github.com/samdwyer/hollowgate/internal/gamedata"
	"github.com/samdwyer/hollowgate/internal/portal"
	"github.com/samdwyer/hollowgate/internal/world"
)

// Phase summarises where the hero stands in the session.
type Phase int

const (
	PhaseField Phase = iota
	PhaseVillage
	PhaseAwaitingTeleport
	PhaseDead
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseField:
		return "field"
	case PhaseVillage:
		return "village"
	case PhaseAwaitingTeleport:
		return "awaiting_teleport"
	case PhaseDead:
		return "dead"
	default:
		return "unknown"
	}
}

// PlayerView is a read-only copy of the hero's presentable state.
type PlayerView struct {
	ID           string
	Name         string
	Pos          world.Vec2
	Alive        bool
	Frozen       bool
	Invulnerable bool
	AttackMove   bool
	HP, MaxHP    float64
	MP, MaxMP    float64
	HPRatio      float64
	MPRatio      float64
	Level        int
	XP           float64
	XPToNext     float64
	AuraActive   bool
	RespawnIn    float64 // Seconds until respawn while dead
}

// EnemyView is a read-only copy of one enemy slot.
type EnemyView struct {
	ID         string
	Type       string
	Name       string
	Symbol     rune
	Color      string
	Pos        world.Vec2
	Alive      bool
	HPRatio    float64
	State      entity.State
	Generation int
	Slowed     bool
	Targeted   bool // Current hero attack target
}

// SkillView describes a skill slot for the HUD.
type SkillView struct {
	Key       gamedata.Key
	Name      string
	Archetype gamedata.Archetype
	ManaCost  float64
	Cooldown  float64 // Seconds remaining
	Ready     bool
	Active    bool // Toggled aura currently on
}

// PortalView is a read-only copy of a portal.
type PortalView struct {
	ID     string
	Pos    world.Vec2
	Radius float64
	Spin   float64
	Linked bool
}

// Snapshot is everything presentation needs for one frame. It holds copies
// only; mutating it has no effect on the simulation.
type Snapshot struct {
	Now     float64
	Phase   Phase
	Player  PlayerView
	Enemies []EnemyView
	Skills  []SkillView

	VillagePortal PortalView
	ReturnPortal  *PortalView

	Village   world.Ring
	Exclusion world.Ring
	Extent    float64
	Camps     []world.Camp
	Strikes   []world.Vec2 // Pending storm strike points

	FoesLeft int // Living enemies

	Message string
	Unlocks []string
}

// Snapshot copies the current state for presentation.
func (s *Sim) Snapshot() Snapshot {
	p := s.Player
	now := s.now

	snap := Snapshot{
		Now:           now,
		Phase:         s.phase(),
		Player:        s.playerView(now),
		VillagePortal: portalView(s.recall.Village),
		Village:       s.Field.Village,
		Exclusion:     s.Field.Exclusion,
		Extent:        s.Field.Extent,
		Camps:         append([]world.Camp(nil), s.Field.Camps...),
		FoesLeft:      s.Enemies.AliveCount(),
		Message:       s.message(),
		Unlocks:       s.progress.Unlocked(),
	}
	if s.recall.Return != nil {
		rv := portalView(s.recall.Return)
		snap.ReturnPortal = &rv
	}

	snap.Enemies = make([]EnemyView, 0, len(s.Enemies))
	for _, e := range s.Enemies {
		snap.Enemies = append(snap.Enemies, EnemyView{
			ID:         e.ID(),
			Type:       e.Def.ID,
			Name:       e.Name,
			Symbol:     e.Symbol,
			Color:      e.Def.Color,
			Pos:        e.Pos,
			Alive:      e.Alive,
			HPRatio:    e.HPRatio(),
			State:      e.State,
			Generation: e.Generation,
			Slowed:     now < e.SlowUntil,
			Targeted:   p.AttackTarget != nil && p.AttackTarget.ID() == e.ID(),
		})
	}

	for _, def := range s.skills.Definitions().All() {
		active := def.Archetype == gamedata.ArchetypeAura && p.Aura.Active && p.Aura.Key == def.Key
		snap.Skills = append(snap.Skills, SkillView{
			Key:       def.Key,
			Name:      def.Name,
			Archetype: def.Archetype,
			ManaCost:  def.ManaCost,
			Cooldown:  p.CooldownRemaining(def.Key, now),
			Ready:     s.skills.CanCast(def.Key, now),
			Active:    active,
		})
	}

	for _, st := range p.Strikes {
		snap.Strikes = append(snap.Strikes, st.Pos)
	}
	return snap
}

func (s *Sim) playerView(now float64) PlayerView {
	p := s.Player
	v := PlayerView{
		ID:           p.ID(),
		Name:         p.Name,
		Pos:          p.Pos,
		Alive:        p.Alive,
		Frozen:       p.Frozen,
		Invulnerable: p.Invulnerable(now),
		AttackMove:   p.AttackMove,
		HP:           p.HP,
		MaxHP:        p.MaxHP,
		MP:           p.MP,
		MaxMP:        p.MaxMP,
		HPRatio:      p.HPRatio(),
		MPRatio:      p.MPRatio(),
		Level:        p.Level,
		XP:           p.XP,
		XPToNext:     p.XPToNext,
		AuraActive:   p.Aura.Active,
	}
	if !p.Alive && p.RespawnAt > now {
		v.RespawnIn = p.RespawnAt - now
	}
	return v
}

func (s *Sim) phase() Phase {
	switch {
	case !s.Player.Alive || s.village.Respawning():
		return PhaseDead
	case s.recall.State() == portal.StateAwaitingTeleport:
		return PhaseAwaitingTeleport
	case s.village.Rest.Contains(s.Player.Pos):
		return PhaseVillage
	default:
		return PhaseField
	}
}

// message returns the prompt to show, death taking priority over recall.
func (s *Sim) message() string {
	if s.village.Message != "" {
		return s.village.Message
	}
	return s.recall.Message
}

func portalView(p *portal.Portal) PortalView {
	return PortalView{
		ID:     p.ID,
		Pos:    p.Pos,
		Radius: p.Radius,
		Spin:   p.Spin,
		Linked: p.LinkedTo != nil,
	}
}
