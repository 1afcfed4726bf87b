// Package event carries simulation notifications out to presentation
// collaborators (VFX, audio, HUD). The simulation only pushes; the tick loop
// drains once per frame after the simulation step.
package event

import "github.com/samdwyer/hollowgate/internal/world"

// Type identifies what happened.
type Type int

const (
	BasicAttack Type = iota
	SkillCast
	ChainHit
	AreaImpact
	AuraToggled
	AuraTick
	StormStrike
	EnemyDied
	EnemyRespawned
	PlayerHit
	PlayerDied
	PlayerRespawned
	LevelUp
	RecallPrompted
	TeleportSucceeded
)

var typeNames = [...]string{
	BasicAttack:       "basic_attack",
	SkillCast:         "skill_cast",
	ChainHit:          "chain_hit",
	AreaImpact:        "area_impact",
	AuraToggled:       "aura_toggled",
	AuraTick:          "aura_tick",
	StormStrike:       "storm_strike",
	EnemyDied:         "enemy_died",
	EnemyRespawned:    "enemy_respawned",
	PlayerHit:         "player_hit",
	PlayerDied:        "player_died",
	PlayerRespawned:   "player_respawned",
	LevelUp:           "level_up",
	RecallPrompted:    "recall_prompted",
	TeleportSucceeded: "teleport_succeeded",
}

// String returns the event type name.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Event is a single notification. Fields that do not apply to a type are zero.
type Event struct {
	Type      Type
	At        float64    // Simulation time
	SourceID  string     // Entity that caused it
	TargetID  string     // Entity affected
	Pos       world.Vec2 // Where it happened
	Amount    float64    // Damage dealt, XP gained, new level...
	Archetype string     // Skill archetype for SkillCast
	Skill     string     // Skill key for SkillCast
}

// Queue buffers events produced during one tick.
type Queue struct {
	events []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{events: make([]Event, 0, 64)}
}

// Push appends an event. A nil queue discards events.
func (q *Queue) Push(e Event) {
	if q == nil {
		return
	}
	q.events = append(q.events, e)
}

// Pending returns the events buffered so far without consuming them.
func (q *Queue) Pending() []Event {
	if q == nil {
		return nil
	}
	return q.events
}

// Drain returns all buffered events in FIFO order and empties the queue.
func (q *Queue) Drain() []Event {
	if q == nil || len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = make([]Event, 0, cap(out))
	return out
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.events)
}

// Count returns how many buffered events have the given type.
func (q *Queue) Count(t Type) int {
	n := 0
	for _, e := range q.Pending() {
		if e.Type == t {
			n++
		}
	}
	return n
}
