package gamedata

import (
	"fmt"
	"strings"
)

// =============================================================================
// SKILL DEFINITIONS
// =============================================================================
//
// The hero has a basic attack plus four skills bound to Q, W, E and R. Each
// skill is a data-driven definition; behaviour comes from its archetype:
//
//   chain - hits the nearest enemy in range, then hops to the nearest
//           not-yet-hit enemy within jumpRange, up to `jumps` extra hits
//   area  - damages and slows every enemy within radius of a ground point
//   aura  - toggled; every `tick` seconds costs tickManaCost and damages
//           enemies within radius of the caster, for at most `duration`
//   storm - schedules `count` strikes at random times within `duration` and
//           random points within radius of the cast position
//   beam  - damages every enemy within `width` of the line from the caster
//           toward a point, up to `range`
//   nova  - damages every enemy within radius of the caster, once
//
// JSON Schema:
// ------------
// {
//   "key": "Q",
//   "name": "Arc Lightning",
//   "archetype": "chain",
//   "cooldown": 4,
//   "manaCost": 20,
//   "damage": 30,
//   "range": 10,
//   "jumpRange": 6,
//   "jumps": 2
// }

// Key identifies a skill slot.
type Key string

const (
	KeyQ Key = "Q"
	KeyW Key = "W"
	KeyE Key = "E"
	KeyR Key = "R"
)

// Keys lists the skill slots in display order.
var Keys = []Key{KeyQ, KeyW, KeyE, KeyR}

// ParseKey converts user input (case-insensitive) into a skill key.
func ParseKey(s string) (Key, bool) {
	k := Key(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Keys {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Archetype tags the effect a skill executes.
type Archetype string

const (
	ArchetypeChain Archetype = "chain"
	ArchetypeArea  Archetype = "area"
	ArchetypeAura  Archetype = "aura"
	ArchetypeStorm Archetype = "storm"
	ArchetypeBeam  Archetype = "beam"
	ArchetypeNova  Archetype = "nova"
)

// NeedsPoint returns true if the archetype must be aimed at a ground point.
func (a Archetype) NeedsPoint() bool {
	return a == ArchetypeArea || a == ArchetypeBeam
}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeChain, ArchetypeArea, ArchetypeAura, ArchetypeStorm, ArchetypeBeam, ArchetypeNova:
		return true
	}
	return false
}

// SkillDef is static, shared skill configuration. Times are in seconds.
type SkillDef struct {
	Key           Key       `json:"key"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Archetype     Archetype `json:"archetype"`
	Cooldown      float64   `json:"cooldown"`
	ManaCost      float64   `json:"manaCost"`
	Damage        float64   `json:"damage"`
	Range         float64   `json:"range,omitempty"`
	Radius        float64   `json:"radius,omitempty"`
	Width         float64   `json:"width,omitempty"`
	Jumps         int       `json:"jumps,omitempty"`
	JumpRange     float64   `json:"jumpRange,omitempty"`
	Tick          float64   `json:"tick,omitempty"`
	TickManaCost  float64   `json:"tickManaCost,omitempty"`
	Duration      float64   `json:"duration,omitempty"`
	SlowFactor    float64   `json:"slowFactor,omitempty"`
	SlowDuration  float64   `json:"slowDuration,omitempty"`
	Count         int       `json:"count,omitempty"`
	StrikeRadius  float64   `json:"strikeRadius,omitempty"`
	ToggleLockout float64   `json:"toggleLockout,omitempty"`
}

// Validate checks that the parameters needed by the archetype are present.
func (s *SkillDef) Validate() error {
	if _, ok := ParseKey(string(s.Key)); !ok {
		return fmt.Errorf("skill %q: unknown key", s.Key)
	}
	if !s.Archetype.Valid() {
		return fmt.Errorf("skill %s: unknown archetype %q", s.Key, s.Archetype)
	}
	if s.Cooldown < 0 || s.ManaCost < 0 || s.Damage < 0 {
		return fmt.Errorf("skill %s: negative cooldown, cost or damage", s.Key)
	}
	switch s.Archetype {
	case ArchetypeChain:
		if s.Range <= 0 || s.Jumps < 0 || (s.Jumps > 0 && s.JumpRange <= 0) {
			return fmt.Errorf("skill %s: chain needs range and jumpRange", s.Key)
		}
	case ArchetypeArea:
		if s.Radius <= 0 {
			return fmt.Errorf("skill %s: area needs radius", s.Key)
		}
		if s.SlowFactor < 0 || s.SlowFactor > 1 {
			return fmt.Errorf("skill %s: slowFactor must be within [0,1]", s.Key)
		}
	case ArchetypeAura:
		if s.Tick <= 0 || s.Duration <= 0 || s.Radius <= 0 {
			return fmt.Errorf("skill %s: aura needs tick, duration and radius", s.Key)
		}
	case ArchetypeStorm:
		if s.Count <= 0 || s.Duration <= 0 || s.Radius <= 0 || s.StrikeRadius <= 0 {
			return fmt.Errorf("skill %s: storm needs count, duration, radius and strikeRadius", s.Key)
		}
	case ArchetypeBeam:
		if s.Range <= 0 || s.Width <= 0 {
			return fmt.Errorf("skill %s: beam needs range and width", s.Key)
		}
	case ArchetypeNova:
		if s.Radius <= 0 {
			return fmt.Errorf("skill %s: nova needs radius", s.Key)
		}
	}
	return nil
}

// SkillsFile represents the structure of skills.json.
type SkillsFile struct {
	Skills []SkillDef `json:"skills"`
}

// LoadSkills loads skill definitions from the embedded skills.json file.
func LoadSkills() ([]SkillDef, error) {
	file, err := Load[SkillsFile]("skills.json")
	if err != nil {
		return nil, err
	}
	return file.Skills, nil
}
