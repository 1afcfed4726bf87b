package gamedata

import (
	"errors"
	"math"
)

// StatGrowth holds per-level multipliers applied on every level-up.
type StatGrowth struct {
	HP      float64 `json:"hp"`
	MP      float64 `json:"mp"`
	HPRegen float64 `json:"hpRegen"`
	MPRegen float64 `json:"mpRegen"`
	Damage  float64 `json:"damage"`
}

// Unlock records a content marker earned when reaching a level.
type Unlock struct {
	Level  int    `json:"level"`
	Marker string `json:"marker"`
}

// ProgressionDef configures the XP curve, stat growth and enemy scaling.
type ProgressionDef struct {
	BaseXP              float64    `json:"baseXP"`
	XPGrowth            float64    `json:"xpGrowth"`
	Growth              StatGrowth `json:"growth"`
	EnemyLevelRate      float64    `json:"enemyLevelRate"`      // Enemy stat growth per player level above 1
	EnemyGenerationRate float64    `json:"enemyGenerationRate"` // Enemy stat growth per respawn cycle
	Unlocks             []Unlock   `json:"unlocks"`
}

// RequiredXP returns the XP needed to advance from level to level+1.
// The +level term keeps the curve strictly increasing even when rounding
// would otherwise flatten it.
func (p *ProgressionDef) RequiredXP(level int) float64 {
	if level < 1 {
		level = 1
	}
	return math.Floor(p.BaseXP*math.Pow(p.XPGrowth, float64(level-1))) + float64(level-1)
}

// Validate checks the curve and growth parameters.
func (p *ProgressionDef) Validate() error {
	if p.BaseXP <= 0 {
		return errors.New("progression: baseXP must be positive")
	}
	if p.XPGrowth < 1 {
		return errors.New("progression: xpGrowth must be at least 1")
	}
	g := p.Growth
	if g.HP < 1 || g.MP < 1 || g.HPRegen < 1 || g.MPRegen < 1 || g.Damage < 1 {
		return errors.New("progression: stat growth multipliers must be at least 1")
	}
	if p.EnemyLevelRate < 0 || p.EnemyGenerationRate < 0 {
		return errors.New("progression: enemy rates must not be negative")
	}
	return nil
}

// LoadProgression loads the progression definition from progression.json.
func LoadProgression() (ProgressionDef, error) {
	def, err := Load[ProgressionDef]("progression.json")
	if err != nil {
		return def, err
	}
	return def, def.Validate()
}
