package gamedata

import (
	"errors"

	"github.com/samdwyer/hollowgate/internal/world"
)

// VillageBalance tunes the village ring and its portal.
type VillageBalance struct {
	Center          world.Vec2 `json:"center" yaml:"center"`
	RestRadius      float64    `json:"restRadius" yaml:"restRadius"`
	ExclusionRadius float64    `json:"exclusionRadius" yaml:"exclusionRadius"`
	RestMultiplier  float64    `json:"restMultiplier" yaml:"restMultiplier"`
	PortalPosition  world.Vec2 `json:"portalPosition" yaml:"portalPosition"`
	PortalRadius    float64    `json:"portalRadius" yaml:"portalRadius"`
	ClickTolerance  float64    `json:"clickTolerance" yaml:"clickTolerance"`
	SpinSpeed       float64    `json:"spinSpeed" yaml:"spinSpeed"` // Radians per second
}

// RespawnBalance tunes death and respawn timing.
type RespawnBalance struct {
	PlayerDelay     float64 `json:"playerDelay" yaml:"playerDelay"`
	Invulnerability float64 `json:"invulnerability" yaml:"invulnerability"`
	EnemyDelay      float64 `json:"enemyDelay" yaml:"enemyDelay"`
}

// FieldBalance tunes camp generation.
type FieldBalance struct {
	Extent        float64 `json:"extent" yaml:"extent"`
	CampCount     int     `json:"campCount" yaml:"campCount"`
	CampRadius    float64 `json:"campRadius" yaml:"campRadius"`
	SlotsPerCamp  int     `json:"slotsPerCamp" yaml:"slotsPerCamp"`
	CampClearance float64 `json:"campClearance" yaml:"campClearance"`
}

// AIBalance tunes enemy behaviour.
type AIBalance struct {
	LeashRadius   float64 `json:"leashRadius" yaml:"leashRadius"`
	DwellMin      float64 `json:"dwellMin" yaml:"dwellMin"`
	DwellMax      float64 `json:"dwellMax" yaml:"dwellMax"`
	WanderTimeout float64 `json:"wanderTimeout" yaml:"wanderTimeout"`
	ArriveEpsilon float64 `json:"arriveEpsilon" yaml:"arriveEpsilon"`
}

// Balance groups the world tuning knobs. It can be overridden from YAML.
type Balance struct {
	Village VillageBalance `json:"village" yaml:"village"`
	Respawn RespawnBalance `json:"respawn" yaml:"respawn"`
	Field   FieldBalance   `json:"field" yaml:"field"`
	AI      AIBalance      `json:"ai" yaml:"ai"`
}

// Validate rejects tunings the simulation cannot run with.
func (b *Balance) Validate() error {
	v := b.Village
	if v.RestRadius <= 0 || v.ExclusionRadius < v.RestRadius {
		return errors.New("balance: exclusionRadius must cover restRadius")
	}
	if v.RestMultiplier < 1 {
		return errors.New("balance: restMultiplier must be at least 1")
	}
	if v.PortalRadius <= 0 || v.ClickTolerance < 0 {
		return errors.New("balance: invalid portal radius or click tolerance")
	}
	r := b.Respawn
	if r.PlayerDelay < 0 || r.Invulnerability < 0 || r.EnemyDelay < 0 {
		return errors.New("balance: respawn timings must not be negative")
	}
	if b.Field.Extent <= v.ExclusionRadius {
		return errors.New("balance: field extent must exceed the exclusion ring")
	}
	a := b.AI
	if a.DwellMin < 0 || a.DwellMax < a.DwellMin || a.WanderTimeout <= 0 {
		return errors.New("balance: invalid dwell or wander timing")
	}
	return nil
}

// LoadBalance loads the embedded balance.json.
func LoadBalance() (Balance, error) {
	b, err := Load[Balance]("balance.json")
	if err != nil {
		return b, err
	}
	return b, b.Validate()
}
