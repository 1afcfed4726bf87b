package gamedata

import (
	"errors"
	"fmt"
	"math/rand"
)

// EnemyRegistry holds loaded enemy definitions and provides spawning utilities.
type EnemyRegistry struct {
	enemies     []EnemyDef
	totalWeight int
}

// NewEnemyRegistry creates a registry from loaded enemy definitions.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	totalWeight := 0
	for _, e := range enemies {
		totalWeight += e.SpawnWeight
	}
	return &EnemyRegistry{
		enemies:     enemies,
		totalWeight: totalWeight,
	}
}

// LoadEnemyRegistry loads and creates a registry from the embedded enemies.json.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	enemies, err := LoadEnemies()
	if err != nil {
		return nil, err
	}
	if len(enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewEnemyRegistry(enemies), nil
}

// SpawnRandom selects a random enemy definition using weighted probability.
// Enemies with higher spawnWeight are more likely to be selected.
func (r *EnemyRegistry) SpawnRandom(rng *rand.Rand) *EnemyDef {
	if r.totalWeight <= 0 || len(r.enemies) == 0 {
		return nil
	}

	roll := rng.Intn(r.totalWeight)

	cumulative := 0
	for i := range r.enemies {
		cumulative += r.enemies[i].SpawnWeight
		if roll < cumulative {
			return &r.enemies[i]
		}
	}

	return &r.enemies[0]
}

// =============================================================================
// SkillRegistry
// =============================================================================

// SkillRegistry maps skill keys to their definitions.
type SkillRegistry struct {
	skills map[Key]*SkillDef
}

// NewSkillRegistry validates and indexes skill definitions.
func NewSkillRegistry(skills []SkillDef) (*SkillRegistry, error) {
	registry := &SkillRegistry{skills: make(map[Key]*SkillDef, len(skills))}
	for i := range skills {
		def := &skills[i]
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, dup := registry.skills[def.Key]; dup {
			return nil, fmt.Errorf("skill %s defined twice", def.Key)
		}
		registry.skills[def.Key] = def
	}
	return registry, nil
}

// LoadSkillRegistry loads and creates a registry from the embedded skills.json.
func LoadSkillRegistry() (*SkillRegistry, error) {
	skills, err := LoadSkills()
	if err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return nil, errors.New("no skills loaded from skills.json")
	}
	return NewSkillRegistry(skills)
}

// Get returns the definition bound to key, or nil.
func (r *SkillRegistry) Get(key Key) *SkillDef {
	return r.skills[key]
}

// All returns the bound skills in slot order.
func (r *SkillRegistry) All() []*SkillDef {
	out := make([]*SkillDef, 0, len(r.skills))
	for _, k := range Keys {
		if def, ok := r.skills[k]; ok {
			out = append(out, def)
		}
	}
	return out
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog bundles every definition the simulation needs.
type Catalog struct {
	Hero        HeroDef
	Skills      *SkillRegistry
	Enemies     *EnemyRegistry
	Progression ProgressionDef
	Balance     Balance
}

// LoadCatalog loads all embedded definitions.
func LoadCatalog() (*Catalog, error) {
	hero, err := LoadHero()
	if err != nil {
		return nil, err
	}
	skills, err := LoadSkillRegistry()
	if err != nil {
		return nil, err
	}
	enemies, err := LoadEnemyRegistry()
	if err != nil {
		return nil, err
	}
	progression, err := LoadProgression()
	if err != nil {
		return nil, err
	}
	balance, err := LoadBalance()
	if err != nil {
		return nil, err
	}
	return &Catalog{
		Hero:        hero,
		Skills:      skills,
		Enemies:     enemies,
		Progression: progression,
		Balance:     balance,
	}, nil
}

// MustLoadCatalog loads all definitions, panicking on error.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}
