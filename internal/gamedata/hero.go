package gamedata

// HeroDef defines the controllable hero's level-one stats.
type HeroDef struct {
	Name           string  `json:"name"`
	HP             float64 `json:"hp"`
	MP             float64 `json:"mp"`
	Damage         float64 `json:"damage"`
	HPRegen        float64 `json:"hpRegen"`        // Per second, outside the village
	MPRegen        float64 `json:"mpRegen"`        // Per second, outside the village
	Speed          float64 `json:"speed"`          // Units per second
	AttackRange    float64 `json:"attackRange"`    // Basic attack reach
	AttackCooldown float64 `json:"attackCooldown"` // Seconds between basic attacks
	AcquireRadius  float64 `json:"acquireRadius"`  // Auto-attack target search radius
}

// LoadHero loads the hero definition from the embedded hero.json file.
func LoadHero() (HeroDef, error) {
	return Load[HeroDef]("hero.json")
}
