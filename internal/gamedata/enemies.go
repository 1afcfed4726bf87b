package gamedata

import "github.com/gdamore/tcell/v2"

// EnemyDef defines an enemy archetype loaded from JSON. Stats are the
// level-one, generation-zero baseline; scaling is applied on every spawn.
type EnemyDef struct {
	ID             string  `json:"id"`             // Unique identifier (e.g., "wolf")
	Name           string  `json:"name"`           // Display name
	Glyph          string  `json:"glyph"`          // Single character for the terminal view
	Color          string  `json:"color"`          // Hex color code
	HP             float64 `json:"hp"`             // Base hit points
	Damage         float64 `json:"damage"`         // Base damage per attack
	Speed          float64 `json:"speed"`          // Units per second
	XP             float64 `json:"xp"`             // Base XP reward
	AggroRadius    float64 `json:"aggroRadius"`    // Starts chasing within this distance
	AttackRadius   float64 `json:"attackRadius"`   // Attacks within this distance
	AttackCooldown float64 `json:"attackCooldown"` // Seconds between attacks
	SpawnWeight    int     `json:"spawnWeight"`    // Relative spawn frequency (higher = more common)
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	if len(e.Glyph) == 0 {
		return '?'
	}
	return rune(e.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (e *EnemyDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(e.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// EnemiesFile represents the structure of enemies.json.
type EnemiesFile struct {
	Enemies []EnemyDef `json:"enemies"`
}

// LoadEnemies loads enemy definitions from the embedded enemies.json file.
func LoadEnemies() ([]EnemyDef, error) {
	file, err := Load[EnemiesFile]("enemies.json")
	if err != nil {
		return nil, err
	}
	return file.Enemies, nil
}
