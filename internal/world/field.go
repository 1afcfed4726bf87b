package world

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/hollowgate/internal/telemetry"
)

const (
	// Default field extent (half-width of the square play area).
	DefaultExtent = 60.0

	maxPlacementAttempts = 100
)

// Layout holds the parameters used to generate a field.
type Layout struct {
	Extent        float64 // Half-width of the square field
	Village       Ring    // Village regen ring
	Exclusion     Ring    // No enemy may spawn or wander inside this ring
	CampCount     int
	CampRadius    float64
	SlotsPerCamp  int
	CampClearance float64 // Extra distance kept between a camp and the exclusion ring
}

// Field represents the playable ground: the village in the middle and enemy
// camps scattered around it.
type Field struct {
	Layout
	Camps []Camp
	rng   *rand.Rand
}

// NewField creates an empty field. Camps are placed by Generate.
func NewField(layout Layout, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if layout.Extent <= 0 {
		layout.Extent = DefaultExtent
	}
	return &Field{
		Layout: layout,
		Camps:  make([]Camp, 0, layout.CampCount),
		rng:    rng,
	}
}

// Generate places camps around the village. The same rng seed always yields
// the same layout.
func (f *Field) Generate(ctx context.Context) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "field.generate")
	defer span.End()

	startTime := time.Now()

	inner := f.Exclusion.Radius + f.CampRadius + f.CampClearance
	outer := f.Extent - f.CampRadius
	if outer < inner {
		outer = inner
	}

	for i := 0; i < f.CampCount; i++ {
		camp, ok := f.placeCamp(inner, outer)
		if !ok {
			continue
		}
		f.Camps = append(f.Camps, camp)
	}

	span.SetAttributes(
		attribute.Float64("field.extent", f.Extent),
		attribute.Int("field.camp_count", len(f.Camps)),
		attribute.Int("field.slot_count", len(f.SpawnSlots())),
		attribute.Int64("field.generation_ms", time.Since(startTime).Milliseconds()),
	)
}

// placeCamp tries random centers until one does not overlap an existing camp.
func (f *Field) placeCamp(inner, outer float64) (Camp, bool) {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		center := RandomPointInAnnulus(f.rng, f.Exclusion.Center, inner, outer)
		camp := Camp{Center: center, Radius: f.CampRadius}

		overlaps := false
		for _, existing := range f.Camps {
			if camp.Intersects(existing) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		camp.Slots = make([]Vec2, 0, f.SlotsPerCamp)
		for s := 0; s < f.SlotsPerCamp; s++ {
			slot := f.ClampOutside(RandomPointInDisc(f.rng, center, f.CampRadius))
			camp.Slots = append(camp.Slots, slot)
		}
		return camp, true
	}
	return Camp{}, false
}

// SpawnSlots returns every spawn slot in camp order.
func (f *Field) SpawnSlots() []Vec2 {
	var slots []Vec2
	for _, c := range f.Camps {
		slots = append(slots, c.Slots...)
	}
	return slots
}

// InBounds reports whether p lies within the square field.
func (f *Field) InBounds(p Vec2) bool {
	return math.Abs(p.X) <= f.Extent && math.Abs(p.Z) <= f.Extent
}

// ClampOutside keeps p inside the field bounds and outside the exclusion ring.
func (f *Field) ClampOutside(p Vec2) Vec2 {
	p = f.ClampBounds(p)
	return f.Exclusion.PushOut(p)
}

// ClampBounds keeps p inside the square field.
func (f *Field) ClampBounds(p Vec2) Vec2 {
	p.X = math.Max(-f.Extent, math.Min(f.Extent, p.X))
	p.Z = math.Max(-f.Extent, math.Min(f.Extent, p.Z))
	return p
}

// RandomPointNear returns a random point within radius of center that is
// inside the field and outside the exclusion ring.
func (f *Field) RandomPointNear(rng *rand.Rand, center Vec2, radius float64) Vec2 {
	if rng == nil {
		rng = f.rng
	}
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		p := RandomPointInDisc(rng, center, radius)
		if f.InBounds(p) && !f.Exclusion.Contains(p) {
			return p
		}
	}
	return f.ClampOutside(center)
}
