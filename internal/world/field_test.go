package world

import (
	"context"
	"math/rand"
	"testing"
)

func testLayout() Layout {
	return Layout{
		Extent:        DefaultExtent,
		Village:       Ring{Center: V(0, 0), Radius: 8},
		Exclusion:     Ring{Center: V(0, 0), Radius: 12},
		CampCount:     6,
		CampRadius:    5,
		SlotsPerCamp:  3,
		CampClearance: 2,
	}
}

func TestFieldReproducibility(t *testing.T) {
	// Generate two fields with the same seed
	seed := int64(12345)

	f1 := NewField(testLayout(), rand.New(rand.NewSource(seed)))
	f2 := NewField(testLayout(), rand.New(rand.NewSource(seed)))

	ctx := context.Background()
	f1.Generate(ctx)
	f2.Generate(ctx)

	if len(f1.Camps) != len(f2.Camps) {
		t.Fatalf("Camp count mismatch: %d != %d", len(f1.Camps), len(f2.Camps))
	}

	for i := range f1.Camps {
		c1, c2 := f1.Camps[i], f2.Camps[i]
		if c1.Center != c2.Center {
			t.Errorf("Camp %d mismatch: %v != %v", i, c1.Center, c2.Center)
		}
		for s := range c1.Slots {
			if c1.Slots[s] != c2.Slots[s] {
				t.Errorf("Camp %d slot %d mismatch: %v != %v", i, s, c1.Slots[s], c2.Slots[s])
			}
		}
	}
}

func TestFieldSlotsOutsideExclusion(t *testing.T) {
	f := NewField(testLayout(), rand.New(rand.NewSource(7)))
	f.Generate(context.Background())

	if len(f.Camps) == 0 {
		t.Fatal("Expected at least one camp")
	}

	for _, slot := range f.SpawnSlots() {
		if slot.Dist(f.Exclusion.Center) < f.Exclusion.Radius-1e-9 {
			t.Errorf("Slot %v lies inside the exclusion ring", slot)
		}
		if !f.InBounds(slot) {
			t.Errorf("Slot %v lies outside the field", slot)
		}
	}
}

func TestFieldCampsDoNotOverlap(t *testing.T) {
	f := NewField(testLayout(), rand.New(rand.NewSource(99)))
	f.Generate(context.Background())

	for i := range f.Camps {
		for j := i + 1; j < len(f.Camps); j++ {
			if f.Camps[i].Intersects(f.Camps[j]) {
				t.Errorf("Camps %d and %d overlap", i, j)
			}
		}
	}
}

func TestRingPushOut(t *testing.T) {
	r := Ring{Center: V(0, 0), Radius: 10}

	tests := []struct {
		name string
		in   Vec2
		want Vec2
	}{
		{"outside untouched", V(20, 0), V(20, 0)},
		{"on boundary untouched", V(0, 10), V(0, 10)},
		{"inside pushed", V(5, 0), V(10, 0)},
		{"center pushed along x", V(0, 0), V(10, 0)},
	}

	for _, tt := range tests {
		got := r.PushOut(tt.in)
		if got.Dist(tt.want) > 1e-9 {
			t.Errorf("%s: PushOut(%v) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestMoveToward(t *testing.T) {
	start := V(0, 0)

	got, reached := start.MoveToward(V(10, 0), 3)
	if reached || got != V(3, 0) {
		t.Errorf("MoveToward partial = %v, %v; want (3,0), false", got, reached)
	}

	got, reached = start.MoveToward(V(2, 0), 3)
	if !reached || got != V(2, 0) {
		t.Errorf("MoveToward overshoot = %v, %v; want (2,0), true", got, reached)
	}
}
