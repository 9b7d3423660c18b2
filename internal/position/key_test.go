package position

import "testing"

func TestKeyIDDeterministic(t *testing.T) {
	key := Key{
		Token0:    "So11111111111111111111111111111111111111112",
		Token1:    "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Fee:       500,
		Owner:     "owner-a",
		TickLower: -120,
		TickUpper: 120,
	}

	if key.ID() != key.ID() {
		t.Fatalf("key ID is not deterministic")
	}
	if len(key.ID()) != 64 {
		t.Fatalf("key ID length: got %d, want 64", len(key.ID()))
	}
}

func TestKeyIDDistinguishesFields(t *testing.T) {
	base := Key{Token0: "t0", Token1: "t1", Fee: 500, Owner: "o", TickLower: -10, TickUpper: 10}

	variants := []Key{
		{Token0: "t0x", Token1: "t1", Fee: 500, Owner: "o", TickLower: -10, TickUpper: 10},
		{Token0: "t0", Token1: "t1x", Fee: 500, Owner: "o", TickLower: -10, TickUpper: 10},
		{Token0: "t0", Token1: "t1", Fee: 3000, Owner: "o", TickLower: -10, TickUpper: 10},
		{Token0: "t0", Token1: "t1", Fee: 500, Owner: "p", TickLower: -10, TickUpper: 10},
		{Token0: "t0", Token1: "t1", Fee: 500, Owner: "o", TickLower: -20, TickUpper: 10},
		{Token0: "t0", Token1: "t1", Fee: 500, Owner: "o", TickLower: -10, TickUpper: 20},
	}

	for i, variant := range variants {
		if variant.ID() == base.ID() {
			t.Fatalf("variant %d collides with base key", i)
		}
	}
}

func TestKeyIDFieldBoundaries(t *testing.T) {
	// Length prefixes keep adjacent string fields from bleeding into
	// each other.
	a := Key{Token0: "ab", Token1: "c"}
	b := Key{Token0: "a", Token1: "bc"}
	if a.ID() == b.ID() {
		t.Fatalf("keys with shifted field boundaries collide")
	}
}
