package domain

import (
	"errors"
	"testing"
)

func testProduct(id string) *Product {
	d := NewDesign(CategoryToy, 4, false)
	return NewProduct(id, d, "u1")
}

func TestGridPlaceAndAt(t *testing.T) {
	var g Grid
	p := testProduct("prod-1")

	if err := g.Place(6, 2, p); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if p.Price != 6 || p.Popularity != 2 {
		t.Errorf("Place did not stamp the cell, got price=%d pop=%d", p.Price, p.Popularity)
	}
	if got := g.At(6, 2); got != p {
		t.Errorf("At(6,2) = %v, want the placed product", got)
	}
	if got := g.At(6, 3); got != nil {
		t.Errorf("At(6,3) = %v, want nil", got)
	}
}

func TestGridPlaceOccupiedCell(t *testing.T) {
	var g Grid
	if err := g.Place(3, 1, testProduct("a")); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	err := g.Place(3, 1, testProduct("b"))
	if !errors.Is(err, ErrCellOccupied) {
		t.Errorf("Place on occupied cell = %v, want ErrCellOccupied", err)
	}
}

func TestGridOutOfRange(t *testing.T) {
	var g Grid
	tests := []struct {
		name       string
		price, pop int
	}{
		{"price zero", 0, 1},
		{"price too high", GridMaxPrice + 1, 1},
		{"popularity zero", 5, 0},
		{"popularity too high", 5, GridMaxPopularity + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.Place(tt.price, tt.pop, testProduct("x")); !errors.Is(err, ErrCellOutOfRange) {
				t.Errorf("Place(%d,%d) = %v, want ErrCellOutOfRange", tt.price, tt.pop, err)
			}
			if got := g.At(tt.price, tt.pop); got != nil {
				t.Errorf("At(%d,%d) = %v, want nil", tt.price, tt.pop, got)
			}
		})
	}
}

func TestGridRemove(t *testing.T) {
	var g Grid
	p := testProduct("prod-1")
	if err := g.Place(10, 4, p); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	got := g.Remove(10, 4)
	if got != p {
		t.Fatalf("Remove returned %v, want the placed product", got)
	}
	if p.Price != 0 {
		t.Errorf("Remove should reset the listed price, got %d", p.Price)
	}
	if g.At(10, 4) != nil {
		t.Errorf("cell still occupied after Remove")
	}
	if g.Remove(10, 4) != nil {
		t.Errorf("Remove on empty cell should return nil")
	}
}

func TestGridMove(t *testing.T) {
	var g Grid
	p := testProduct("prod-1")
	blocker := testProduct("prod-2")
	if err := g.Place(5, 1, p); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if err := g.Place(5, 3, blocker); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	if err := g.Move(5, 1, 5, 3); !errors.Is(err, ErrCellOccupied) {
		t.Errorf("Move to occupied cell = %v, want ErrCellOccupied", err)
	}
	if err := g.Move(5, 1, 7, 2); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if g.At(5, 1) != nil {
		t.Errorf("source cell still occupied after Move")
	}
	if g.At(7, 2) != p {
		t.Errorf("product missing from destination cell")
	}
	if p.Price != 7 || p.Popularity != 2 {
		t.Errorf("Move did not restamp the cell, got price=%d pop=%d", p.Price, p.Popularity)
	}
}

func TestGridListingsOrder(t *testing.T) {
	var g Grid
	cells := [][2]int{{9, 2}, {1, 5}, {9, 1}, {4, 3}}
	for i, c := range cells {
		if err := g.Place(c[0], c[1], testProduct(string(rune('a'+i)))); err != nil {
			t.Fatalf("Place failed: %v", err)
		}
	}

	listings := g.Listings()
	if len(listings) != len(cells) {
		t.Fatalf("Listings returned %d entries, want %d", len(listings), len(cells))
	}
	want := [][2]int{{1, 5}, {4, 3}, {9, 1}, {9, 2}}
	for i, l := range listings {
		if l.Price != want[i][0] || l.Popularity != want[i][1] {
			t.Errorf("listing %d at %d/%d, want %d/%d", i, l.Price, l.Popularity, want[i][0], want[i][1])
		}
	}
	if g.Count() != len(cells) {
		t.Errorf("Count = %d, want %d", g.Count(), len(cells))
	}
}

func TestGridFind(t *testing.T) {
	var g Grid
	p := testProduct("needle")
	if err := g.Place(12, 6, p); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	l, ok := g.Find("needle")
	if !ok || l.Price != 12 || l.Popularity != 6 {
		t.Errorf("Find = %+v ok=%v, want the product at 12/6", l, ok)
	}
	if _, ok := g.Find("missing"); ok {
		t.Errorf("Find should miss on unknown IDs")
	}
}
