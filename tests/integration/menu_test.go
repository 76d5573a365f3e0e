//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestBranchMenu(t *testing.T) {
	resp := doGet(t, "/api/branches/1/menu")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	items := decodeJSON[[]menuItemResponse](t, resp)
	if len(items) != 3 {
		t.Fatalf("expected 3 menu items, got %d", len(items))
	}

	byName := make(map[string]menuItemResponse, len(items))
	for _, it := range items {
		if it.Name == "" {
			t.Error("menu item with empty name")
		}
		byName[it.Name] = it
	}

	noodles, ok := byName["Shan Noodles"]
	if !ok {
		t.Fatal("Shan Noodles missing from menu")
	}
	if len(noodles.Variants) != 2 {
		t.Errorf("variants: got %d, want 2", len(noodles.Variants))
	}
	for _, v := range noodles.Variants {
		if v.Price <= 0 {
			t.Errorf("variant %q price: got %v, want > 0", v.Name, v.Price)
		}
	}
}

func TestBranchMenu_UnknownBranch(t *testing.T) {
	resp := doGet(t, "/api/branches/999/menu")
	defer resp.Body.Close()

	// An unknown branch simply has no menu items.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	items := decodeJSON[[]menuItemResponse](t, resp)
	if len(items) != 0 {
		t.Errorf("expected empty menu, got %d items", len(items))
	}
}
