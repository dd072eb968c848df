package indexer

import (
	"testing"

	"github.com/schemadoc/schemadoc/internal/types"
)

func TestBfsPathsFindsTwoHopPath(t *testing.T) {
	ordersToUsers := types.Relationship{
		Source: types.TableRef{Schema: "public", Table: "orders", Column: "user_id"},
		Target: types.TableRef{Schema: "public", Table: "users", Column: "id"},
	}
	usersToOrgs := types.Relationship{
		Source: types.TableRef{Schema: "public", Table: "users", Column: "org_id"},
		Target: types.TableRef{Schema: "public", Table: "organizations", Column: "id"},
	}

	adjacency := map[string][]edge{}
	for _, rel := range []types.Relationship{ordersToUsers, usersToOrgs} {
		from, to := tableKey(rel.Source), tableKey(rel.Target)
		adjacency[from] = append(adjacency[from], edge{from: from, to: to, rel: rel})
		adjacency[to] = append(adjacency[to], edge{from: to, to: from, rel: rel})
	}

	paths := bfsPaths(adjacency, "public.orders", maxHops)

	foundTwoHop := false
	for _, p := range paths {
		if len(p) == 2 && p[len(p)-1].to == "public.organizations" {
			foundTwoHop = true
		}
	}
	if !foundTwoHop {
		t.Fatalf("expected a 2-hop path from orders to organizations, got %+v", paths)
	}
}

func TestBfsPathsRespectsMaxHops(t *testing.T) {
	adjacency := map[string][]edge{
		"a": {{from: "a", to: "b"}},
		"b": {{from: "b", to: "a"}, {from: "b", to: "c"}},
		"c": {{from: "c", to: "b"}, {from: "c", to: "d"}},
		"d": {{from: "d", to: "c"}},
	}
	paths := bfsPaths(adjacency, "a", 2)
	for _, p := range paths {
		if len(p) > 2 {
			t.Fatalf("expected no path longer than 2 hops, got %+v", p)
		}
	}
}

func TestConfidenceDecaysWithHopCount(t *testing.T) {
	cases := []struct {
		hopCount int
		want     float64
	}{
		{1, 1.0},
		{2, 0.85},
		{3, 0.7},
		{10, 0.1}, // floor
	}
	for _, c := range cases {
		confidence := 1.0 - 0.15*float64(c.hopCount-1)
		if confidence < 0.1 {
			confidence = 0.1
		}
		if confidence != c.want {
			t.Fatalf("hopCount %d: expected confidence %.2f, got %.2f", c.hopCount, c.want, confidence)
		}
	}
}
