package fuzzy

import (
	"math"
	"sync"
	"testing"

	"ganadero/internal/core/herd"
)

var paddocks = []herd.NameEntity{
	{ID: "11111111-1111-1111-1111-111111111111", Name: "Potrero 3"},
	{ID: "22222222-2222-2222-2222-222222222222", Name: "Potrero 7"},
	{ID: "33333333-3333-3333-3333-333333333333", Name: "Loma Azul"},
}

func TestResolve_Table(t *testing.T) {
	r := New(DefaultThreshold)

	tests := []struct {
		name    string
		query   string
		catalog []herd.NameEntity
		wantID  string
		wantAlt int
	}{
		{"exact", "Potrero 3", paddocks, paddocks[0].ID, 0},
		{"exact ignoring case and accents", "LOMA AZÚL", paddocks, paddocks[2].ID, 0},
		{"close single candidate", "Loma Asul", paddocks, paddocks[2].ID, 0},
		{"ambiguous two close candidates", "Potrero 8", paddocks, "", 3},
		{"weak best", "Bajo Grande", paddocks, "", 3},
		{"empty catalog", "Potrero 3", nil, "", 0},
		{"single weak candidate", "zzz", paddocks[:1], "", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Resolve(tc.query, tc.catalog)
			if tc.wantID == "" {
				if got.Match != nil {
					t.Fatalf("Resolve(%q) match = %+v, want none", tc.query, *got.Match)
				}
			} else if got.Match == nil || got.Match.ID != tc.wantID {
				t.Fatalf("Resolve(%q) match = %+v, want %s", tc.query, got.Match, tc.wantID)
			}
			if len(got.Alternatives) != tc.wantAlt {
				t.Fatalf("Resolve(%q) alternatives = %d, want %d", tc.query, len(got.Alternatives), tc.wantAlt)
			}
		})
	}
}

func TestResolve_ExactBeatsEarlierNearMatch(t *testing.T) {
	cat := []herd.NameEntity{{ID: "a", Name: "Potrero 33"}, {ID: "b", Name: "Potrero 3"}}
	got := New(0).Resolve("potrero 3", cat)
	if got.Match == nil || got.Match.ID != "b" {
		t.Fatalf("want exact b, got %+v", got.Match)
	}
	if len(got.Alternatives) != 0 {
		t.Fatalf("exact match carries no alternatives")
	}
}

func TestResolve_AlternativesSortedDescending(t *testing.T) {
	got := New(DefaultThreshold).Resolve("Potrero 8", paddocks)
	for i := 1; i < len(got.Alternatives); i++ {
		if got.Alternatives[i-1].Score < got.Alternatives[i].Score {
			t.Fatalf("alternatives not sorted: %+v", got.Alternatives)
		}
	}
	if got.Alternatives[2].Entity.Name != "Loma Azul" {
		t.Fatalf("want Loma Azul last, got %+v", got.Alternatives)
	}
}

func TestResolve_DuplicateNamesAreAmbiguous(t *testing.T) {
	cat := []herd.NameEntity{{ID: "a", Name: "Bajo"}, {ID: "b", Name: "Bajo"}}
	// exact normalized match short-circuits on the first row
	got := New(DefaultThreshold).Resolve("Bajo", cat)
	if got.Match == nil || got.Match.ID != "a" {
		t.Fatalf("exact duplicate resolves to first row, got %+v", got.Match)
	}
	got = New(DefaultThreshold).Resolve("Bajos", cat)
	if got.Match != nil {
		t.Fatalf("near duplicate names must be ambiguous, got %+v", got.Match)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"potrero 8", "potrero 3", 1 - 1.0/9},
		{"abc", "", 0},
		{"niño", "nino", 0.75},
	}
	for _, tc := range tests {
		if got := Similarity(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Similarity(%q,%q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNew_ThresholdFallback(t *testing.T) {
	if New(0).Threshold() != DefaultThreshold || New(1.5).Threshold() != DefaultThreshold {
		t.Fatalf("out of range thresholds must fall back")
	}
	if New(0.9).Threshold() != 0.9 {
		t.Fatalf("threshold not kept")
	}
}

func TestResolve_ConcurrentSharedCatalog(t *testing.T) {
	r := New(DefaultThreshold)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if m := r.Resolve("potrero 7", paddocks).Match; m == nil || m.ID != paddocks[1].ID {
					t.Errorf("unexpected match %+v", m)
					return
				}
			}
		}()
	}
	wg.Wait()
}
