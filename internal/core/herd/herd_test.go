package herd

import "testing"

func TestFindCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"Mover 120 terneros del Potrero 3", Terneros, true},
		{"Vacunar lote vaquillonas aftosa", Vaquillonas, true},
		{"Destetar 40 TERNERAS", Terneras, true},
		{"Iniciar entore de vacas con 3 toros", Vacas, true},
		{"12 novillo", Novillos, true},
		// terneros precedes terneros destetados in lookup order
		{"terneros destetados", Terneros, true},
		{"destetados", TernerosDestetados, true},
		{"Lluvia fuerte en el campo", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := FindCategory(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("FindCategory(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestCategories_CopyAndCount(t *testing.T) {
	cs := Categories()
	if len(cs) != 11 {
		t.Fatalf("want 11 categories got %d", len(cs))
	}
	cs[0].Synonyms[0] = "mutated"
	if Categories()[0].Synonyms[0] != "terneros" {
		t.Fatalf("Categories must return a copy")
	}
}

func TestOperationTypes(t *testing.T) {
	if n := len(OperationTypes()); n != 8 {
		t.Fatalf("want 8 operation types got %d", n)
	}
	if !OpDeworming.Valid() || !OpTreatment.Valid() || !OpMove.Valid() {
		t.Fatalf("expected known intents to be valid")
	}
	if OperationType("UNKNOWN").Valid() {
		t.Fatalf("UNKNOWN is not an operation type")
	}
	if !OpTreatment.IsHealth() || OpMove.IsHealth() {
		t.Fatalf("IsHealth mismatch")
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := TernerosDestetados.Label(); got != "Terneros destetados" {
		t.Fatalf("Label = %q", got)
	}
	if got := Category("X").Label(); got != "X" {
		t.Fatalf("unknown label = %q", got)
	}
	if Category("X").Valid() || !Ovejas.Valid() {
		t.Fatalf("Valid mismatch")
	}
}

func TestCategorySpecies(t *testing.T) {
	tests := []struct {
		c    Category
		want Species
	}{
		{Terneros, Bovino},
		{Vacas, Bovino},
		{Ovejas, Ovino},
		{Corderos, Ovino},
		{Carneros, Ovino},
	}
	for _, tc := range tests {
		if got := tc.c.Species(); got != tc.want {
			t.Fatalf("%s.Species() = %s, want %s", tc.c, got, tc.want)
		}
	}
}
