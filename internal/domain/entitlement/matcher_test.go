package entitlement

import "testing"

func TestIsServiceIncluded(t *testing.T) {
	cases := []struct {
		name    string
		spec    string
		service string
		id      string
		want    bool
	}{
		{"json array exact", `["Corte"]`, "Corte", "", true},
		{"json array case insensitive", `["CORTE"]`, "corte", "", true},
		{"term contained in name", `["Corte"]`, "Corte Infantil", "", true},
		{"name contained in term", `["Corte e Barba"]`, "Barba", "", true},
		{"json array miss", `["Corte"]`, "Barba", "", false},
		{"json object keys", `{"Barba": true, "Sobrancelha": 1}`, "barba", "", true},
		{"comma separated", "Corte, Barba ,Pigmentação", "pigmentação", "", true},
		{"comma separated miss", "Corte,Barba", "Luzes", "", false},
		{"id match", `["7", "Hidratação"]`, "Platinado", "7", true},
		{"numeric json id", `[7, 9]`, "Platinado", "9", true},
		{"id mismatch", `["7"]`, "Platinado", "8", false},
		{"empty spec", "", "Corte", "1", false},
		{"null spec", "null", "Corte", "", false},
		{"empty array", "[]", "Corte", "", false},
		{"blank terms ignored", `["", "  "]`, "Corte", "", false},
		{"quoted scalar falls back", `"Corte"`, "Corte", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsServiceIncluded(tc.spec, tc.service, tc.id); got != tc.want {
				t.Fatalf("IsServiceIncluded(%q, %q, %q) = %v, want %v", tc.spec, tc.service, tc.id, got, tc.want)
			}
		})
	}
}

func TestIsServiceIncludedIsSymmetricInCase(t *testing.T) {
	specs := []string{`["Corte"]`, "corte", `{"CoRtE": 1}`}
	names := []string{"CORTE", "corte", "Corte Degradê"}

	for _, spec := range specs {
		for _, name := range names {
			if !IsServiceIncluded(spec, name, "") {
				t.Fatalf("expected %q to cover %q", spec, name)
			}
		}
	}
}

func TestResolveLegacy(t *testing.T) {
	catalog := []CatalogEntry{
		{ID: 1, Name: "Corte"},
		{ID: 2, Name: "Corte Infantil"},
		{ID: 3, Name: "Barba"},
		{ID: 4, Name: "Sobrancelha"},
	}

	set := ResolveLegacy(`["corte", "4"]`, catalog)

	for _, id := range []uint{1, 2, 4} {
		if !set.Covers(id) {
			t.Fatalf("expected service %d to be covered", id)
		}
	}
	if set.Covers(3) {
		t.Fatal("barba must not be covered")
	}

	if got := ResolveLegacy("", catalog); len(got) != 0 {
		t.Fatalf("empty spec should resolve to nothing, got %v", got.IDs())
	}
}
