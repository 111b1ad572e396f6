package text

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"aros", "aros"},
		{"rombos", "rombo"},
		{"anos", "anos"},
		{"lados", "lados"},
		{"runas", "runas"},
		{"runass", "runas"},
		{"tarot", "tarot"},
		{"Taroot", "tarot"},
		{"aroos", "aros"},
		{"ojotigre", "ojo de tigre"},
		{"CRISTALES", "cristale"},
		{"  Piedras ", "piedra"},
		{"collares", "collare"},
		{"Corazón", "corazon"},
		{"MEDALLÓNES", "medallone"},
		{"gas", "gas"},
		{"mas", "mas"},
		{"plata", "plata"},
		{"", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFold(t *testing.T) {
	if got := Fold("  Añil ÁRBOL  "); got != "anil arbol" {
		t.Errorf("Fold = %q", got)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"anillo plata", []string{"anillo", "plata"}},
		{"  Anillos  de   Plata ", []string{"anillo", "plata"}},
		{"las runas", []string{"runas"}},
		{"unas piedras con cristales", []string{"piedra", "cristale"}},
		{"de la", []string{}},
		{"", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			got := Tokenize(tc.query)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %#v, want %#v", tc.query, got, tc.want)
			}
		})
	}
}

func TestWords(t *testing.T) {
	got := Words("Anillo-Plata 925 (Corazón)")
	want := []string{"anillo", "plata", "925", "corazon"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %#v, want %#v", got, want)
	}
}

func TestIsStopword(t *testing.T) {
	for _, w := range []string{"de", "la", "los", "y", "con"} {
		if !IsStopword(w) {
			t.Errorf("%q should be a stopword", w)
		}
	}
	if IsStopword("plata") {
		t.Error("plata is not a stopword")
	}
}
