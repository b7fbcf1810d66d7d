package i18n

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		tag  string
		want Locale
	}{
		{tag: "", want: Default},
		{tag: "pt-BR", want: BrazilianPortuguese},
		{tag: "pt", want: BrazilianPortuguese},
		{tag: "en-US", want: English},
		{tag: "en-GB", want: English},
		{tag: "it-IT", want: Italian},
		{tag: "not a tag!", want: Default},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := Lookup(tt.tag); got.Tag != tt.want.Tag {
				t.Errorf("Lookup(%q) = %v, want %v", tt.tag, got.Tag, tt.want.Tag)
			}
		})
	}
}

func TestLocale_Bool(t *testing.T) {
	if got := BrazilianPortuguese.Bool(true); got != "Sim" {
		t.Errorf("Bool(true) = %q, want Sim", got)
	}
	if got := BrazilianPortuguese.Bool(false); got != "Não" {
		t.Errorf("Bool(false) = %q, want Não", got)
	}
	if !(Locale{}).IsZero() || Default.IsZero() {
		t.Error("IsZero misreports")
	}
}
