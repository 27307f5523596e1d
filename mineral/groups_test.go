package mineral

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Base Metals", "base metals"},
		{"  BASE   METALS  ", "base metals"},
		{"Base Metals&Precious Metals", "base metals & precious metals"},
		{"Base ,Precious,Dimension&Industrial", "base, precious, dimension & industrial"},
		{"Semi - Precious", "semi-precious"},
		{"\tFossil\nFuels", "fossil fuels"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStandard(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{"exact", "Precious Metals", "Precious Metals", true},
		{"case and spacing", "base metals &precious metals", "Base Metals & Precious Metals", true},
		{"exact beats earlier partial", "Base Metals & Precious Metals", "Base Metals & Precious Metals", true},
		{"input contains group", "Nuclear Fuels (Uranium)", "Nuclear Fuels", true},
		{"group contains input", "Industrial", "Base, Precious, Dimension & Industrial", true},
		{"first partial in legend order", "metals", "Base Metals", true},
		{"no match", "Groundwater", "", false},
		{"blank", "   ", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Standard(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Standard(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsGroup(t *testing.T) {
	if !IsGroup("fossil  fuels") {
		t.Error("IsGroup(fossil  fuels) = false")
	}
	if IsGroup("fossil") {
		t.Error("IsGroup(fossil) = true")
	}
}
