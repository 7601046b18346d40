package parse

import "testing"

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1234.56", 1234.56, false},
		{"1,234.56", 1234.56, false},
		{"2.345,6", 2345.6, false},
		{"1.234.567,89", 1234567.89, false},
		{"1,234,567.89", 1234567.89, false},
		{"1,234", 1234, false},
		{"1.234", 1234, false},
		{"0,5", 0.5, false},
		{"0.5", 0.5, false},
		{"12,5", 12.5, false},
		{"500", 500, false},
		{"-3,50", -3.5, false},
		{"", 0, true},
		{"foobar", 0, true},
		{"12a", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNumber(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in         string
		wantAmount float64
		wantUOM    string
		wantErr    bool
	}{
		{"1,234.56 g", 1234.56, "g", false},
		{"2.345,6 grams", 2345.6, "grams", false},
		{"500g", 500, "g", false},
		{"25 kg", 25, "kg", false},
		{"100 mL", 100, "mL", false},
		{"foobar", 0, "", true},
		{"", 0, "", true},
	}
	for _, tt := range tests {
		got, err := ParseQuantity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseQuantity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if got.Amount != tt.wantAmount || got.UOM != tt.wantUOM {
			t.Errorf("ParseQuantity(%q) = %+v, want {%v %s}", tt.in, got, tt.wantAmount, tt.wantUOM)
		}
	}
}

func TestNormalizeUOM(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"gram", "g", true},
		{"Grams", "g", true},
		{"g", "g", true},
		{"KILOGRAMS", "kg", true},
		{"kg", "kg", true},
		{"ml", "mL", true},
		{"Litres", "L", true},
		{"pcs", "ea", true},
		{"lbs.", "lb", true},
		{"furlong", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeUOM(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NormalizeUOM(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValidCAS(t *testing.T) {
	valid := []string{
		"7732-18-5", // water
		"64-17-5",   // ethanol
		"67-64-1",   // acetone
		"7647-01-0", // hydrochloric acid
		"1310-73-2", // sodium hydroxide
		"7664-93-9", // sulfuric acid
		"110-82-7",  // cyclohexane
		"121-44-8",  // triethylamine
	}
	for _, s := range valid {
		if !ValidCAS(s) {
			t.Errorf("ValidCAS(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"7732-18-4", // wrong check digit
		"64-17-6",   // wrong check digit
		"7732185",   // missing dashes
		"77-3218-5", // malformed groups
		"abc-de-f",
		"1-23-4", // first group too short
	}
	for _, s := range invalid {
		if ValidCAS(s) {
			t.Errorf("ValidCAS(%q) = true, want false", s)
		}
	}
}
