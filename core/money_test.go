package core

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr error
	}{
		{name: "integer", in: "50", want: 50},
		{name: "decimal", in: "19.99", want: 19.99},
		{name: "whitespace trimmed", in: "  25.50 ", want: 25.5},
		{name: "rounded to cent", in: "10.005", want: 10.01},
		{name: "zero", in: "0", want: 0},
		{name: "empty", in: "", wantErr: ErrInvalidAmount},
		{name: "not a number", in: "ten", wantErr: ErrInvalidAmount},
		{name: "negative", in: "-5", wantErr: ErrInvalidAmount},
		{name: "NaN", in: "NaN", wantErr: ErrInvalidAmount},
		{name: "Inf", in: "+Inf", wantErr: ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if err != tt.wantErr {
				t.Fatalf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundPct(t *testing.T) {
	tests := []struct {
		name        string
		part, total float64
		want        int
	}{
		{name: "zero total", part: 50, total: 0, want: 0},
		{name: "exact", part: 70, total: 100, want: 70},
		{name: "rounded up", part: 1, total: 3, want: 33},
		{name: "rounded half up", part: 1, total: 8, want: 13},
		{name: "over 100 not capped", part: 75, total: 50, want: 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundPct(tt.part, tt.total); got != tt.want {
				t.Errorf("RoundPct(%v, %v) = %d, want %d", tt.part, tt.total, got, tt.want)
			}
		})
	}
}

func TestCappedPct(t *testing.T) {
	if got := CappedPct(75, 50); got != 100 {
		t.Errorf("CappedPct(75, 50) = %d, want 100", got)
	}
	if got := CappedPct(25, 50); got != 50 {
		t.Errorf("CappedPct(25, 50) = %d, want 50", got)
	}
	if got := CappedPct(25, 0); got != 0 {
		t.Errorf("CappedPct(25, 0) = %d, want 0", got)
	}
}
