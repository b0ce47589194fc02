package payments

import "testing"

func TestParseAmountMinor(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"79", 7900, false},
		{"79.9", 7990, false},
		{"79.90", 7990, false},
		{"0.01", 1, false},
		{"0", 0, false},
		{"199.00", 19900, false},
		{" 29.00 ", 2900, false},
		{"-5.50", -550, false},
		{"", 0, true},
		{"79.999", 0, true},
		{"abc", 0, true},
		{"12.3x", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseAmountMinor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmountMinor(%q) expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmountMinor(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmountMinor(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatAmountMinor(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{7900, "79.00"},
		{7990, "79.90"},
		{1, "0.01"},
		{0, "0.00"},
		{-550, "-5.50"},
	}
	for _, tt := range tests {
		if got := FormatAmountMinor(tt.in); got != tt.want {
			t.Errorf("FormatAmountMinor(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCommissionMinorTruncates(t *testing.T) {
	tests := []struct {
		amount int64
		want   int64
	}{
		{7900, 3950},
		{7901, 3950}, // odd agorot round toward zero
		{1, 0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := CommissionMinor(tt.amount); got != tt.want {
			t.Errorf("CommissionMinor(%d) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}
