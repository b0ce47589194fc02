package mail

import "testing"

func TestWhatsAppLink(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		text  string
		want  string
	}{
		{"local number gets country prefix", "0501234567", "", "https://wa.me/972501234567"},
		{"formatted number", "050-123-4567", "", "https://wa.me/972501234567"},
		{"already international", "972501234567", "", "https://wa.me/972501234567"},
		{"with message", "0501234567", "hi there", "https://wa.me/972501234567?text=hi+there"},
		{"empty phone", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WhatsAppLink(tt.phone, tt.text); got != tt.want {
				t.Errorf("WhatsAppLink(%q, %q) = %q, want %q", tt.phone, tt.text, got, tt.want)
			}
		})
	}
}
