package payments

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"
)

func TestSignMatchesContract(t *testing.T) {
	body := []byte(`{"order_id":"abc-123","status":"paid"}`)
	secret := "s3cret"

	encoded := base64.StdEncoding.EncodeToString(body)
	sum := md5.Sum([]byte(encoded + secret))
	want := hex.EncodeToString(sum[:])

	if got := Sign(body, secret); got != want {
		t.Fatalf("Sign() = %s, want %s", got, want)
	}
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"order_id":"abc-123"}`)
	secret := "s3cret"
	valid := Sign(body, secret)

	tests := []struct {
		name   string
		header string
		secret string
		want   bool
	}{
		{"valid", valid, secret, true},
		{"valid uppercase header", strings.ToUpper(valid), secret, true},
		{"valid with whitespace", "  " + valid + "  ", secret, true},
		{"wrong secret", valid, "other", false},
		{"tampered header", valid[:len(valid)-1] + "0", secret, false},
		{"empty header", "", secret, false},
		{"empty secret", valid, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySignature(body, tt.header, tt.secret); got != tt.want {
				t.Errorf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	body := []byte(`{"amount":"79.00"}`)
	secret := "s3cret"
	sig := Sign(body, secret)

	tampered := []byte(`{"amount":"790.00"}`)
	if VerifySignature(tampered, sig, secret) {
		t.Fatal("signature over the original body must not verify a modified body")
	}
}
