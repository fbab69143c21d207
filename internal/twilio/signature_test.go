package twilio

import (
	"net/url"
	"testing"
)

func TestValidateAcceptsOwnSignature(t *testing.T) {
	v := NewSignatureValidator("test-auth-token")
	form := url.Values{}
	form.Set("From", "whatsapp:+971501234567")
	form.Set("Body", "/status 1")
	form.Set("NumMedia", "0")

	sig := v.Sign("https://bot.example.com/webhook/whatsapp", form)
	if sig == "" {
		t.Fatalf("expected non-empty signature")
	}
	if !v.Validate("https://bot.example.com/webhook/whatsapp", form, sig) {
		t.Fatalf("expected signature to validate")
	}
}

func TestValidateRejectsTamperedBody(t *testing.T) {
	v := NewSignatureValidator("test-auth-token")
	form := url.Values{}
	form.Set("From", "whatsapp:+971501234567")
	form.Set("Body", "/status 1")

	sig := v.Sign("https://bot.example.com/webhook/whatsapp", form)

	form.Set("Body", "/done 1")
	if v.Validate("https://bot.example.com/webhook/whatsapp", form, sig) {
		t.Fatalf("expected tampered form to be rejected")
	}
}

func TestValidateRejectsWrongURL(t *testing.T) {
	v := NewSignatureValidator("test-auth-token")
	form := url.Values{}
	form.Set("From", "whatsapp:+971501234567")

	sig := v.Sign("https://bot.example.com/webhook/whatsapp", form)
	if v.Validate("https://attacker.example.com/webhook/whatsapp", form, sig) {
		t.Fatalf("expected mismatched URL to be rejected")
	}
}

func TestValidateRejectsWrongToken(t *testing.T) {
	form := url.Values{}
	form.Set("From", "whatsapp:+971501234567")

	sig := NewSignatureValidator("token-a").Sign("https://bot.example.com/webhook/whatsapp", form)
	if NewSignatureValidator("token-b").Validate("https://bot.example.com/webhook/whatsapp", form, sig) {
		t.Fatalf("expected signature keyed with another token to be rejected")
	}
}

func TestSignIsParameterOrderIndependent(t *testing.T) {
	v := NewSignatureValidator("test-auth-token")

	a := url.Values{}
	a.Set("Body", "/status 1")
	a.Set("From", "whatsapp:+971501234567")

	b := url.Values{}
	b.Set("From", "whatsapp:+971501234567")
	b.Set("Body", "/status 1")

	if v.Sign("https://bot.example.com/webhook/whatsapp", a) != v.Sign("https://bot.example.com/webhook/whatsapp", b) {
		t.Fatalf("expected signing to be independent of parameter insertion order")
	}
}
