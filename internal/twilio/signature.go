package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
)

// SignatureValidator checks the X-Twilio-Signature header on inbound
// webhooks. Twilio signs the full request URL concatenated with every POST
// parameter name and value in lexical order, HMAC-SHA1 keyed with the
// account auth token, base64 encoded.
type SignatureValidator struct {
	authToken string
}

// NewSignatureValidator creates a validator for the given auth token.
func NewSignatureValidator(authToken string) *SignatureValidator {
	return &SignatureValidator{authToken: authToken}
}

// Sign computes the expected signature for a request URL and its POST form.
func (v *SignatureValidator) Sign(requestURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mac := hmac.New(sha1.New, []byte(v.authToken))
	mac.Write([]byte(requestURL))
	for _, k := range keys {
		mac.Write([]byte(k))
		// Twilio signs only the first value of repeated parameters.
		mac.Write([]byte(form.Get(k)))
	}

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Validate reports whether the provided signature matches the request in
// constant time.
func (v *SignatureValidator) Validate(requestURL string, form url.Values, signature string) bool {
	expected := v.Sign(requestURL, form)
	return hmac.Equal([]byte(expected), []byte(signature))
}
