// Package payfast verifies PayFast ITN (Instant Transaction Notification)
// callbacks and drives order payment settlement. This is a financial
// boundary: nothing here mutates an order unless every verification step
// passes, and every decision is logged for manual reconciliation.
package payfast

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Signature computes the PayFast parameter signature: non-empty parameters
// sorted by key, url-encoded with spaces as '+', joined with '&', the shared
// passphrase appended when configured, then MD5-hexed. The signature field
// itself is never part of the input.
// https://developers.payfast.co.za/docs#signature_generation
func Signature(params map[string]string, passphrase string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if key == "signature" || value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(encode(params[key]))
	}
	if passphrase != "" {
		b.WriteString("&passphrase=")
		b.WriteString(encode(passphrase))
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// VerifySignature recomputes the signature over params and compares it to
// the signature field they carry.
func VerifySignature(params map[string]string, passphrase string) bool {
	provided := params["signature"]
	if provided == "" {
		return false
	}
	return Signature(params, passphrase) == provided
}

// encode matches PHP urlencode: spaces become '+' and sub-delimiters like
// parentheses are percent-escaped. PayFast's reference implementation is
// PHP, so this is the encoding the gateway uses on its side of the
// signature; product names such as "Pumpkin Seeds (Pepitas)" sign
// consistently only under these rules.
func encode(s string) string {
	return url.QueryEscape(s)
}

// Validator posts a received notification back to PayFast for
// server-to-server confirmation. The exact raw bytes are replayed, not a
// re-encoding, so a spoofed client cannot craft a payload that only looks
// valid locally.
type Validator struct {
	URL    string
	Client *http.Client
}

func (v *Validator) Validate(ctx context.Context, rawBody []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.URL, bytes.NewReader(rawBody))
	if err != nil {
		return fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.Client.Do(req)
	if err != nil {
		return fmt.Errorf("validate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return fmt.Errorf("read validate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("validate returned status %d", resp.StatusCode)
	}
	if strings.TrimSpace(string(body)) != "VALID" {
		return fmt.Errorf("validate returned %q", strings.TrimSpace(string(body)))
	}

	return nil
}

// parseParams decodes a form-encoded ITN body into a flat map. PayFast sends
// each field once; repeated keys keep the first value.
func parseParams(rawBody []byte) (map[string]string, error) {
	values, err := url.ParseQuery(string(rawBody))
	if err != nil {
		return nil, fmt.Errorf("parse notification body: %w", err)
	}
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return params, nil
}
