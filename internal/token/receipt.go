// Package token issues and verifies lead receipt tokens. A receipt token
// authorizes an assigned agent to view a single lead without a session: it
// is an HMAC-SHA256 over the lead ID, the agent ID, and the lead creation
// time, so the token is bound to one lead/agent pair and cannot be replayed
// against another record.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Receipt signs and verifies lead receipt tokens with a shared secret.
type Receipt struct {
	secret []byte
}

// NewReceipt returns a signer keyed by secret. The secret must be non-empty;
// configuration guarantees a fallback to the admin key.
func NewReceipt(secret string) *Receipt {
	return &Receipt{secret: []byte(secret)}
}

// payload binds the token to one lead/agent pair at one creation instant.
func payload(leadID, agentID string, createdAt time.Time) string {
	return fmt.Sprintf("%s:%s:%d", leadID, agentID, createdAt.UTC().Unix())
}

// Generate returns the hex token for a lead assigned to an agent.
func (r *Receipt) Generate(leadID, agentID string, createdAt time.Time) string {
	mac := hmac.New(sha256.New, r.secret)
	mac.Write([]byte(payload(leadID, agentID, createdAt)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the presented token matches the expected token for
// the lead/agent pair. Comparison is constant-time.
func (r *Receipt) Verify(presented, leadID, agentID string, createdAt time.Time) bool {
	expected := r.Generate(leadID, agentID, createdAt)
	return hmac.Equal([]byte(presented), []byte(expected))
}

// URL builds the shareable receipt link for an assigned lead.
func (r *Receipt) URL(baseURL, leadID, agentID string, createdAt time.Time) string {
	return fmt.Sprintf("%s/agent/lead/%s?token=%s", baseURL, leadID, r.Generate(leadID, agentID, createdAt))
}
