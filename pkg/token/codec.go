package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Purpose scopes a capability token to a single intent. A token issued for
// one purpose must never be accepted for another.
type Purpose string

const (
	PurposeProposeReschedule Purpose = "propose-reschedule"
	PurposeDecideReschedule  Purpose = "decide-reschedule"
)

var (
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
)

// Payload is the typed content of a capability token. The raw token is
// never persisted; only its SHA-256 hash is (see the magiclink ledger).
type Payload struct {
	SubjectUID    string     `json:"subject_uid"`
	BookingID     string     `json:"booking_id"`
	ProposalID    string     `json:"proposal_id,omitempty"`
	ProposedStart *time.Time `json:"proposed_start,omitempty"`
	ProposedEnd   *time.Time `json:"proposed_end,omitempty"`
	ActorEmail    string     `json:"actor_email"`
	ActorRole     string     `json:"actor_role"`
	Purpose       Purpose    `json:"purpose"`
	ExpiresAt     int64      `json:"exp"`
	Nonce         string     `json:"nonce"`
}

// Codec signs and verifies capability tokens. Wire format:
// base64url(JSON(payload)) + "." + hex(HMAC-SHA256(secret, base64url(JSON(payload)))).
// Verification is purely cryptographic; single-use enforcement is layered on
// top by the magic-link ledger.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// NewCodecWithClock is used by tests that need a fixed clock.
func NewCodecWithClock(secret string, now func() time.Time) *Codec {
	return &Codec{
		secret: []byte(secret),
		now:    now,
	}
}

// Sign serializes the payload and appends an HMAC digest. A fresh random
// nonce and a default expiry are filled in if the caller left them empty.
func (c *Codec) Sign(payload Payload, defaultTTL time.Duration) (string, error) {
	if payload.Nonce == "" {
		nonce := make([]byte, 16)
		if _, err := rand.Read(nonce); err != nil {
			return "", err
		}
		payload.Nonce = hex.EncodeToString(nonce)
	}
	if payload.ExpiresAt == 0 {
		payload.ExpiresAt = c.now().Add(defaultTTL).Unix()
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + c.digest(encoded), nil
}

// Verify checks the signature (constant-time) and expiry, returning the
// decoded payload. It does not consult the ledger; callers needing
// single-use semantics check the ledger separately.
func (c *Codec) Verify(tok string) (*Payload, error) {
	encoded, signature, ok := strings.Cut(tok, ".")
	if !ok || encoded == "" || signature == "" {
		return nil, ErrMalformed
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return nil, ErrMalformed
	}

	expected, err := hex.DecodeString(c.digest(encoded))
	if err != nil {
		return nil, ErrMalformed
	}
	if !hmac.Equal(provided, expected) {
		return nil, ErrInvalidSignature
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformed
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrMalformed
	}

	if payload.ExpiresAt < c.now().Unix() {
		return nil, ErrExpired
	}

	return &payload, nil
}

func (c *Codec) digest(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return hex.EncodeToString(mac.Sum(nil))
}

// Hash returns the SHA-256 hex digest of a raw token, the form under which
// tokens are tracked in the ledger.
func Hash(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}
