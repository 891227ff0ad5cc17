package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func samplePayload() Payload {
	return Payload{
		SubjectUID: "uid-booking-1",
		BookingID:  "booking-1",
		ActorEmail: "guest@example.com",
		ActorRole:  "guest",
		Purpose:    PurposeDecideReschedule,
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")

	tok, err := codec.Sign(samplePayload(), time.Hour)
	require.NoError(t, err)

	got, err := codec.Verify(tok)
	require.NoError(t, err)

	assert.Equal(t, "uid-booking-1", got.SubjectUID)
	assert.Equal(t, "booking-1", got.BookingID)
	assert.Equal(t, "guest@example.com", got.ActorEmail)
	assert.Equal(t, PurposeDecideReschedule, got.Purpose)

	// sign fills in nonce and expiry
	assert.GreaterOrEqual(t, len(got.Nonce), 16)
	assert.Greater(t, got.ExpiresAt, time.Now().Unix())
}

func TestSignGeneratesFreshNonce(t *testing.T) {
	codec := NewCodec("test-secret")

	first, err := codec.Sign(samplePayload(), time.Hour)
	require.NoError(t, err)
	second, err := codec.Sign(samplePayload(), time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	codec := NewCodec("test-secret")

	tok, err := codec.Sign(samplePayload(), time.Hour)
	require.NoError(t, err)

	encoded, signature, ok := strings.Cut(tok, ".")
	require.True(t, ok)

	// flip one hex digit of the signature
	sig := []byte(signature)
	if sig[0] == 'a' {
		sig[0] = 'b'
	} else {
		sig[0] = 'a'
	}

	_, err = codec.Verify(encoded + "." + string(sig))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	codec := NewCodec("test-secret")

	tok, err := codec.Sign(samplePayload(), time.Hour)
	require.NoError(t, err)

	encoded, signature, ok := strings.Cut(tok, ".")
	require.True(t, ok)

	tampered := "x" + encoded[1:]
	_, err = codec.Verify(tampered + "." + signature)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := NewCodec("secret-a").Sign(samplePayload(), time.Hour)
	require.NoError(t, err)

	_, err = NewCodec("secret-b").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyMalformed(t *testing.T) {
	codec := NewCodec("test-secret")

	for _, tok := range []string{
		"",
		"no-separator",
		".missing-payload",
		"missing-signature.",
		"not-base64!!!.aabb",
	} {
		_, err := codec.Verify(tok)
		assert.ErrorIs(t, err, ErrMalformed, "token %q", tok)
	}
}

func TestVerifyExpired(t *testing.T) {
	codec := NewCodec("test-secret")

	payload := samplePayload()
	payload.ExpiresAt = time.Now().Add(-time.Second).Unix()

	tok, err := codec.Sign(payload, time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestExpiryUsesInjectedClock(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	codec := NewCodecWithClock("test-secret", fixedClock(issuedAt))

	tok, err := codec.Sign(samplePayload(), time.Hour)
	require.NoError(t, err)

	// still valid just before expiry
	codec.now = fixedClock(issuedAt.Add(59 * time.Minute))
	_, err = codec.Verify(tok)
	require.NoError(t, err)

	// invalid after expiry
	codec.now = fixedClock(issuedAt.Add(2 * time.Hour))
	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestHashIsStable(t *testing.T) {
	assert.Equal(t, Hash("abc"), Hash("abc"))
	assert.NotEqual(t, Hash("abc"), Hash("abd"))
	assert.Len(t, Hash("abc"), 64)
}
