package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

func TestIssue_Format(t *testing.T) {
	att, err := Issue(domain.TokenKindAttendee)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(att, AttendeePrefix))
	assert.Len(t, att, len(AttendeePrefix)+32)
	assert.NotContains(t, att[len(AttendeePrefix):], "-")
	assert.Equal(t, strings.ToLower(att[len(AttendeePrefix):]), att[len(AttendeePrefix):])

	booth, err := Issue(domain.TokenKindBooth)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(booth, BoothPrefix))
	assert.Len(t, booth, len(BoothPrefix)+32)
}

func TestIssue_RejectsUnknownKind(t *testing.T) {
	_, err := Issue(domain.TokenKindNone)
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestIssue_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 2000)
	for i := 0; i < 1000; i++ {
		for _, kind := range []domain.TokenKind{domain.TokenKindAttendee, domain.TokenKindBooth} {
			tok, err := Issue(kind)
			require.NoError(t, err)
			_, dup := seen[tok]
			require.False(t, dup, "duplicate token %s", tok)
			seen[tok] = struct{}{}
		}
	}
}

func TestKindOf_RoundTripsIssuedKind(t *testing.T) {
	for _, kind := range []domain.TokenKind{domain.TokenKindAttendee, domain.TokenKindBooth} {
		for i := 0; i < 100; i++ {
			tok, err := Issue(kind)
			require.NoError(t, err)
			assert.Equal(t, kind, KindOf(tok))
		}
	}
}

func TestKindOf_Invalid(t *testing.T) {
	cases := []string{
		"",
		"garbage",
		"ATT_",
		"BOOTH_",
		"att_0123abcd",
		"ATT_0123ABCD",
		"ATT_0123-abcd",
		"BOOTH_xyz",
		"VIP_0123abcd",
	}
	for _, c := range cases {
		assert.Equal(t, domain.TokenKindNone, KindOf(c), "token %q", c)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ATT_ab12", Normalize("  ATT_ab12\r\n"))
}
