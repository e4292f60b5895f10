// Package token issues and classifies the opaque QR tokens carried by
// attendees and booths.
//
// A token is a kind prefix followed by the 32 lowercase hex digits of a
// random (version 4) UUID, for example ATT_9f1c0e6b2d0a4f8e9c3b7a1d5e2f4c6b.
package token

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/foylaou/ExpoPass-sub000/internal/domain"
)

const (
	AttendeePrefix = "ATT_"
	BoothPrefix    = "BOOTH_"
)

// Prefix returns the prefix for kind, or an empty string for unknown kinds.
func Prefix(kind domain.TokenKind) string {
	switch kind {
	case domain.TokenKindAttendee:
		return AttendeePrefix
	case domain.TokenKindBooth:
		return BoothPrefix
	}
	return ""
}

// Issue returns a fresh token for kind. Persistence and the storage-level
// uniqueness check are the caller's job.
func Issue(kind domain.TokenKind) (string, error) {
	prefix := Prefix(kind)
	if prefix == "" {
		return "", domain.ErrInvalidKind
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return prefix + hex.EncodeToString(id[:]), nil
}

// Normalize strips the whitespace and line endings scanners tend to append.
func Normalize(raw string) string {
	return strings.TrimSpace(raw)
}

// KindOf classifies a normalized token by its prefix. It returns
// TokenKindNone when the prefix is unknown or the body is not lowercase hex.
func KindOf(tok string) domain.TokenKind {
	switch {
	case strings.HasPrefix(tok, AttendeePrefix):
		if validBody(tok[len(AttendeePrefix):]) {
			return domain.TokenKindAttendee
		}
	case strings.HasPrefix(tok, BoothPrefix):
		if validBody(tok[len(BoothPrefix):]) {
			return domain.TokenKindBooth
		}
	}
	return domain.TokenKindNone
}

func validBody(body string) bool {
	if body == "" {
		return false
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
