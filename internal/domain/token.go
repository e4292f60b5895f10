package domain

type TokenKind string

const (
	TokenKindNone     TokenKind = ""
	TokenKindAttendee TokenKind = "attendee"
	TokenKindBooth    TokenKind = "booth"
)

// Verification is the outcome of resolving a scanned token. Exactly one of
// Attendee or Booth is set when Valid is true.
type Verification struct {
	Valid    bool
	Kind     TokenKind
	Attendee *Attendee
	Booth    *Booth
}

// Invalid is the verification result for an unrecognized token.
func Invalid() Verification {
	return Verification{Kind: TokenKindNone}
}
