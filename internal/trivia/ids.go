package trivia

import (
	"crypto/rand"
	"strings"

	"github.com/google/uuid"
)

// NewRoomCode draws a RoomCodeLength string from RoomCodeAlphabet using
// crypto/rand, the same confusion-safe alphabet and rejection-sampling
// idiom the teacher uses for its game IDs (celebrity.go randomGameID),
// trimmed to the 5-character length this spec requires.
func NewRoomCode() string {
	const n = RoomCodeLength
	alphabet := RoomCodeAlphabet
	max := byte(256 - (256 % len(alphabet)))

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)

	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		for _, b := range buf {
			if b < max {
				out = append(out, alphabet[int(b)%len(alphabet)])
				if len(out) == n {
					return string(out)
				}
			}
		}
	}
	return string(out)
}

// ValidateRoomCode reports whether code has the right length and is drawn
// entirely from RoomCodeAlphabet, so callers can reject a malformed code
// before even attempting a registry lookup (§7 "Validation" errors).
func ValidateRoomCode(code string) error {
	if len(code) != RoomCodeLength {
		return ErrInvalidCode
	}
	for _, c := range code {
		if !strings.ContainsRune(RoomCodeAlphabet, c) {
			return ErrInvalidCode
		}
	}
	return nil
}

// NewPlayerID returns a stable, opaque 12-character player identifier.
func NewPlayerID() string {
	return shortID()
}

// NewQuestionInstanceID disambiguates repeated uses of the same catalogue
// question within a room (e.g. across reconnects or timer races).
func NewQuestionInstanceID() string {
	return shortID()
}

// NewHostToken returns an opaque secret required to authorize host
// operations. Not derived from anything player-visible.
func NewHostToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func shortID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:12]
}
