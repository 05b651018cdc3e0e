package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"

	"github.com/matchsquad/field-session-booking/internal/repository"
)

const (
	sessionCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	inviteCodeAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// codeMaxAttempts bounds the collision retry loop. Collisions are
	// astronomically rare at these lengths; repeated hits indicate
	// something is wrong and surface as repository.ErrCodeCollision
	// rather than looping forever.
	codeMaxAttempts = 5
)

// randomCode draws n characters from alphabet using crypto/rand.
func randomCode(alphabet string, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(n)
	for _, c := range buf {
		b.WriteByte(alphabet[int(c)%len(alphabet)])
	}
	return b.String(), nil
}

// NewSessionCode returns a public session identifier: 16 random
// lowercase alphanumeric characters grouped into four hyphenated
// blocks of four, e.g. "a3f9-0kx2-77qd-m1zp".
func NewSessionCode() (string, error) {
	raw, err := randomCode(sessionCodeAlphabet, 16)
	if err != nil {
		return "", err
	}
	return raw[0:4] + "-" + raw[4:8] + "-" + raw[8:12] + "-" + raw[12:16], nil
}

// NewInviteCode returns a shareable 6-character uppercase invite code.
func NewInviteCode() (string, error) {
	return randomCode(inviteCodeAlphabet, 6)
}

// uniqueCode draws codes from gen until taken reports one free, up to
// codeMaxAttempts draws. Exhausting the attempts yields
// repository.ErrCodeCollision.
func uniqueCode(gen func() (string, error), taken func(string) (bool, error)) (string, error) {
	for i := 0; i < codeMaxAttempts; i++ {
		code, err := gen()
		if err != nil {
			return "", err
		}
		exists, err := taken(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", repository.ErrCodeCollision
}

// uniqueSessionCode generates a session code that no existing row
// uses, checking inside the caller's transaction so the check and the
// subsequent insert share one snapshot.
func uniqueSessionCode(ctx context.Context, tx *sql.Tx, sessions *repository.SessionRepo) (string, error) {
	return uniqueCode(NewSessionCode, func(code string) (bool, error) {
		return sessions.SessionCodeExistsTx(ctx, tx, code)
	})
}

// uniqueInviteCode is the invite-code counterpart of uniqueSessionCode.
func uniqueInviteCode(ctx context.Context, tx *sql.Tx, sessions *repository.SessionRepo) (string, error) {
	return uniqueCode(NewInviteCode, func(code string) (bool, error) {
		return sessions.InviteCodeExistsTx(ctx, tx, code)
	})
}
