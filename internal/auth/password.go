package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces salted bcrypt digests for login passwords and
// security-question answers. The cost is fixed at construction time.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether secret matches digest. bcrypt's comparison is
// constant-time; a mismatch is a normal negative result, not an error.
func (h *PasswordHasher) Verify(digest, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}

// NormalizeAnswer canonicalizes a security answer before hashing or
// verification: lowercase, trimmed, with internal whitespace runs collapsed
// to a single space. "  Rex " and "rex" are the same answer.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.Join(strings.Fields(answer), " "))
}
