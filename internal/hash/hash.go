// Package hash provides one-way password hashing for stored credentials.
package hash

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt cost used in production.
const DefaultCost = bcrypt.DefaultCost

// Hasher turns a plaintext secret into a storable digest. Implementations
// must salt per call, so hashing the same plaintext twice yields different
// digests that both verify against the original.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(digest, plaintext string) bool
}

// Bcrypt hashes passwords with the bcrypt algorithm at a configurable cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a Bcrypt hasher. A cost outside bcrypt's supported range
// falls back to the library default.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (b *Bcrypt) Verify(digest, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

var _ Hasher = (*Bcrypt)(nil)
