package hash

import "golang.org/x/crypto/bcrypt"

// Hasher produces salted bcrypt digests. Cost 0 falls back to
// bcrypt.DefaultCost.
type Hasher struct {
	Cost int
}

func (h Hasher) cost() int {
	if h.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

func (h Hasher) HashPassword(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// CheckPassword reports whether password matches hash. A malformed or
// corrupt hash counts as a failed verification, never an error.
func (h Hasher) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func HashPassword(password string) (string, error) {
	return Hasher{}.HashPassword(password)
}

func CheckPassword(hash, password string) bool {
	return Hasher{}.CheckPassword(hash, password)
}
