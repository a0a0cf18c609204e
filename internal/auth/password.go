package auth

import "golang.org/x/crypto/bcrypt"

const (
	// BcryptCost is the work factor for password hashes.
	BcryptCost = 10
	// MinPasswordLength is the shortest accepted plain password.
	MinPasswordLength = 6
)

// HashPassword returns a salted bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
