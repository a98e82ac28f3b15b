package password

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor. 10 keeps login latency reasonable
// while staying expensive enough against offline brute force.
const DefaultCost = 10

// Hash hashes a password using bcrypt (salt is embedded in the digest).
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a plaintext candidate with a stored digest. bcrypt's
// compare is constant-time on the digest.
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
