package cms

import "golang.org/x/crypto/bcrypt"

// HashKey creates a bcrypt hash of a credential for storage.
// Used for the admin API credential.
func HashKey(key string) (string, error) {
	// Use bcrypt cost 12
	hash, err := bcrypt.GenerateFromPassword([]byte(key), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyKey checks if a credential matches a bcrypt hash.
func VerifyKey(key, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}
