package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext credential for storage. Costs below the
// bcrypt default are raised to it so a misconfigured env value never
// weakens hashing.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.DefaultCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks a plaintext credential against its stored hash.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
