package common

import (
	"crypto/sha256"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

// GetClientIdentifier returns a UUID that uniquely identifies this system.
// The machine id is hashed with the product name so it is never sent raw.
func GetClientIdentifier() string {
	id, err := machineid.ID()
	if err != nil {
		// Fallback to a random ephemeral UUID if machine ID cannot be obtained
		return uuid.New().String()
	}

	hash := sha256.Sum256([]byte(ProductName + ":" + id))
	return uuid.UUID(hash[:16]).String()
}
