package pkg

import (
	"fmt"

	"github.com/google/uuid"
)

// shortIDLength matches the share-link friendly ids the bot hands out.
const shortIDLength = 8

// GenerateShortID returns a random identifier for sessions and tournaments.
func GenerateShortID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}

	return id.String()[:shortIDLength], nil
}
