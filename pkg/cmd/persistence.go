package cmd

import (
	"fmt"
	"strings"

	"github.com/velden/nodion/pkg/persistence"
	"github.com/velden/nodion/pkg/persistence/file"
	"github.com/velden/nodion/pkg/persistence/redis"
)

// NewPersistence creates a persistence layer from a database URL. The scheme
// selects the backend: redis:// for Redis, anything else for the file store.
func NewPersistence(databaseURL string) persistence.Persistence {
	switch parsePersistenceProvider(databaseURL) {
	case "redis":
		p, err := redis.NewPersistence(databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create redis persistence: %w", err))
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
