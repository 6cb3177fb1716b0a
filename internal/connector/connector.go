package connector

import (
	"context"

	"github.com/crimson-sun/marktime/internal/model"
)

// Connector defines the interface all input sources must implement.
type Connector interface {
	// Query reads the whole input described by cfg into memory.
	Query(ctx context.Context, cfg ConnectorConfig) (model.Batch, error)
}

// ConnectorConfig holds source-specific settings.
type ConnectorConfig struct {
	Provider string
	Path     string
	Extra    map[string]string
}
