package endpoints

import (
	"github.com/AbhinavPrakashCoading/dockit/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Extraction endpoints
		&ExtractSchemaEndpoint{},
		&GenerateSchemaEndpoint{},
	}
}
