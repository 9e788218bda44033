package rulesapi

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// RegistryInterface defines the minimal interface required for registration.
type RegistryInterface interface {
	RegisterWithConfig(component.RegistrationConfig) error
}

// Register registers the rules-api component with the given registry.
func Register(registry RegistryInterface) error {
	if registry == nil {
		return fmt.Errorf("registry cannot be nil")
	}
	return registry.RegisterWithConfig(component.RegistrationConfig{
		Name:        "rules-api",
		Factory:     NewComponent,
		Schema:      rulesAPISchema,
		Type:        "processor",
		Protocol:    "http",
		Domain:      "semmap",
		Description: "HTTP and NATS endpoints for storing transform rule documents",
		Version:     "0.1.0",
	})
}
