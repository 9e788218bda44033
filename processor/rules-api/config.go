package rulesapi

import (
	"fmt"
	"reflect"

	"github.com/c360studio/semstreams/component"

	"github.com/c360studio/semmap/storage"
)

// rulesAPISchema holds the configuration schema generated from Config.
var rulesAPISchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Config holds configuration for the rules-api component.
type Config struct {
	// Project is the document key used when a request names no project.
	Project string `json:"project" schema:"type:string,description:Default project key,category:basic,default:default"`

	// Prefixes extends the default CURIE prefix table.
	Prefixes map[string]string `json:"prefixes,omitempty" schema:"type:object,description:CURIE prefix to namespace map,category:basic"`

	// UseKV stores documents in the SEMMAP_RULES JetStream bucket when a
	// NATS client is available.
	UseKV bool `json:"use_kv" schema:"type:bool,description:Store rule documents in NATS KV,category:advanced,default:false"`

	// Ports declares optional HTTP port configuration.
	Ports *component.PortConfig `json:"ports,omitempty" schema:"type:ports,description:Port configuration,category:basic"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{Project: "default"}
}

// Validate verifies the configuration is consistent.
func (c *Config) Validate() error {
	if c.Project == "" {
		return nil
	}
	if err := storage.ValidateProject(c.Project); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	return nil
}
