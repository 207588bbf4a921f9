package coordinator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rzava/streamd/internal/logger"
	"github.com/rzava/streamd/pkg/datastream"
)

// Config contains local coordinator configuration.
type Config struct {
	// Connectors lists the connector types this instance accepts, e.g.
	// ["kafka", "file"]. Streams naming an unregistered connector are
	// rejected during initialization.
	Connectors []string `mapstructure:"connectors" yaml:"connectors"`

	// DestinationScheme is the URI scheme used for assigned destinations.
	DestinationScheme string `mapstructure:"destination_scheme" yaml:"destination_scheme"`

	// DefaultPartitions is the partition count for assigned destinations
	// when the source does not specify one.
	DefaultPartitions int `mapstructure:"default_partitions" yaml:"default_partitions"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.DestinationScheme == "" {
		c.DestinationScheme = "kafka"
	}
	if c.DefaultPartitions == 0 {
		c.DefaultPartitions = 1
	}
}

// Local is an in-process coordinator client. It resolves the datastream's
// connector from a registry, delegates connector-specific validation, and
// assigns a destination unless the client manages its own.
type Local struct {
	cfg Config

	mu         sync.RWMutex
	connectors map[string]Connector
}

// NewLocal creates a local coordinator. Connector types listed in the config
// start out registered with a pass-through connector; RegisterConnector
// replaces them with real implementations.
func NewLocal(cfg Config) *Local {
	cfg.ApplyDefaults()
	c := &Local{
		cfg:        cfg,
		connectors: make(map[string]Connector),
	}
	for _, name := range cfg.Connectors {
		c.connectors[name] = passthroughConnector{}
	}
	return c
}

// RegisterConnector registers or replaces the connector for a type.
func (c *Local) RegisterConnector(name string, conn Connector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectors[name] = conn
}

// ConnectorTypes returns the registered connector types, sorted.
func (c *Local) ConnectorTypes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.connectors))
	for name := range c.connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Initialize implements Client.
func (c *Local) Initialize(ctx context.Context, ds *datastream.Datastream) error {
	c.mu.RLock()
	conn, ok := c.connectors[ds.ConnectorName]
	c.mu.RUnlock()
	if !ok {
		return NewValidationError(ds.ConnectorName, "unknown connector type")
	}

	if err := conn.InitializeDatastream(ctx, ds); err != nil {
		return err
	}

	if !ds.HasUserManagedDestination() {
		c.assignDestination(ds)
	}
	ds.StampCreation(time.Now())

	logger.Debug("datastream initialized",
		"datastream", ds.Name,
		"connector", ds.ConnectorName,
		"destination", ds.Destination.ConnectionString,
	)
	return nil
}

// assignDestination populates the destination with a generated topic-style
// connection string. The uuid suffix keeps re-created streams from colliding
// with topics left behind by deleted ones.
func (c *Local) assignDestination(ds *datastream.Datastream) {
	partitions := c.cfg.DefaultPartitions
	if ds.Source != nil && ds.Source.Partitions > 0 {
		partitions = ds.Source.Partitions
	}
	ds.Destination = &datastream.Destination{
		ConnectionString: fmt.Sprintf("%s://%s-%s", c.cfg.DestinationScheme, ds.Name, uuid.New().String()),
		Partitions:       partitions,
	}
}

// passthroughConnector accepts any source. It stands in for connector types
// that are configured but have no dedicated implementation registered.
type passthroughConnector struct{}

func (passthroughConnector) InitializeDatastream(ctx context.Context, ds *datastream.Datastream) error {
	if ds.Source == nil || ds.Source.ConnectionString == "" {
		return NewValidationError(ds.ConnectorName, "source connection string is required")
	}
	return nil
}
