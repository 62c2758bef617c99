package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed accessor (http, mysql, redis).
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start opens the underlying connection or client.
	Start(ctx context.Context) error

	// Stop releases the underlying connection or client.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description is a one-line self-report of an accessor, e.g.
// {Name: "Redis", Type: "redis", Details: "localhost:6380 db=0 lazy-auth"}.
type Description struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// Describable is optionally implemented by Components to report how they
// are configured.
type Describable interface {
	Describe() Description
}
