package database

import (
	"context"
	"time"
)

// HealthStatus is the result of CheckHealth.
type HealthStatus struct {
	Connected  bool          `json:"connected"`
	Error      string        `json:"error,omitempty"`
	Latency    time.Duration `json:"latency"`
	OpenConns  int           `json:"open_connections"`
	InUseConns int           `json:"in_use_connections"`
	IdleConns  int           `json:"idle_connections"`
}

// CheckHealth pings the server and reads pool statistics. It never opens
// a connection.
func (d *DB) CheckHealth(ctx context.Context) HealthStatus {
	start := time.Now()

	d.mu.RLock()
	gdb, lastErr := d.gormDB, d.lastOpenErr
	d.mu.RUnlock()

	if gdb == nil {
		msg := "connection not open"
		if lastErr != nil {
			msg = "open failed: " + lastErr.Error()
		}
		return HealthStatus{Error: msg, Latency: time.Since(start)}
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return HealthStatus{Error: err.Error(), Latency: time.Since(start)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return HealthStatus{Error: err.Error(), Latency: time.Since(start)}
	}

	stats := sqlDB.Stats()
	return HealthStatus{
		Connected:  true,
		Latency:    time.Since(start),
		OpenConns:  stats.OpenConnections,
		InUseConns: stats.InUse,
		IdleConns:  stats.Idle,
	}
}
