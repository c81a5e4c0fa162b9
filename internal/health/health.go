// Package health reports whether the catalog table and the buckets are reachable.
package health

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/tanya-writes/showcase-portal/internal/api"
	"github.com/tanya-writes/showcase-portal/internal/ddb"

	"golang.org/x/sync/errgroup"
)

// Service states.
const (
	Healthy  = "healthy"
	Degraded = "degraded"
	Error    = "error"
	Unknown  = "unknown"
)

// Probe is a dependency that can report readiness.
type Probe interface {
	IsReady(ctx context.Context) error
	Name() string
}

// Checker probes the database and storage concurrently.
type Checker struct {
	Database    Probe
	Storage     Probe
	Version     string
	Environment string
	// Timeout bounds each probe; 0 means 5s.
	Timeout time.Duration
	now     func() time.Time
}

// Check runs both probes and returns the report with its HTTP status: 200
// when everything is healthy, 503 otherwise.
func (c *Checker) Check(ctx context.Context) (api.HealthResponse, int) {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	resp := api.HealthResponse{
		Status:    Healthy,
		Timestamp: ddb.FormatISO(now()),
		Services: api.HealthServices{
			API:      Healthy,
			Database: Unknown,
			Storage:  Unknown,
		},
		Version:     c.Version,
		Environment: c.Environment,
	}

	var g errgroup.Group
	probe := func(p Probe, out *string) {
		if p == nil {
			return
		}
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			if err := p.IsReady(pctx); err != nil {
				log.Printf("health: %s: %v", p.Name(), err)
				*out = Error
				return nil
			}
			*out = Healthy
			return nil
		})
	}
	probe(c.Database, &resp.Services.Database)
	probe(c.Storage, &resp.Services.Storage)
	_ = g.Wait()

	if resp.Services.Database != Healthy || resp.Services.Storage != Healthy {
		resp.Status = Degraded
		return resp, http.StatusServiceUnavailable
	}
	return resp, http.StatusOK
}
