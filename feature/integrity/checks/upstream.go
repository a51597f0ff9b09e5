package checks

import (
	"context"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"
)

// Pinger issues a single request to a provider.
type Pinger interface {
	Ping(ctx context.Context, provider string) error
}

// ProviderStatus is the reachability of one provider.
type ProviderStatus struct {
	Provider  string `json:"provider"`
	Reachable bool   `json:"reachable"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// CheckUpstream pings every provider concurrently. Results follow the order of providers.
func CheckUpstream(ctx context.Context, pinger Pinger, providers []string, clk clock.PassiveClock) []ProviderStatus {
	results := make([]ProviderStatus, len(providers))

	var g errgroup.Group
	for i, provider := range providers {
		g.Go(func() error {
			start := clk.Now()
			err := pinger.Ping(ctx, provider)
			results[i] = ProviderStatus{
				Provider:  provider,
				Reachable: err == nil,
				LatencyMs: clk.Since(start).Milliseconds(),
			}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
