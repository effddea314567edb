package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupWindow = time.Hour

// DedupChecker remembers which heartbeats were already applied.
// Key format: dedup:machine:<machine_id>:<unix_seconds>
type DedupChecker struct {
	client *redis.Client
	window time.Duration
}

// NewDedupChecker keeps markers for window; a non-positive window means one hour.
func NewDedupChecker(client *redis.Client, window time.Duration) *DedupChecker {
	if window <= 0 {
		window = defaultDedupWindow
	}
	return &DedupChecker{client: client, window: window}
}

// IsDuplicate reports whether a heartbeat with this machine and second was
// already marked.
func (d *DedupChecker) IsDuplicate(ctx context.Context, machineID string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(machineID, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup lookup %s: %w", machineID, err)
	}
	return n == 1, nil
}

// Mark records the heartbeat. Markers expire after the dedup window.
func (d *DedupChecker) Mark(ctx context.Context, machineID string, ts time.Time) error {
	if err := d.client.SetNX(ctx, dedupKey(machineID, ts), ts.UTC().Format(time.RFC3339), d.window).Err(); err != nil {
		return fmt.Errorf("dedup mark %s: %w", machineID, err)
	}
	return nil
}

func dedupKey(machineID string, ts time.Time) string {
	return fmt.Sprintf("dedup:machine:%s:%d", machineID, ts.Unix())
}
