// Package timeouts provides the deadlines used for backend calls.
//
// Every store call and media upload made by a handler is wrapped in a
// context bounded by one of these values:
//   - Ping: health checks
//   - Short: single-record reads and writes (identity lookup, login)
//   - Medium: searches and aggregate counts
//   - Upload: media uploads to the object store
//
// Values can be overridden at startup with Configure or ConfigureFromEnv.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultUpload = 60 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	upload = DefaultUpload
)

func Ping() time.Duration   { return get(&ping) }
func Short() time.Duration  { return get(&short) }
func Medium() time.Duration { return get(&medium) }
func Upload() time.Duration { return get(&upload) }

func get(v *time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return *v
}

// Config holds timeout overrides. Zero values keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Upload time.Duration
}

// Configure applies the non-zero values in cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, f := range cfg.fields() {
		if f.val > 0 {
			*f.dst = f.val
		}
	}
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, medium, upload = DefaultPing, DefaultShort, DefaultMedium, DefaultUpload
}

// ConfigureFromEnv reads <prefix>TIMEOUT_PING, _SHORT, _MEDIUM and _UPLOAD
// as Go durations ("5s", "750ms"). Unset or invalid values are skipped.
// It returns how many values were applied.
func ConfigureFromEnv(prefix string) int {
	mu.Lock()
	defer mu.Unlock()

	envs := map[string]*time.Duration{
		prefix + "TIMEOUT_PING":   &ping,
		prefix + "TIMEOUT_SHORT":  &short,
		prefix + "TIMEOUT_MEDIUM": &medium,
		prefix + "TIMEOUT_UPLOAD": &upload,
	}
	n := 0
	for name, dst := range envs {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			n++
		}
	}
	return n
}

// Current returns the active configuration, for startup logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Medium: medium, Upload: upload}
}

type field struct {
	dst *time.Duration
	val time.Duration
}

func (c Config) fields() []field {
	return []field{
		{&ping, c.Ping},
		{&short, c.Short},
		{&medium, c.Medium},
		{&upload, c.Upload},
	}
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was the reason the operation ended.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upload(), h.Log, "avatar upload")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
