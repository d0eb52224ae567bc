// Package camera owns the capture device and publishes the most recent
// frame for the gesture and vision features.
package camera

import (
	"context"
	"log"
	"sync"
	"time"
)

// Source reads one frame from a capture device.
type Source interface {
	ReadFrame(ctx context.Context) ([]byte, error)
	Close() error
}

// Cache is a single-slot latest-frame store. A new frame overwrites the
// old one; consumers only ever see the most recent frame, never a queue
// of stale ones.
type Cache struct {
	mu    sync.RWMutex
	frame []byte
	seq   uint64
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) Publish(frame []byte) {
	if len(frame) == 0 {
		return
	}
	own := make([]byte, len(frame))
	copy(own, frame)

	c.mu.Lock()
	c.frame = own
	c.seq++
	c.mu.Unlock()
}

// Latest returns a copy of the newest frame and its sequence number.
// The sequence lets consumers skip frames they have already processed.
func (c *Cache) Latest() ([]byte, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.frame == nil {
		return nil, 0, false
	}
	out := make([]byte, len(c.frame))
	copy(out, c.frame)
	return out, c.seq, true
}

// Poller reads the source on a fixed cadence and feeds the cache. The
// loop touches only the device and the cache; it must never block on
// network I/O.
type Poller struct {
	source   Source
	cache    *Cache
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewPoller(source Source, cache *Cache, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	return &Poller{
		source:   source,
		cache:    cache,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (p *Poller) Start(ctx context.Context) {
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				frame, err := p.source.ReadFrame(ctx)
				if err != nil {
					log.Printf("camera: frame read failed: %v", err)
					continue
				}
				p.cache.Publish(frame)
			}
		}
	}()
}

func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}
