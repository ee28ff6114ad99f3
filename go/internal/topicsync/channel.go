// Package topicsync unifies a push subscription and a polling fallback into
// one update stream per topic. Every update, whichever source it arrived
// from, is folded on a single goroutine so no two handlers ever race on the
// same state.
package topicsync

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/bidforhope/livesync/go/internal/push"
)

// Config holds per-topic channel configuration. Poll cadence varies with
// topic criticality: 1-2s for live auction state, up to 30s for slow-moving
// admin lists.
type Config struct {
	Topic        string
	PollInterval time.Duration

	// WarnAfterOutages is how many consecutive degraded poll cycles (push
	// down) pass silently before the soft warning fires. Zero means never.
	WarnAfterOutages int
}

// PollFunc fetches the topic's snapshot and folds it into local state. A
// returned error leaves previous state in place; the channel retries on the
// next tick.
type PollFunc func(ctx context.Context) error

// EventFunc folds one push event into local state. It runs on the channel's
// fold goroutine, never concurrently with PollFunc.
type EventFunc func(ctx context.Context, event push.Event)

// Stats is a point-in-time snapshot of channel health for diagnostics.
type Stats struct {
	Topic         string    `json:"topic"`
	PushConnected bool      `json:"pushConnected"`
	LastPollAt    time.Time `json:"lastPollAt"`
	LastEventAt   time.Time `json:"lastEventAt"`
	EventsSeen    int       `json:"eventsSeen"`
	EventsDropped int       `json:"eventsDropped"` // duplicates discarded
	PollFailures  int       `json:"pollFailures"`
	Degraded      bool      `json:"degraded"`
}

// Channel is one topic's sync loop. Create with New, run with Start; the
// channel owns its ticker and push subscription and releases both on stop.
type Channel struct {
	config    Config
	clock     clockwork.Clock
	transport push.Transport
	poll      PollFunc
	onEvent   EventFunc

	// OnDegraded, when set, receives a soft warning the first time push
	// stays down for WarnAfterOutages consecutive polls, and a recovery
	// notice when it comes back. Never a fatal error: polling keeps the
	// view correct, just slower.
	OnDegraded func(degraded bool)

	eventCh chan push.Event
	seen    *seenSet

	mu      sync.Mutex
	stats   Stats
	started bool
	stop    context.CancelFunc
	done    chan struct{}
}

// New creates a sync channel. transport may be nil, leaving polling as the
// only source (push-less degraded mode from the start). onEvent may be nil
// for topics where every push is merely a poll trigger.
func New(config Config, transport push.Transport, clock clockwork.Clock, poll PollFunc, onEvent EventFunc) *Channel {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Channel{
		config:    config,
		clock:     clock,
		transport: transport,
		poll:      poll,
		onEvent:   onEvent,
		eventCh:   make(chan push.Event, 64),
		seen:      newSeenSet(256),
		stats:     Stats{Topic: config.Topic},
		done:      make(chan struct{}),
	}
}

// Start subscribes to the push topic and begins the poll loop: one immediate
// poll, then the fixed cadence. It returns after the loop is running; the
// loop itself stops when ctx is cancelled or Stop is called.
func (c *Channel) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	ctx, c.stop = context.WithCancel(ctx)
	c.mu.Unlock()

	var unsubscribe func()
	if c.transport != nil {
		unsub, err := c.transport.Subscribe(c.config.Topic, func(event push.Event) {
			select {
			case c.eventCh <- event:
			default:
				// Fold loop is behind; the next poll re-fetches anyway.
				log.Warn().Str("topic", c.config.Topic).Msg("sync channel event buffer full, dropping push event")
			}
		})
		if err != nil {
			// Degraded from the start; polling still provides a correct view.
			log.Warn().Err(err).Str("topic", c.config.Topic).Msg("push subscribe failed, polling only")
		} else {
			unsubscribe = unsub
		}
	}

	go c.run(ctx, unsubscribe)
}

// Stop tears the channel down and blocks until the fold loop has exited.
// Safe to call more than once.
func (c *Channel) Stop() {
	c.mu.Lock()
	stop := c.stop
	started := c.started
	c.mu.Unlock()
	if !started {
		return
	}
	stop()
	<-c.done
}

// Stats returns a snapshot of channel health.
func (c *Channel) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.PushConnected = c.transport != nil && c.transport.Connected()
	return s
}

// run is the fold loop: the only goroutine that executes poll and onEvent.
func (c *Channel) run(ctx context.Context, unsubscribe func()) {
	defer close(c.done)

	// Both teardown paths must complete even if one misbehaves.
	ticker := c.clock.NewTicker(c.config.PollInterval)
	defer ticker.Stop()
	if unsubscribe != nil {
		defer unsubscribe()
	}

	log.Info().
		Str("topic", c.config.Topic).
		Dur("poll_interval", c.config.PollInterval).
		Msg("sync channel started")

	c.doPoll(ctx)
	outages := 0
	warned := false

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("topic", c.config.Topic).Msg("sync channel stopped")
			return

		case event := <-c.eventCh:
			if !c.seen.Add(event.ID) {
				c.bump(func(s *Stats) { s.EventsDropped++ })
				continue
			}
			c.bump(func(s *Stats) {
				s.EventsSeen++
				s.LastEventAt = c.clock.Now()
			})
			if c.onEvent != nil {
				c.onEvent(ctx, event)
			} else {
				// Signal-only topic: the event just means "re-fetch".
				c.doPoll(ctx)
			}

		case <-ticker.Chan():
			c.doPoll(ctx)

			pushUp := c.transport != nil && c.transport.Connected()
			switch {
			case pushUp && warned:
				outages, warned = 0, false
				c.bump(func(s *Stats) { s.Degraded = false })
				if c.OnDegraded != nil {
					c.OnDegraded(false)
				}
			case pushUp:
				outages = 0
			default:
				outages++
				if !warned && c.config.WarnAfterOutages > 0 && outages >= c.config.WarnAfterOutages {
					warned = true
					c.bump(func(s *Stats) { s.Degraded = true })
					log.Warn().Str("topic", c.config.Topic).Msg("push channel down, running on polling alone")
					if c.OnDegraded != nil {
						c.OnDegraded(true)
					}
				}
			}
		}
	}
}

// doPoll runs one snapshot fetch. Failures keep previous state; other topics
// are unaffected.
func (c *Channel) doPoll(ctx context.Context) {
	if err := c.poll(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		c.bump(func(s *Stats) { s.PollFailures++ })
		log.Error().Err(err).Str("topic", c.config.Topic).Msg("topic refresh failed, keeping previous state")
		return
	}
	c.bump(func(s *Stats) { s.LastPollAt = c.clock.Now() })
}

func (c *Channel) bump(fn func(*Stats)) {
	c.mu.Lock()
	fn(&c.stats)
	c.mu.Unlock()
}
