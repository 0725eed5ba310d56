// Package fragment caches rendered markup by cache key and cache version.
//
// A Store holds at most one fragment per key. Fetch returns the stored
// fragment when its version matches the requested one and renders a fresh
// fragment otherwise, so a version change (a library or runtime upgrade)
// replaces entries without explicit invalidation. Concurrent misses on the
// same key and version render once.
//
// Entries are packed with msgpack so a Store's contents can be dumped and
// restored byte for byte. The store keeps insertion order and evicts the
// oldest entry once MaxEntries is reached.
package fragment

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/swiss"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/pthm/hxview/lib/config"
	"github.com/pthm/hxview/lib/encoding"
	"github.com/pthm/hxview/lib/fingerprint"
)

// DefaultMaxEntries is used when Options.MaxEntries is zero.
const DefaultMaxEntries = 1024

// Entry is one cached fragment.
type Entry struct {
	Key      string `msgpack:"k"`
	Version  string `msgpack:"v"`
	HTML     []byte `msgpack:"h"`
	StoredAt int64  `msgpack:"t"`
}

// RenderFunc produces the markup for a miss.
type RenderFunc func(ctx context.Context) ([]byte, error)

// Options configures a Store.
type Options struct {
	// MaxEntries bounds the number of fragments held.
	MaxEntries int

	// Registerer receives the store's metrics. Nil disables registration;
	// the counters still work.
	Registerer prometheus.Registerer

	// Namespace prefixes metric names.
	Namespace string

	// Logger receives debug output. Nil discards.
	Logger *slog.Logger

	// Now overrides the clock used for Entry.StoredAt.
	Now func() time.Time
}

// Store is a bounded fragment cache. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	entries *swiss.Map[fingerprint.Key, []byte]
	order   []fingerprint.Key
	max     int

	group   singleflight.Group
	metrics metrics
	logger  *slog.Logger
	now     func() time.Time
}

type metrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
}

// New creates a Store.
func New(opts Options) (*Store, error) {
	if opts.MaxEntries < 0 {
		return nil, errors.Newf("fragment: MaxEntries must not be negative, got %d", opts.MaxEntries)
	}
	if opts.MaxEntries == 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: "fragment",
			Name:      name,
			Help:      help,
		})
	}
	s := &Store{
		entries: swiss.New[fingerprint.Key, []byte](opts.MaxEntries),
		max:     opts.MaxEntries,
		logger:  opts.Logger,
		now:     opts.Now,
		metrics: metrics{
			hits:      counter("hits_total", "Fragment lookups served from the cache."),
			misses:    counter("misses_total", "Fragment lookups that rendered."),
			evictions: counter("evictions_total", "Fragments evicted to stay under the entry bound."),
		},
	}

	if opts.Registerer != nil {
		for _, c := range []prometheus.Collector{s.metrics.hits, s.metrics.misses, s.metrics.evictions} {
			if err := opts.Registerer.Register(c); err != nil {
				return nil, errors.Wrap(err, "fragment: registering metrics")
			}
		}
	}
	return s, nil
}

// NewFromConfig creates a Store sized and named by cfg.
func NewFromConfig(cfg config.FragmentConfig, reg prometheus.Registerer, logger *slog.Logger) (*Store, error) {
	return New(Options{
		MaxEntries: cfg.MaxEntries,
		Registerer: reg,
		Namespace:  cfg.MetricsNamespace,
		Logger:     logger,
	})
}

// Fetch returns the fragment for key at version, rendering it on a miss.
// Render errors are returned and nothing is stored.
func (s *Store) Fetch(ctx context.Context, key, version fingerprint.Key, render RenderFunc) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if html, ok := s.lookup(key, version); ok {
		s.metrics.hits.Inc()
		s.logger.Debug("fragment hit", "key", key.Short(), "version", version.Short())
		return html, nil
	}

	// The flight renders detached from the first caller's cancellation so
	// one caller going away does not fail the others waiting on it. Each
	// caller still stops waiting when its own context ends.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key.String()+"/"+version.String(), func() (any, error) {
		// Another caller may have filled the entry while this one waited
		// for the flight.
		if html, ok := s.lookup(key, version); ok {
			s.metrics.hits.Inc()
			return html, nil
		}
		s.metrics.misses.Inc()
		s.logger.Debug("fragment miss", "key", key.Short(), "version", version.Short())

		html, err := render(flightCtx)
		if err != nil {
			return nil, err
		}
		if err := s.Put(key, Entry{
			Key:      key.String(),
			Version:  version.String(),
			HTML:     html,
			StoredAt: s.now().UnixNano(),
		}); err != nil {
			return nil, err
		}
		return html, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Get returns the entry stored under key, whatever its version.
func (s *Store) Get(key fingerprint.Key) (Entry, bool, error) {
	s.mu.Lock()
	packed, ok := s.entries.Get(key)
	s.mu.Unlock()
	if !ok {
		return Entry{}, false, nil
	}
	var e Entry
	if err := encoding.Unpack(packed, &e); err != nil {
		return Entry{}, false, errors.Wrapf(err, "fragment: entry %s", key.Short())
	}
	return e, true, nil
}

// Put stores e under key, replacing any previous entry.
func (s *Store) Put(key fingerprint.Key, e Entry) error {
	packed, err := encoding.Pack(e)
	if err != nil {
		return errors.Wrap(err, "fragment: packing entry")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries.Get(key); !exists {
		for len(s.order) >= s.max {
			oldest := s.order[0]
			s.order = s.order[1:]
			s.entries.Delete(oldest)
			s.metrics.evictions.Inc()
			s.logger.Debug("fragment evicted", "key", oldest.Short())
		}
		s.order = append(s.order, key)
	}
	s.entries.Put(key, packed)
	return nil
}

// Invalidate drops the entry for key.
func (s *Store) Invalidate(key fingerprint.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries.Get(key); !ok {
		return
	}
	s.entries.Delete(key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of stored fragments.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}

func (s *Store) lookup(key, version fingerprint.Key) ([]byte, bool) {
	e, ok, err := s.Get(key)
	if err != nil {
		s.logger.Warn("dropping unreadable fragment", "key", key.Short(), "error", err)
		s.Invalidate(key)
		return nil, false
	}
	if !ok || e.Version != version.String() {
		return nil, false
	}
	return e.HTML, true
}
