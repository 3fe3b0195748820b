package target

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// entry is the shared, in-place mutable form of a target.
// Everything except value and updated is fixed at construction.
type entry struct {
	id    string
	url   string
	token string
	name  string
	seq   uint64

	value   atomic.Uint64 // math.Float64bits
	updated atomic.Int64  // unix nanoseconds, 0 = never updated
}

func (e *entry) load() float64 {
	return math.Float64frombits(e.value.Load())
}

func (e *entry) record(kind Kind) Record {
	rec := Record{
		ID:    e.id,
		Kind:  kind,
		URL:   e.url,
		Token: e.token,
		Name:  e.name,
		Value: e.load(),
		Seq:   e.seq,
	}
	if ns := e.updated.Load(); ns != 0 {
		rec.LastUpdated = time.Unix(0, ns).UTC()
	}
	return rec
}

// Registry is the concurrent cache of one kind of target.
//
// All public methods are thread-safe and callers need no external locking.
type Registry struct {
	kind    Kind
	entries sync.Map // string -> *entry
	seq     atomic.Uint64
	size    atomic.Int64
	logger  Logger
}

// NewRegistry creates an empty registry for the given kind.
func NewRegistry(kind Kind) *Registry {
	return &Registry{
		kind:   kind,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
// It must be called before the registry is shared between goroutines.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Kind returns the kind of target held by this registry.
func (r *Registry) Kind() Kind {
	return r.kind
}

func (r *Registry) newEntry(url, token, name string) *entry {
	return &entry{
		id:    TargetID(url),
		url:   url,
		token: token,
		name:  name,
		seq:   r.seq.Add(1),
	}
}

// Exists reports whether url is registered.
func (r *Registry) Exists(url string) bool {
	_, ok := r.entries.Load(url)
	return ok
}

// Register adds url with value 0 if it is absent. An existing record is left
// untouched, so the first registration's token and name win.
// It reports whether a new record was created.
func (r *Registry) Register(url, token, name string) bool {
	if _, ok := r.entries.Load(url); ok {
		return false
	}

	_, loaded := r.entries.LoadOrStore(url, r.newEntry(url, token, name))
	if loaded {
		return false
	}

	r.size.Add(1)
	r.logger.Info("target registered", "kind", r.kind, "url", url, "name", name)
	return true
}

// Get returns the cached value of url. The boolean is false when url is not
// registered.
func (r *Registry) Get(url string) (float64, bool) {
	v, ok := r.entries.Load(url)
	if !ok {
		return 0, false
	}
	return v.(*entry).load(), true
}

// Lookup returns a copy of the full record for url.
func (r *Registry) Lookup(url string) (Record, bool) {
	v, ok := r.entries.Load(url)
	if !ok {
		return Record{}, false
	}
	return v.(*entry).record(r.kind), true
}

// Update stores value for url and returns the value it replaced.
//
// When url is absent a record with an empty token is created holding value;
// previous is then 0 and existed is false. Each update is a single atomic
// swap, so concurrent updates of one key serialise without tearing.
func (r *Registry) Update(url string, value float64) (previous float64, existed bool) {
	bits := math.Float64bits(value)
	now := time.Now().UnixNano()

	v, ok := r.entries.Load(url)
	if !ok {
		fresh := r.newEntry(url, "", "")
		fresh.value.Store(bits)
		fresh.updated.Store(now)

		var loaded bool
		v, loaded = r.entries.LoadOrStore(url, fresh)
		if !loaded {
			r.size.Add(1)
			r.logger.Warn("update created unregistered target", "kind", r.kind, "url", url)
			return 0, false
		}
	}

	e := v.(*entry)
	old := e.value.Swap(bits)
	e.updated.Store(now)
	return math.Float64frombits(old), true
}

// Snapshot returns a copy of every record ordered by registration.
//
// The copy is weakly consistent: records registered or updated while the
// snapshot is taken may or may not be included, but no record is duplicated.
func (r *Registry) Snapshot() []Record {
	records := make([]Record, 0, r.Len())
	r.entries.Range(func(_, v any) bool {
		records = append(records, v.(*entry).record(r.kind))
		return true
	})

	sort.Slice(records, func(i, j int) bool {
		return records[i].Seq < records[j].Seq
	})
	return records
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	return int(r.size.Load())
}

// RegisterOrRead is the front-end entry point for lazy onboarding.
//
// The URL is normalised for the registry's kind. An unknown target is
// registered and Sentinel returned; a known target returns its cached value.
// Empty url or token yields Sentinel without registering anything.
func (r *Registry) RegisterOrRead(url, token, name string) float64 {
	key := NormalizeURL(r.kind, url)
	if key == "" || token == "" {
		return Sentinel
	}

	if value, ok := r.Get(key); ok {
		return value
	}

	r.Register(key, token, name)
	return Sentinel
}

// List returns the monitoring view of every target in registration order.
// With onlyNonZero set, targets whose value is exactly 0 are skipped.
func (r *Registry) List(onlyNonZero bool) []Entry {
	snapshot := r.Snapshot()
	entries := make([]Entry, 0, len(snapshot))
	for _, rec := range snapshot {
		if onlyNonZero && rec.Value == 0 {
			continue
		}
		entries = append(entries, Entry{
			ID:    rec.ID,
			Name:  rec.Name,
			URL:   rec.URL,
			Value: rec.Value,
		})
	}
	return entries
}
