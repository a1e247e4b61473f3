package jsql

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/sasha-s/go-deadlock"
)

// driverEntry is a registered driver together with the order in which it
// was registered.
type driverEntry struct {
	name       string
	driver     Driver
	action     DriverAction
	seq        uint64
	registered time.Time
}

// DriverManager keeps the set of registered drivers and picks one by URL.
// Drivers are consulted in registration order. The zero value is not
// usable; call NewDriverManager.
type DriverManager struct {
	drivers cmap.ConcurrentMap // name -> *driverEntry
	nextSeq uint64

	regMu deadlock.Mutex // serialises Register and Deregister

	mu           deadlock.RWMutex // protects following fields
	logger       *log.Logger
	loginTimeout time.Duration
	urlCache     *lru.Cache // url -> driver name

	numConnects    int64
	numFailures    int64
	numCacheHits   int64
	numCacheMisses int64
}

// DriverInfo describes a registered driver.
type DriverInfo struct {
	Name          string
	MajorVersion  int
	MinorVersion  int
	JDBCCompliant bool
	Registered    time.Time
}

// DriverManagerStats contains manager statistics.
type DriverManagerStats struct {
	NumDrivers int // Number of registered drivers.
	CachedURLs int // Number of URL resolutions remembered.

	NumConnects    int64 // Total number of successful connects.
	NumFailures    int64 // Total number of failed connects.
	NumCacheHits   int64 // Total number of URLs resolved from the cache.
	NumCacheMisses int64 // Total number of URLs resolved by asking every driver.
}

// NewDriverManager returns a manager with no drivers, no login timeout and
// no log output.
func NewDriverManager() *DriverManager {
	cache, err := lru.New(defaultURLCacheSize)
	if err != nil {
		panic(err)
	}
	return &DriverManager{
		drivers:  cmap.New(),
		urlCache: cache,
	}
}

// Register makes a driver available by the provided name.
// If Register is called twice with the same name or if driver is nil,
// it panics.
func (m *DriverManager) Register(name string, d Driver, action DriverAction) {
	if d == nil {
		panic("sql: Register driver is nil")
	}
	m.regMu.Lock()
	defer m.regMu.Unlock()
	entry := &driverEntry{
		name:       name,
		driver:     d,
		action:     action,
		seq:        atomic.AddUint64(&m.nextSeq, 1),
		registered: nowFunc(),
	}
	if !m.drivers.SetIfAbsent(name, entry) {
		panic("sql: Register called twice for driver " + name)
	}
	m.Println("registerDriver:", name)
}

// Deregister removes the named driver and runs its DriverAction. Cached
// URL resolutions are dropped.
func (m *DriverManager) Deregister(name string) error {
	m.regMu.Lock()
	v, ok := m.drivers.Get(name)
	if !ok {
		m.regMu.Unlock()
		return fmt.Errorf("sql: unknown driver %q (forgotten import?)", name)
	}
	m.drivers.Remove(name)
	m.regMu.Unlock()

	m.mu.RLock()
	m.urlCache.Purge()
	m.mu.RUnlock()

	entry := v.(*driverEntry)
	if entry.action != nil {
		entry.action.Deregister()
	}
	m.Println("deregisterDriver:", name)
	return nil
}

// Registered reports whether a driver is registered under name.
func (m *DriverManager) Registered(name string) bool {
	return m.drivers.Has(name)
}

// Drivers returns a sorted list of the names of the registered drivers.
func (m *DriverManager) Drivers() []string {
	list := m.drivers.Keys()
	sort.Strings(list)
	return list
}

// DriverInfos describes the registered drivers in registration order.
func (m *DriverManager) DriverInfos() []DriverInfo {
	entries := m.entries()
	infos := make([]DriverInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, DriverInfo{
			Name:          e.name,
			MajorVersion:  e.driver.MajorVersion(),
			MinorVersion:  e.driver.MinorVersion(),
			JDBCCompliant: e.driver.JDBCCompliant(),
			Registered:    e.registered,
		})
	}
	return infos
}

// entries returns a snapshot of the registered drivers in registration
// order.
func (m *DriverManager) entries() []*driverEntry {
	items := m.drivers.Items()
	list := make([]*driverEntry, 0, len(items))
	for _, v := range items {
		list = append(list, v.(*driverEntry))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].seq < list[j].seq })
	return list
}

func (m *DriverManager) cache() *lru.Cache {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.urlCache
}

// cached returns the driver last used for url, if it is still registered.
func (m *DriverManager) cached(url string) (*driverEntry, bool) {
	v, ok := m.cache().Get(url)
	if !ok {
		atomic.AddInt64(&m.numCacheMisses, 1)
		return nil, false
	}
	e, ok := m.drivers.Get(v.(string))
	if !ok {
		m.cache().Remove(url)
		atomic.AddInt64(&m.numCacheMisses, 1)
		return nil, false
	}
	atomic.AddInt64(&m.numCacheHits, 1)
	return e.(*driverEntry), true
}

// Driver returns the first registered driver that accepts url. Drivers
// whose AcceptsURL fails are skipped.
func (m *DriverManager) Driver(url string) (Driver, error) {
	m.Println("DriverManager.Driver(\"" + url + "\")")
	if e, ok := m.cached(url); ok {
		if accepted, err := e.driver.AcceptsURL(url); err == nil && accepted {
			return e.driver, nil
		}
		m.cache().Remove(url)
	}
	for _, e := range m.entries() {
		accepted, err := e.driver.AcceptsURL(url)
		if err != nil || !accepted {
			m.Println("    skipping:", e.name)
			continue
		}
		m.Println("Driver returning", e.name)
		m.cache().Add(url, e.name)
		return e.driver, nil
	}
	m.Println("Driver: no suitable driver")
	return nil, NewError(KindNonTransientConnection, "No suitable driver", WithSQLState("08001"))
}

// Connect attempts to establish a connection to url. Every registered
// driver is tried in registration order, starting with the one that last
// served url; the first connection returned wins. When every driver fails
// the first failure is returned.
//
// A positive LoginTimeout bounds the whole attempt.
func (m *DriverManager) Connect(ctx context.Context, url string, props Properties) (Connection, error) {
	if url == "" {
		atomic.AddInt64(&m.numFailures, 1)
		return nil, NewError(KindNonTransientConnection, "The url cannot be empty", WithSQLState("08001"))
	}
	if timeout := m.LoginTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if props == nil {
		props = Properties{}
	}

	m.Println("DriverManager.Connect(\"" + url + "\")")
	start := nowFunc()

	entries := m.entries()
	if first, ok := m.cached(url); ok {
		entries = preferEntry(entries, first)
	}

	var reason error
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		m.Println("    trying", e.name)
		conn, err := e.driver.Connect(ctx, url, props)
		if err != nil {
			if reason == nil {
				reason = err
			}
			continue
		}
		if conn != nil {
			m.Printf("Connect returning %s after %v", e.name, nowFunc().Sub(start))
			m.cache().Add(url, e.name)
			atomic.AddInt64(&m.numConnects, 1)
			return conn, nil
		}
	}

	atomic.AddInt64(&m.numFailures, 1)
	if err := ctx.Err(); err != nil {
		m.Println("Connect:", err)
		return nil, loginError(err, reason)
	}
	if reason != nil {
		m.Println("Connect failed:", reason)
		return nil, reason
	}
	m.Println("Connect: no suitable driver found for", url)
	return nil, NewError(KindNonTransientConnection, "No suitable driver found for "+url, WithSQLState("08001"))
}

// loginError reports a Connect cut short by its context. A driver failure
// seen before that is chained after it.
func loginError(ctxErr, reason error) *Error {
	kind := KindException
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	e := NewError(kind, "login: "+ctxErr.Error(), WithSQLState("HYT00"), WithCause(ctxErr))
	if r, ok := reason.(*Error); ok && !errors.Is(r, ctxErr) {
		e.SetNext(r)
	}
	return e
}

// ConnectUser connects to url with the given user and password.
func (m *DriverManager) ConnectUser(ctx context.Context, url, user, password string) (Connection, error) {
	return m.Connect(ctx, url, UserProperties(user, password))
}

func preferEntry(entries []*driverEntry, first *driverEntry) []*driverEntry {
	out := make([]*driverEntry, 0, len(entries))
	out = append(out, first)
	for _, e := range entries {
		if e != first {
			out = append(out, e)
		}
	}
	return out
}

// SetLoginTimeout sets the maximum time Connect waits. Zero or less means
// no limit.
func (m *DriverManager) SetLoginTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	m.loginTimeout = d
	m.mu.Unlock()
}

// LoginTimeout returns the maximum time Connect waits; zero means no limit.
func (m *DriverManager) LoginTimeout() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loginTimeout
}

// SetURLCacheSize replaces the URL resolution cache with an empty one
// holding up to n entries.
func (m *DriverManager) SetURLCacheSize(n int) error {
	cache, err := lru.New(n)
	if err != nil {
		return fmt.Errorf("sql: url cache size %d: %w", n, err)
	}
	m.mu.Lock()
	m.urlCache = cache
	m.mu.Unlock()
	return nil
}

// SetLogger sets the logger used for tracing. A nil logger disables
// tracing.
func (m *DriverManager) SetLogger(l *log.Logger) {
	m.mu.Lock()
	m.logger = l
	m.mu.Unlock()
}

// Logger returns the logger used for tracing, or nil.
func (m *DriverManager) Logger() *log.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logger
}

// Println prints to the manager's logger, if any.
func (m *DriverManager) Println(v ...interface{}) {
	if l := m.Logger(); l != nil {
		l.Println(v...)
	}
}

// Printf prints to the manager's logger, if any.
func (m *DriverManager) Printf(format string, v ...interface{}) {
	if l := m.Logger(); l != nil {
		l.Printf(format, v...)
	}
}

// Stats returns manager statistics.
func (m *DriverManager) Stats() DriverManagerStats {
	return DriverManagerStats{
		NumDrivers:     m.drivers.Count(),
		CachedURLs:     m.cache().Len(),
		NumConnects:    atomic.LoadInt64(&m.numConnects),
		NumFailures:    atomic.LoadInt64(&m.numFailures),
		NumCacheHits:   atomic.LoadInt64(&m.numCacheHits),
		NumCacheMisses: atomic.LoadInt64(&m.numCacheMisses),
	}
}
