package jsql

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	Connection
	url    string
	props  Properties
	driver string
}

func (c *fakeConn) Close() error { return nil }

type fakeDriver struct {
	name      string
	prefix    string
	err       error
	acceptErr error
	block     bool
	connects  int32
}

func (d *fakeDriver) Connect(ctx context.Context, url string, props Properties) (Connection, error) {
	atomic.AddInt32(&d.connects, 1)
	if !strings.HasPrefix(url, d.prefix) {
		return nil, nil
	}
	if d.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if d.err != nil {
		return nil, d.err
	}
	return &fakeConn{url: url, props: props.Clone(), driver: d.name}, nil
}

func (d *fakeDriver) AcceptsURL(url string) (bool, error) {
	if d.acceptErr != nil {
		return false, d.acceptErr
	}
	return strings.HasPrefix(url, d.prefix), nil
}

func (d *fakeDriver) PropertyInfo(url string, props Properties) ([]DriverPropertyInfo, error) {
	return []DriverPropertyInfo{{Name: PropertyUser, Required: true}, {Name: PropertyPassword}}, nil
}

func (d *fakeDriver) MajorVersion() int   { return 1 }
func (d *fakeDriver) MinorVersion() int   { return 2 }
func (d *fakeDriver) JDBCCompliant() bool { return false }

func (d *fakeDriver) numConnects() int { return int(atomic.LoadInt32(&d.connects)) }

func TestRegisterPanics(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	assert.PanicsWithValue(t, "sql: Register driver is nil", func() {
		m.Register("nil", nil, nil)
	})

	m.Register("fake", &fakeDriver{prefix: "jdbc:fake:"}, nil)
	assert.PanicsWithValue(t, "sql: Register called twice for driver fake", func() {
		m.Register("fake", &fakeDriver{prefix: "jdbc:fake:"}, nil)
	})
	assert.Equal(t, []string{"fake"}, m.Drivers())
}

func TestDriversSorted(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	for _, name := range []string{"pg", "mysql", "h2"} {
		m.Register(name, &fakeDriver{prefix: "jdbc:" + name + ":"}, nil)
	}
	assert.Equal(t, []string{"h2", "mysql", "pg"}, m.Drivers())
	assert.True(t, m.Registered("pg"))
	assert.False(t, m.Registered("oracle"))
	assert.Equal(t, 3, m.Stats().NumDrivers)
}

func TestDriverByURL(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	broken := &fakeDriver{prefix: "jdbc:", acceptErr: errors.New("boom")}
	a := &fakeDriver{prefix: "jdbc:a:"}
	catchAll := &fakeDriver{prefix: "jdbc:"}
	m.Register("broken", broken, nil)
	m.Register("a", a, nil)
	m.Register("catchAll", catchAll, nil)

	d, err := m.Driver("jdbc:a:db")
	require.NoError(t, err)
	assert.Same(t, a, d)

	d, err = m.Driver("jdbc:b:db")
	require.NoError(t, err)
	assert.Same(t, catchAll, d)

	// Served from the cache the second time.
	d, err = m.Driver("jdbc:a:db")
	require.NoError(t, err)
	assert.Same(t, a, d)
	assert.Equal(t, int64(1), m.Stats().NumCacheHits)

	_, err = m.Driver("odbc:x")
	require.Error(t, err)
	var sqlErr *Error
	require.True(t, errors.As(err, &sqlErr))
	assert.Equal(t, "No suitable driver", sqlErr.Reason())
	assert.Equal(t, "08001", sqlErr.SQLState())
	assert.True(t, errors.Is(err, KindNonTransientConnection))
}

func TestDriverDropsStaleCacheEntry(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	d := &fakeDriver{prefix: "jdbc:a:"}
	m.Register("a", d, nil)

	_, err := m.Driver("jdbc:a:db")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Stats().CachedURLs)

	// The driver no longer accepts the URL it served before.
	d.prefix = "jdbc:b:"
	_, err = m.Driver("jdbc:a:db")
	assert.True(t, errors.Is(err, KindNonTransientConnection))
	assert.Equal(t, 0, m.Stats().CachedURLs)

	_, err = m.Driver("jdbc:a:db")
	assert.Error(t, err)
	stats := m.Stats()
	assert.Equal(t, int64(1), stats.NumCacheHits)
	assert.Equal(t, int64(2), stats.NumCacheMisses)
}

func TestConnectFirstFailureReturned(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	first := NewError(KindInvalidAuthorization, "bad password", WithSQLState("28000"))
	m.Register("one", &fakeDriver{prefix: "jdbc:", err: first}, nil)
	m.Register("two", &fakeDriver{prefix: "jdbc:", err: errors.New("second")}, nil)

	conn, err := m.Connect(context.Background(), "jdbc:x", nil)
	assert.Nil(t, conn)
	require.Error(t, err)
	assert.Same(t, first, err)
	assert.Equal(t, int64(1), m.Stats().NumFailures)
}

func TestConnectFallsThrough(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	failing := &fakeDriver{name: "failing", prefix: "jdbc:", err: errors.New("refused")}
	working := &fakeDriver{name: "working", prefix: "jdbc:"}
	m.Register("failing", failing, nil)
	m.Register("working", working, nil)

	conn, err := m.ConnectUser(context.Background(), "jdbc:db", "scott", "tiger")
	require.NoError(t, err)
	fc := conn.(*fakeConn)
	assert.Equal(t, "working", fc.driver)
	assert.Equal(t, "scott", fc.props.User())
	assert.Equal(t, "tiger", fc.props.Password())
	assert.Equal(t, 1, failing.numConnects())

	// The driver that served the URL is tried first next time.
	_, err = m.Connect(context.Background(), "jdbc:db", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, failing.numConnects())
	assert.Equal(t, 2, working.numConnects())

	stats := m.Stats()
	assert.Equal(t, int64(2), stats.NumConnects)
	assert.Equal(t, int64(1), stats.NumCacheHits)
	assert.Equal(t, 1, stats.CachedURLs)
}

func TestConnectNoSuitableDriver(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	m.Register("pg", &fakeDriver{prefix: "jdbc:pg:"}, nil)

	_, err := m.Connect(context.Background(), "odbc:x", nil)
	var sqlErr *Error
	require.True(t, errors.As(err, &sqlErr))
	assert.Equal(t, "No suitable driver found for odbc:x", sqlErr.Reason())
	assert.Equal(t, "08001", sqlErr.SQLState())

	_, err = m.Connect(context.Background(), "", nil)
	require.True(t, errors.As(err, &sqlErr))
	assert.Equal(t, "08001", sqlErr.SQLState())
	assert.Equal(t, int64(2), m.Stats().NumFailures)
}

func TestConnectLoginTimeout(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	m.Register("slow", &fakeDriver{prefix: "jdbc:", block: true}, nil)
	m.SetLoginTimeout(20 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, m.LoginTimeout())

	start := time.Now()
	_, err := m.Connect(context.Background(), "jdbc:slow", nil)
	require.Error(t, err)
	assert.Less(t, int64(time.Since(start)), int64(5*time.Second))
	assert.True(t, errors.Is(err, KindTimeout))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, IsTransient(err))

	var sqlErr *Error
	require.True(t, errors.As(err, &sqlErr))
	assert.Equal(t, "HYT00", sqlErr.SQLState())

	m.SetLoginTimeout(-time.Second)
	assert.Equal(t, time.Duration(0), m.LoginTimeout())
}

func TestConnectCanceled(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	d := &fakeDriver{prefix: "jdbc:"}
	m.Register("d", d, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Connect(ctx, "jdbc:x", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, KindTimeout))
	assert.Equal(t, 0, d.numConnects())
}

func TestDeregister(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	var called int32
	m.Register("gone", &fakeDriver{prefix: "jdbc:"}, DriverActionFunc(func() {
		atomic.AddInt32(&called, 1)
	}))
	m.Register("stays", &fakeDriver{prefix: "jdbc:stays:"}, nil)

	_, err := m.Connect(context.Background(), "jdbc:x", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Stats().CachedURLs)

	require.NoError(t, m.Deregister("gone"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))
	assert.Equal(t, []string{"stays"}, m.Drivers())
	assert.Equal(t, 0, m.Stats().CachedURLs)

	assert.Error(t, m.Deregister("gone"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))

	_, err = m.Connect(context.Background(), "jdbc:x", nil)
	assert.True(t, errors.Is(err, KindNonTransientConnection))

	// The name is free again.
	m.Register("gone", &fakeDriver{prefix: "jdbc:"}, nil)
	assert.True(t, m.Registered("gone"))
}

func TestDriverManagerLogging(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	assert.Nil(t, m.Logger())
	m.Println("dropped")

	var buf bytes.Buffer
	m.SetLogger(log.New(&buf, "", 0))
	m.Register("logged", &fakeDriver{prefix: "jdbc:"}, nil)
	_, err := m.Connect(context.Background(), "jdbc:x", UserProperties("u", "secret"))
	require.NoError(t, err)
	require.NoError(t, m.Deregister("logged"))

	out := buf.String()
	assert.Contains(t, out, "registerDriver: logged")
	assert.Contains(t, out, `DriverManager.Connect("jdbc:x")`)
	assert.Contains(t, out, "deregisterDriver: logged")
	assert.NotContains(t, out, "secret")
}

func TestDriverInfos(t *testing.T) {
	registeredAt := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	saved := nowFunc
	nowFunc = func() time.Time { return registeredAt }
	defer func() { nowFunc = saved }()

	m := NewDriverManager()
	m.Register("second-name-first", &fakeDriver{prefix: "a"}, nil)
	m.Register("a-name-second", &fakeDriver{prefix: "b"}, nil)

	infos := m.DriverInfos()
	require.Len(t, infos, 2)
	assert.Equal(t, DriverInfo{
		Name:          "second-name-first",
		MajorVersion:  1,
		MinorVersion:  2,
		JDBCCompliant: false,
		Registered:    registeredAt,
	}, infos[0])
	assert.Equal(t, "a-name-second", infos[1].Name)
}

func TestURLCacheSize(t *testing.T) {
	t.Parallel()

	m := NewDriverManager()
	assert.Error(t, m.SetURLCacheSize(0))
	require.NoError(t, m.SetURLCacheSize(1))
	m.Register("any", &fakeDriver{prefix: "jdbc:"}, nil)

	for _, url := range []string{"jdbc:1", "jdbc:2", "jdbc:3"} {
		_, err := m.Connect(context.Background(), url, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, m.Stats().CachedURLs)
}

func TestConcurrentRegisterAndConnect(t *testing.T) {
	t.Parallel()

	const workers = 16
	m := NewDriverManager()
	m.Register("base", &fakeDriver{prefix: "jdbc:"}, nil)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("driver-%d", i)
			m.Register(name, &fakeDriver{prefix: "jdbc:" + name + ":"}, nil)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := m.Connect(context.Background(), fmt.Sprintf("jdbc:db%d", i), nil)
			assert.NoError(t, err)
		}(i)
	}
	require.False(t, waitTimeout(&wg, 5*time.Second), "workers did not finish")
	assert.Len(t, m.Drivers(), workers+1)
	assert.Equal(t, int64(workers), m.Stats().NumConnects)
}

func TestDefaultManager(t *testing.T) {
	t.Parallel()

	name := "jsql-default-manager-test"
	Register(name, &fakeDriver{prefix: "jdbc:default-test:"}, nil)
	assert.Contains(t, Drivers(), name)
	assert.True(t, DefaultManager().Registered(name))

	conn, err := Connect(context.Background(), "jdbc:default-test:db", nil)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	require.NoError(t, Deregister(name))
	assert.NotContains(t, Drivers(), name)
}
