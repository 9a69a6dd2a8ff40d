package loader

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/metrics"
	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
)

// DefaultTTL 缓存有效期
const DefaultTTL = 5 * time.Second

// LoadFunc 产生一张新表
type LoadFunc func() (*model.Table, error)

// Snapshot 缓存中的一次加载结果；失败的加载同样会被缓存到过期为止
type Snapshot struct {
	Table    *model.Table
	Err      error
	LoadedAt time.Time
	Elapsed  time.Duration
}

// Cache 按时间过期的单表缓存，仅以加载函数为键，不感知文件内容变化
type Cache struct {
	load     LoadFunc
	ttl      time.Duration
	now      func() time.Time
	observer func(Snapshot)

	group singleflight.Group
	mu    sync.Mutex
	entry *Snapshot
}

// CacheOption 缓存选项
type CacheOption func(*Cache)

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithObserver 每次真正加载完成后回调（例如写入加载历史）
func WithObserver(fn func(Snapshot)) CacheOption {
	return func(c *Cache) {
		c.observer = fn
	}
}

// NewCache 创建缓存；ttl<=0 表示每次都重新加载
func NewCache(load LoadFunc, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{
		load: load,
		ttl:  ttl,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get 返回未过期的缓存结果，否则重新加载；并发的重新加载只执行一次
func (c *Cache) Get() Snapshot {
	if snap, ok := c.fresh(); ok {
		metrics.RecordCache(true)
		return snap
	}
	metrics.RecordCache(false)

	v, _, _ := c.group.Do("table", func() (interface{}, error) {
		if snap, ok := c.fresh(); ok {
			return snap, nil
		}

		start := c.now()
		table, err := c.load()
		loadedAt := c.now()
		snap := Snapshot{
			Table:    table,
			Err:      err,
			LoadedAt: loadedAt,
			Elapsed:  loadedAt.Sub(start),
		}

		c.mu.Lock()
		c.entry = &snap
		c.mu.Unlock()

		if c.observer != nil {
			c.observer(snap)
		}
		return snap, nil
	})
	return v.(Snapshot)
}

// Invalidate 丢弃缓存，下一次 Get 会重新加载
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}

// TTL 缓存有效期
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) fresh() (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil || c.ttl <= 0 {
		return Snapshot{}, false
	}
	if c.now().Sub(c.entry.LoadedAt) >= c.ttl {
		return Snapshot{}, false
	}
	return *c.entry, true
}
