// Package redis connects the shared Redis client used by the distributed
// rate limit store and exports its pool statistics.
package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"hamon/internal/platform/config"
)

// Client is a connected go-redis client.
type Client struct {
	*redis.Client
}

// New dials and pings Redis. An empty URL means Redis is not configured and
// yields (nil, nil).
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{Client: rdb}, nil
}

func options(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.MinIdleConns = cfg.MinIdleConns
	overrideIfSet(&opts.PoolSize, cfg.PoolSize)
	overrideIfSet(&opts.DialTimeout, cfg.DialTimeout)
	overrideIfSet(&opts.ReadTimeout, cfg.ReadTimeout)
	overrideIfSet(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func overrideIfSet[T int | ~int64](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RegisterMetrics exports pool statistics, read at scrape time.
func (c *Client) RegisterMetrics(reg prometheus.Registerer) error {
	return reg.Register(newPoolCollector(c.Client))
}

type statsSource interface {
	PoolStats() *redis.PoolStats
}

type poolCollector struct {
	src        statsSource
	hits       *prometheus.Desc
	misses     *prometheus.Desc
	timeouts   *prometheus.Desc
	staleConns *prometheus.Desc
	totalConns *prometheus.Desc
	idleConns  *prometheus.Desc
}

func newPoolCollector(src statsSource) *poolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("hamon_redis_pool_"+name, help, nil, nil)
	}
	return &poolCollector{
		src:        src,
		hits:       desc("hits_total", "Connections found free in the pool."),
		misses:     desc("misses_total", "Connections that had to be dialled."),
		timeouts:   desc("timeouts_total", "Waits for a connection that timed out."),
		staleConns: desc("stale_conns_total", "Stale connections removed from the pool."),
		totalConns: desc("total_conns", "Connections currently in the pool."),
		idleConns:  desc("idle_conns", "Idle connections currently in the pool."),
	}
}

func (p *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{p.hits, p.misses, p.timeouts, p.staleConns, p.totalConns, p.idleConns} {
		ch <- d
	}
}

func (p *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := p.src.PoolStats()
	ch <- prometheus.MustNewConstMetric(p.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(p.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(p.timeouts, prometheus.CounterValue, float64(s.Timeouts))
	ch <- prometheus.MustNewConstMetric(p.staleConns, prometheus.CounterValue, float64(s.StaleConns))
	ch <- prometheus.MustNewConstMetric(p.totalConns, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(p.idleConns, prometheus.GaugeValue, float64(s.IdleConns))
}
