/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package metrics instruments collections with Prometheus counters and a
// latency histogram labelled by table and operation.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kamileo242/EventManager/datastore"
	"github.com/kamileo242/EventManager/predicate"
	"github.com/kamileo242/EventManager/registry"
)

const namespace = "eventmanager"

// Metrics holds the collectors shared by every instrumented collection.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. Collectors that
// are already registered are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "datastore",
		Name:      "operations_total",
		Help:      "Collection operations by table, operation and result.",
	}, []string{"table", "op", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "datastore",
		Name:      "operation_duration_seconds",
		Help:      "Collection operation latency by table and operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"table", "op"})

	var err error
	if operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return &Metrics{operations: operations, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(table string, op datastore.Op, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(table, string(op), result).Inc()
	m.duration.WithLabelValues(table, string(op)).Observe(time.Since(start).Seconds())
}

// Collection decorates another collection with metrics.
type Collection[D any] struct {
	inner   datastore.Collection[D]
	metrics *Metrics
	table   string
}

var _ datastore.Collection[struct{}] = (*Collection[struct{}])(nil)

// Wrap instruments inner with m.
func Wrap[D any](inner datastore.Collection[D], m *Metrics) *Collection[D] {
	return &Collection[D]{inner: inner, metrics: m, table: inner.Table().Name}
}

func (c *Collection[D]) Table() registry.Table {
	return c.inner.Table()
}

func (c *Collection[D]) Get(ctx context.Context, key datastore.Key) (*D, error) {
	start := time.Now()
	row, err := c.inner.Get(ctx, key)
	c.metrics.observe(c.table, datastore.OpGet, start, err)
	return row, err
}

func (c *Collection[D]) All(ctx context.Context) ([]D, error) {
	start := time.Now()
	rows, err := c.inner.All(ctx)
	c.metrics.observe(c.table, datastore.OpAll, start, err)
	return rows, err
}

func (c *Collection[D]) Filter(ctx context.Context, p predicate.Predicate[D]) ([]D, error) {
	start := time.Now()
	rows, err := c.inner.Filter(ctx, p)
	c.metrics.observe(c.table, datastore.OpFilter, start, err)
	return rows, err
}

func (c *Collection[D]) Begin(ctx context.Context) (datastore.Tx[D], error) {
	start := time.Now()
	inner, err := c.inner.Begin(ctx)
	c.metrics.observe(c.table, datastore.OpBegin, start, err)
	if err != nil {
		return nil, err
	}
	return &tx[D]{Tx: inner, c: c}, nil
}

type tx[D any] struct {
	datastore.Tx[D]
	c *Collection[D]
}

func (t *tx[D]) Commit() error {
	start := time.Now()
	err := t.Tx.Commit()
	t.c.metrics.observe(t.c.table, datastore.OpCommit, start, err)
	return err
}
