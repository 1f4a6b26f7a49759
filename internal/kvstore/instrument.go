package kvstore

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

type instrumented struct {
	Store
	backend string
	ops     *prometheus.CounterVec
}

// Instrument counts every operation on s in ops, labelled by backend, op and
// result. ops must carry the labels backend, op and result.
func Instrument(s Store, backend string, ops *prometheus.CounterVec) Store {
	if ops == nil {
		return s
	}
	return &instrumented{Store: s, backend: backend, ops: ops}
}

func (s *instrumented) observe(op string, err error) {
	res := "ok"
	if err != nil {
		res = "error"
	}
	s.ops.WithLabelValues(s.backend, op, res).Inc()
}

func (s *instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.Store.Get(ctx, key)
	s.observe("get", err)
	return v, ok, err
}

func (s *instrumented) Set(ctx context.Context, key, value string) error {
	err := s.Store.Set(ctx, key, value)
	s.observe("set", err)
	return err
}

func (s *instrumented) Remove(ctx context.Context, key string) error {
	err := s.Store.Remove(ctx, key)
	s.observe("remove", err)
	return err
}

func (s *instrumented) Ping(ctx context.Context) error {
	if p, ok := s.Store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
