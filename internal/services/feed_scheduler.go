package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Rebuilder is the job the scheduler runs.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// FeedScheduler rebuilds the feeds on a cron schedule, once at start and on demand.
type FeedScheduler struct {
	builder Rebuilder
	cron    *cron.Cron
	trigger chan struct{}
	timeout time.Duration
	log     *zap.Logger

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewFeedScheduler validates spec and returns a stopped scheduler.
func NewFeedScheduler(builder Rebuilder, spec string, log *zap.Logger) (*FeedScheduler, error) {
	s := &FeedScheduler{
		builder: builder,
		cron:    cron.New(),
		trigger: make(chan struct{}, 1),
		timeout: 2 * time.Minute,
		log:     log.Named("feed-scheduler"),
		stop:    make(chan struct{}),
	}
	if _, err := s.cron.AddFunc(spec, s.Trigger); err != nil {
		return nil, fmt.Errorf("invalid feed schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start queues the startup build and begins ticking.
func (s *FeedScheduler) Start() {
	s.wg.Add(1)
	go s.worker()
	s.Trigger()
	s.cron.Start()
}

// Trigger asks for a rebuild. Requests that arrive while one is already queued
// are folded into it.
func (s *FeedScheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Stop halts the schedule and waits for a running build to finish.
func (s *FeedScheduler) Stop() {
	<-s.cron.Stop().Done()
	close(s.stop)
	s.wg.Wait()
}

func (s *FeedScheduler) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		case <-s.trigger:
			s.run()
		}
	}
}

func (s *FeedScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.builder.Rebuild(ctx); err != nil {
		// previous documents stay published
		s.log.Error("feed rebuild failed", zap.Error(err))
	}
}
