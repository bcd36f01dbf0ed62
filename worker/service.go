package worker

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/kouma/config"
	"github.com/domino14/kouma/search"
	"github.com/domino14/kouma/zobrist"
)

var ErrNotStarted = errors.New("service is not subscribed")

// Service answers solve requests published on a NATS subject. Requests
// are handled one at a time, in the order they arrive.
type Service struct {
	nc       *nats.Conn
	subject  string
	defaults search.Options
	zobrist  *zobrist.Zobrist

	sub *nats.Subscription
}

func NewService(nc *nats.Conn, subject string, defaults search.Options, z *zobrist.Zobrist) *Service {
	if z == nil {
		z = zobrist.Default()
	}
	return &Service{nc: nc, subject: subject, defaults: defaults, zobrist: z}
}

// NewServiceFromConfig builds a service with the search settings, subject
// and zobrist seed held in cfg.
func NewServiceFromConfig(nc *nats.Conn, cfg *config.Config) (*Service, error) {
	opts, err := cfg.SearchOptions()
	if err != nil {
		return nil, err
	}
	z := &zobrist.Zobrist{}
	z.Initialize(cfg.GetUint64(config.ConfigZobristSeed))
	return NewService(nc, cfg.GetString(config.ConfigNatsChannel), opts, z), nil
}

func (s *Service) handle(m *nats.Msg) {
	log.Info().Int("bytes", len(m.Data)).Str("subject", m.Subject).Msg("solve-request")
	if err := m.Respond(HandleMessage(m.Data, s.defaults, s.zobrist)); err != nil {
		log.Err(err).Msg("could-not-respond")
	}
}

// Start subscribes to the service's subject.
func (s *Service) Start() error {
	sub, err := s.nc.Subscribe(s.subject, s.handle)
	if err != nil {
		return err
	}
	s.sub = sub
	if err := s.nc.Flush(); err != nil {
		return err
	}
	if err := s.nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("subject", s.subject).Msg("listening")
	return nil
}

// Stop drains the subscription, letting requests already received finish.
func (s *Service) Stop() error {
	if s.sub == nil {
		return ErrNotStarted
	}
	err := s.sub.Drain()
	s.sub = nil
	return err
}

// Run starts the service and blocks until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	log.Info().Msg("worker-shutting-down")
	if err := s.Stop(); err != nil {
		return err
	}
	return ctx.Err()
}
