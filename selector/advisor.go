package selector

import (
	"context"
	"strings"
	"time"

	"takemeto75/logger"
	"takemeto75/metrics"
)

// Advisor completes a free-text prompt. Implementations live in services.
type Advisor interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Advised asks an Advisor to choose and falls back to the wrapped Selector
// whenever the advisor is absent, fails, or answers with something unusable.
type Advised struct {
	advisor  Advisor
	fallback Selector
	timeout  time.Duration
	log      logger.Logger
	metrics  *metrics.Metrics
}

// NewAdvised wraps fallback. A nil advisor means no credential is configured.
func NewAdvised(advisor Advisor, fallback Selector, timeout time.Duration, log logger.Logger, m *metrics.Metrics) *Advised {
	return &Advised{
		advisor:  advisor,
		fallback: fallback,
		timeout:  timeout,
		log:      log,
		metrics:  m,
	}
}

func (s *Advised) Select(ctx context.Context, in Input) (Selection, error) {
	if len(in.Flights) == 0 || len(in.Hotels) == 0 {
		return Selection{}, ErrNoCandidates
	}
	tier := string(in.Tier)

	if s.advisor == nil {
		s.metrics.Advisor(tier, "no_credential")
		return s.fallback.Select(ctx, in)
	}

	sel, err := s.advise(ctx, in)
	s.metrics.Advisor(tier, outcome(err))
	if err != nil {
		s.log.Warn("advisor selection rejected, using deterministic scorer",
			"advisor", s.advisor.Name(),
			"tier", tier,
			"destination", in.Destination.City,
			"error", err)
		return s.fallback.Select(ctx, in)
	}
	return sel, nil
}

func (s *Advised) advise(ctx context.Context, in Input) (Selection, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.advisor.Complete(ctx, BuildPrompt(in))
	if err != nil {
		return Selection{}, err
	}

	a, err := parseAdvice(reply)
	if err != nil {
		return Selection{}, err
	}
	flight, hotel, err := a.resolve(in.Flights, in.Hotels)
	if err != nil {
		s.log.Debug("advisor indices", "flight_index", formatIndex(a.FlightIndex), "hotel_index", formatIndex(a.HotelIndex))
		return Selection{}, err
	}

	reasoning := strings.TrimSpace(a.Reasoning)
	if reasoning == "" {
		reasoning = templateReasoning(in.Tier, in.Destination, flight, hotel)
	}
	return Selection{
		Flight:    flight,
		Hotel:     hotel,
		Reasoning: reasoning,
		Source:    SourceAdvisor,
	}, nil
}
