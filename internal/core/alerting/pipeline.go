package alerting

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
)

// Counters records pipeline volume for the metrics endpoint. A nil value
// disables counting.
type Counters interface {
	RecordSample(metricType string)
	RecordNotificationQueued(channel string)
}

// Pipeline runs the full evaluation chain for one persisted sample:
// evaluator, lifecycle, escalation dispatch. It is assembled over
// transaction-scoped repositories so one sample evaluates as a single
// atomic unit of work; two concurrent samples for the same rule key cannot
// both observe "no open alert".
type Pipeline struct {
	evaluator *Evaluator
	lifecycle *Lifecycle
}

// NewPipeline assembles the evaluation chain over the given repositories.
// Extra sinks (websocket broadcast, metrics) run after the dispatcher.
func NewPipeline(repos *database.Repositories, settings *SettingsResolver, counters Counters, log *logrus.Logger, extraSinks ...AlertEventSink) *Pipeline {
	dispatcher := NewDispatcher(
		repos.Policies,
		repos.Templates,
		repos.Notifications,
		NewRotationSelector(repos.Rotations),
		settings,
		counters,
		log,
	)
	sinks := append([]AlertEventSink{dispatcher}, extraSinks...)

	return &Pipeline{
		evaluator: NewEvaluator(repos.Rules, repos.Metrics, log),
		lifecycle: NewLifecycle(repos.Alerts, log, sinks...),
	}
}

// Process evaluates every matching rule for the sample and advances each
// rule's alert state machine independently
func (p *Pipeline) Process(ctx context.Context, sample *models.Metric) error {
	evaluations, err := p.evaluator.Evaluate(ctx, sample)
	if err != nil {
		return err
	}

	for _, evaluation := range evaluations {
		if err := p.lifecycle.Apply(ctx, evaluation.Rule, sample, evaluation.Violated); err != nil {
			return err
		}
	}

	return nil
}
