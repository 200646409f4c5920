package alerting

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/internal/database/repositories"
)

// Evaluation is the verdict for one rule against one sample
type Evaluation struct {
	Rule     *models.AlertRule
	Violated bool
}

// Evaluator decides violated/not-violated for every active rule matching a
// metric sample. It is a pure predicate pass; alert state changes belong to
// the lifecycle.
type Evaluator struct {
	rules   repositories.RuleRepository
	metrics repositories.MetricRepository
	log     *logrus.Logger
}

// NewEvaluator creates a rule evaluator
func NewEvaluator(rules repositories.RuleRepository, metrics repositories.MetricRepository, log *logrus.Logger) *Evaluator {
	return &Evaluator{rules: rules, metrics: metrics, log: log}
}

// Evaluate returns one verdict per matching active rule. Rules scoped to no
// device/interface apply platform-wide for their metric type; every matching
// rule is evaluated independently.
func (e *Evaluator) Evaluate(ctx context.Context, sample *models.Metric) ([]Evaluation, error) {
	rules, err := e.rules.GetMatching(ctx, sample.MetricType, sample.DeviceID, sample.InterfaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matching rules: %w", err)
	}

	evaluations := make([]Evaluation, 0, len(rules))
	for _, rule := range rules {
		violated, err := e.evaluateRule(ctx, rule, sample)
		if err != nil {
			return nil, err
		}
		evaluations = append(evaluations, Evaluation{Rule: rule, Violated: violated})
	}

	return evaluations, nil
}

func (e *Evaluator) evaluateRule(ctx context.Context, rule *models.AlertRule, sample *models.Metric) (bool, error) {
	if !rule.Windowed() {
		return rule.Operator.Compare(sample.Value, rule.Threshold), nil
	}

	from := sample.RecordedAt.Add(-time.Duration(rule.DurationSeconds) * time.Second)
	window, err := e.metrics.ListWindow(ctx, sample.DeviceID, sample.InterfaceID, sample.MetricType, from, sample.RecordedAt)
	if err != nil {
		return false, fmt.Errorf("failed to load sample window: %w", err)
	}

	// Fail open on an empty window: not enough data to call a sustained
	// violation
	if len(window) == 0 {
		return false, nil
	}

	for _, m := range window {
		if !rule.Operator.Compare(m.Value, rule.Threshold) {
			return false, nil
		}
	}

	e.log.WithFields(logrus.Fields{
		"rule_id":   rule.ID,
		"device_id": sample.DeviceID,
		"samples":   len(window),
	}).Debug("Sustained violation over window")

	return true, nil
}
