package service

import (
	"context"
	"fmt"

	"datahealth-web/internal/models"
	"datahealth-web/internal/validator"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RowCheck reports whether a record violates a rule
type RowCheck func(rec models.Record) bool

// Rule is a named data quality check. Bind prepares the row check for one
// dataset snapshot; rules that look across rows build their index there.
type Rule struct {
	Name  models.RuleName
	Field string
	Bind  func(ds *models.Dataset) RowCheck
}

// DefaultRules returns the fixed rule set in display order
func DefaultRules() []Rule {
	return []Rule{
		EmailValidRule(),
		UniquePartnerIDRule(),
		VATMinLengthRule(validator.MinVATLength),
	}
}

func EmailValidRule() Rule {
	return Rule{
		Name:  models.RuleEmailValid,
		Field: models.ColumnEmail,
		Bind: func(*models.Dataset) RowCheck {
			return func(rec models.Record) bool {
				return !validator.IsValidEmail(rec.Email)
			}
		},
	}
}

// UniquePartnerIDRule flags every occurrence of a repeated Partner_ID, the
// first one included.
func UniquePartnerIDRule() Rule {
	return Rule{
		Name:  models.RuleUniquePartnerID,
		Field: models.ColumnPartnerID,
		Bind: func(ds *models.Dataset) RowCheck {
			ids := make([]string, 0, ds.Len())
			for _, rec := range ds.Records {
				ids = append(ids, rec.PartnerID)
			}
			idx := validator.NewDuplicateIndex(ids)
			return func(rec models.Record) bool {
				return idx.Contains(rec.PartnerID)
			}
		},
	}
}

func VATMinLengthRule(min int) Rule {
	return Rule{
		Name:  models.RuleVATMinLength,
		Field: models.ColumnVATNumber,
		Bind: func(*models.Dataset) RowCheck {
			return func(rec models.Record) bool {
				return validator.IsShortVAT(rec.VATNumber, min)
			}
		},
	}
}

type RuleEngine struct {
	rules    []Rule
	parallel bool
	logger   *logrus.Logger
}

func NewRuleEngine(rules []Rule, parallel bool, logger *logrus.Logger) *RuleEngine {
	return &RuleEngine{
		rules:    rules,
		parallel: parallel,
		logger:   logger,
	}
}

// Rules returns the rules the engine evaluates
func (e *RuleEngine) Rules() []Rule {
	return e.rules
}

// Evaluate runs every rule against the same snapshot and returns the
// violating row identities per rule in ascending order.
func (e *RuleEngine) Evaluate(ctx context.Context, ds *models.Dataset) (models.ViolationSet, error) {
	results := make([][]int, len(e.rules))

	if e.parallel {
		g, ctx := errgroup.WithContext(ctx)
		for i := range e.rules {
			i := i
			g.Go(func() error {
				rows, err := evaluateRule(ctx, e.rules[i], ds)
				if err != nil {
					return err
				}
				results[i] = rows
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, rule := range e.rules {
			rows, err := evaluateRule(ctx, rule, ds)
			if err != nil {
				return nil, err
			}
			results[i] = rows
		}
	}

	violations := make(models.ViolationSet, len(e.rules))
	for i, rule := range e.rules {
		violations[rule.Name] = results[i]
		e.logger.WithFields(logrus.Fields{
			"rule":       rule.Name,
			"violations": len(results[i]),
			"scanned":    ds.Len(),
		}).Debug("Rule evaluated")
	}

	return violations, nil
}

func evaluateRule(ctx context.Context, rule Rule, ds *models.Dataset) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rule %s: %w", rule.Name, err)
	}

	check := rule.Bind(ds)
	rows := []int{}
	for _, rec := range ds.Records {
		if check(rec) {
			rows = append(rows, rec.Row)
		}
	}
	return rows, nil
}
