package services

import (
	"context"
	"sort"

	"github.com/opsdash/ledgercore/internal/core/domain"
	portsrepo "github.com/opsdash/ledgercore/internal/core/ports/repositories"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
)

// classifierService evaluates the rule table against a raw transaction.
// The matcher is generic; all behavior lives in the rules, which are
// configuration supplied by the settings collaborator.
type classifierService struct{}

// NewClassifierService creates a new ClassifierSvc.
func NewClassifierService() portssvc.ClassifierSvc {
	return &classifierService{}
}

var _ portssvc.ClassifierSvc = (*classifierService)(nil)

// Classify runs a priority-ordered match over the rule table. The first
// matching rule wins; ties on the same keyword resolve to the higher
// priority. No match yields Uncategorized with confidence zero and
// needsReview set. Classification itself never fails.
func (s *classifierService) Classify(txn domain.RawTransaction, rules []domain.Rule) domain.CategorizationResult {
	ordered := make([]domain.Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	for _, rule := range ordered {
		if !rule.Matches(txn) {
			continue
		}
		return domain.CategorizationResult{
			Category:          rule.Category,
			DebitAccountCode:  rule.DebitAccountCode,
			CreditAccountCode: rule.CreditAccountCode,
			Confidence:        rule.Confidence,
			TriggeredActions:  rule.Actions,
			MatchedRuleID:     rule.RuleID,
		}
	}

	return domain.CategorizationResult{
		Category:    domain.CategoryUncategorized,
		Confidence:  0,
		NeedsReview: true,
	}
}

// ruleService exposes the rule table read-only.
type ruleService struct {
	ruleRepo portsrepo.RuleReader
}

// NewRuleService creates a new RuleSvc.
func NewRuleService(ruleRepo portsrepo.RuleReader) portssvc.RuleSvc {
	return &ruleService{ruleRepo: ruleRepo}
}

var _ portssvc.RuleSvc = (*ruleService)(nil)

func (s *ruleService) ListRules(ctx context.Context) ([]domain.Rule, error) {
	return s.ruleRepo.ListRules(ctx)
}
