package dto

import (
	"github.com/opsdash/ledgercore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RuleResponse is one row of the categorization rule table as exposed to the
// settings surface.
type RuleResponse struct {
	RuleID            string           `json:"ruleID"`
	Keyword           string           `json:"keyword"`
	Category          string           `json:"category"`
	Priority          int              `json:"priority"`
	Confidence        float64          `json:"confidence"`
	DebitAccountCode  string           `json:"debitAccountCode"`
	CreditAccountCode string           `json:"creditAccountCode"`
	Actions           []string         `json:"actions,omitempty"`
	MinAmount         *decimal.Decimal `json:"minAmount,omitempty"`
	VendorAllowlist   []string         `json:"vendorAllowlist,omitempty"`
	IsActive          bool             `json:"isActive"`
}

// ToRuleResponses converts domain rules to their DTOs.
func ToRuleResponses(rules []domain.Rule) []RuleResponse {
	responses := make([]RuleResponse, len(rules))
	for i, r := range rules {
		resp := RuleResponse{
			RuleID:            r.RuleID,
			Keyword:           r.Keyword,
			Category:          r.Category,
			Priority:          r.Priority,
			Confidence:        r.Confidence,
			DebitAccountCode:  r.DebitAccountCode,
			CreditAccountCode: r.CreditAccountCode,
			MinAmount:         r.MinAmount,
			VendorAllowlist:   r.VendorAllowlist,
			IsActive:          r.IsActive,
		}
		for _, a := range r.Actions {
			resp.Actions = append(resp.Actions, string(a))
		}
		responses[i] = resp
	}
	return responses
}
