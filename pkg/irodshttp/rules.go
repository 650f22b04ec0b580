package irodshttp

import (
	"context"
	"net/http"
)

var (
	ruleListRuleEnginesSpec = &operationSpec{
		endpoint: rulesEndpoint, op: "list_rule_engines", method: http.MethodGet,
	}
	ruleExecuteSpec = &operationSpec{
		endpoint: rulesEndpoint, op: "execute", method: http.MethodPost,
		params: []paramSpec{
			requiredString("rule-text"),
			optionalString("rep-instance"),
		},
	}
	ruleRemoveDelayRuleSpec = &operationSpec{
		endpoint: rulesEndpoint, op: "remove_delay_rule", method: http.MethodPost,
		params: []paramSpec{
			requiredPositiveParam("rule-id"),
		},
	}
)

// RulesClient operates on rules
type RulesClient struct {
	session *session
}

// ListRuleEngines lists rule engine plugin instances
func (client *RulesClient) ListRuleEngines(ctx context.Context) (*Response, error) {
	return client.session.execute(ctx, ruleListRuleEnginesSpec, operationArgs{})
}

// Execute executes rule text, repInstance selects the rule engine plugin instance
func (client *RulesClient) Execute(ctx context.Context, ruleText string, repInstance string) (*Response, error) {
	args := operationArgs{
		"rule-text":    ruleText,
		"rep-instance": repInstance,
	}
	return client.session.execute(ctx, ruleExecuteSpec, args)
}

// RemoveDelayRule removes a delay rule
func (client *RulesClient) RemoveDelayRule(ctx context.Context, ruleID int) (*Response, error) {
	return client.session.execute(ctx, ruleRemoveDelayRuleSpec, operationArgs{"rule-id": ruleID})
}
