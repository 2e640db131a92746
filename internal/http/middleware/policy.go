package middleware

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/util"
)

// RoutePolicy maps request routes to the permission tokens that unlock
// them. The table is a Casbin file policy with rows of the form
//
//	p, <permission>, <path pattern>, <method pattern>
//
// where the path supports keyMatch2 patterns (/events/:id) and the method
// supports (GET|POST) alternation. Several rows for one route mean "any
// one of these permissions" — the evaluator's OR semantics carry through.
// A "*" permission row marks the route as authenticated-only.
type RoutePolicy struct {
	enforcer *casbin.Enforcer
}

// NewRoutePolicy loads the model and policy from files
func NewRoutePolicy(modelPath, policyPath string) (*RoutePolicy, error) {
	e, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load route policy: %w", err)
	}
	return &RoutePolicy{enforcer: e}, nil
}

// RequiredPermissions returns the permission tokens gating path+method.
// An empty result means the route only requires authentication.
func (p *RoutePolicy) RequiredPermissions(path, method string) ([]string, error) {
	policies, err := p.enforcer.GetPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to read route policy: %w", err)
	}

	var required []string
	for _, policy := range policies {
		if len(policy) < 3 {
			continue
		}
		perm, pattern, methods := policy[0], policy[1], policy[2]
		if !util.KeyMatch2(path, pattern) || !methodMatches(method, methods) {
			continue
		}
		if perm == "*" {
			continue
		}
		required = append(required, perm)
	}
	return required, nil
}

// methodMatches supports exact methods, "*", and (GET|POST) alternation
func methodMatches(requestMethod, policyMethod string) bool {
	if requestMethod == policyMethod || policyMethod == "*" {
		return true
	}
	if strings.HasPrefix(policyMethod, "(") && strings.HasSuffix(policyMethod, ")") {
		pattern := strings.Trim(policyMethod, "()")
		regex, err := regexp.Compile("^(" + pattern + ")$")
		if err != nil {
			return false
		}
		return regex.MatchString(requestMethod)
	}
	return false
}
