package authz

import "strings"

// Pseudo-roles usable in Rule.Roles alongside concrete role names.
const (
	// Public permits any request, authenticated or not.
	Public = "public"
	// Authenticated permits any principal regardless of role.
	Authenticated = "authenticated"
)

// Decision is the outcome of evaluating a request against a Policy.
type Decision int

const (
	// Allow lets the request through.
	Allow Decision = iota
	// Unauthorized means the matched rule requires authentication and
	// the request carried none.
	Unauthorized
	// Forbidden means the principal is authenticated but its role does
	// not satisfy the matched rule.
	Forbidden
)

// Rule binds an HTTP verb and path pattern to the roles allowed.
// Method "*" matches any verb. Roles must not be empty; use Public or
// Authenticated for routes without a role requirement.
type Rule struct {
	Method  string
	Pattern string
	Roles   []string
}

// Policy is an ordered rule table. Rules are consulted by specificity,
// not declaration order: the matching rule with the longest literal
// segment prefix wins, and declaration order breaks ties.
type Policy struct {
	rules []Rule
}

// New builds a Policy from the given rules.
func New(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// Evaluate decides whether a request may proceed. role is the
// principal's role and is ignored when authenticated is false. Paths no
// rule covers are allowed.
func (p *Policy) Evaluate(method, path string, role string, authenticated bool) Decision {
	rule, ok := p.match(method, path)
	if !ok {
		return Allow
	}

	for _, r := range rule.Roles {
		if r == Public {
			return Allow
		}
	}
	if !authenticated {
		return Unauthorized
	}
	for _, r := range rule.Roles {
		if r == Authenticated || r == role {
			return Allow
		}
	}
	return Forbidden
}

// match finds the most specific rule covering method and path.
func (p *Policy) match(method, path string) (Rule, bool) {
	segments := splitPath(path)

	var (
		best     Rule
		bestScore = -1
		found    bool
	)
	for _, r := range p.rules {
		if r.Method != "*" && !strings.EqualFold(r.Method, method) {
			continue
		}
		score, ok := matchSegments(splitPath(r.Pattern), segments)
		if !ok {
			continue
		}
		// Strictly greater: the earliest declared rule wins a tie.
		if score > bestScore {
			best, bestScore, found = r, score, true
		}
	}
	return best, found
}

// matchSegments matches a pattern against a path segment by segment.
// It returns the specificity of the match: the number of literal
// segments preceding the first wildcard.
func matchSegments(pattern, path []string) (int, bool) {
	score := 0
	counting := true
	for i, p := range pattern {
		if p == "**" {
			// Consumes the rest of the path, including nothing.
			return score, true
		}
		if i >= len(path) {
			return 0, false
		}
		switch {
		case p == "*":
			counting = false
		case p == path[i]:
			if counting {
				score++
			}
		default:
			return 0, false
		}
	}
	if len(path) != len(pattern) {
		return 0, false
	}
	return score, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
