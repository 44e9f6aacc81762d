package authz

import "testing"

func testPolicy() *Policy {
	return New(
		Rule{Method: "*", Pattern: "/api/auth/**", Roles: []string{Public}},
		Rule{Method: "*", Pattern: "/api/admin/**", Roles: []string{"admin"}},
		Rule{Method: "GET", Pattern: "/api/courses/**", Roles: []string{Authenticated}},
		Rule{Method: "POST", Pattern: "/api/courses", Roles: []string{"admin"}},
		Rule{Method: "*", Pattern: "/api/users/me", Roles: []string{Authenticated}},
	)
}

func TestEvaluate_Table(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		name          string
		method, path  string
		role          string
		authenticated bool
		want          Decision
	}{
		{"public route anonymous", "POST", "/api/auth/login", "", false, Allow},
		{"public route authenticated", "POST", "/api/auth/login", "student", true, Allow},
		{"uncovered path is open", "GET", "/health", "", false, Allow},
		{"admin route anonymous", "GET", "/api/admin/users", "", false, Unauthorized},
		{"admin route wrong role", "GET", "/api/admin/users", "student", true, Forbidden},
		{"admin route admin", "GET", "/api/admin/users", "admin", true, Allow},
		{"authenticated route anonymous", "GET", "/api/courses/42", "", false, Unauthorized},
		{"authenticated route any role", "GET", "/api/courses/42", "student", true, Allow},
		{"verb-specific rule", "POST", "/api/courses", "student", true, Forbidden},
		{"verb-specific rule admin", "POST", "/api/courses", "admin", true, Allow},
		{"method case insensitive", "get", "/api/users/me", "student", true, Allow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Evaluate(tc.method, tc.path, tc.role, tc.authenticated)
			if got != tc.want {
				t.Errorf("Evaluate(%s %s role=%q auth=%v) = %v, want %v",
					tc.method, tc.path, tc.role, tc.authenticated, got, tc.want)
			}
		})
	}
}

func TestEvaluate_MostSpecificRuleWins(t *testing.T) {
	// The broad rule is declared first; the narrower one must still win.
	p := New(
		Rule{Method: "*", Pattern: "/api/**", Roles: []string{Authenticated}},
		Rule{Method: "*", Pattern: "/api/auth/**", Roles: []string{Public}},
	)

	if got := p.Evaluate("POST", "/api/auth/login", "", false); got != Allow {
		t.Errorf("expected the narrower public rule to win, got %v", got)
	}
	if got := p.Evaluate("GET", "/api/courses", "", false); got != Unauthorized {
		t.Errorf("expected the broad rule to apply elsewhere, got %v", got)
	}
}

func TestEvaluate_DeclarationOrderBreaksTies(t *testing.T) {
	p := New(
		Rule{Method: "*", Pattern: "/api/reports/**", Roles: []string{"admin"}},
		Rule{Method: "*", Pattern: "/api/reports/**", Roles: []string{Public}},
	)

	if got := p.Evaluate("GET", "/api/reports/daily", "", false); got != Unauthorized {
		t.Errorf("expected the first declared rule to win the tie, got %v", got)
	}
}

func TestMatchSegments(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		path      string
		wantScore int
		wantOK    bool
	}{
		{"exact", "/api/users/me", "/api/users/me", 3, true},
		{"exact mismatch", "/api/users/me", "/api/users/you", 0, false},
		{"single wildcard", "/api/courses/*", "/api/courses/42", 2, true},
		{"single wildcard too deep", "/api/courses/*", "/api/courses/42/classes", 0, false},
		{"tail wildcard", "/api/admin/**", "/api/admin/users/7/role", 2, true},
		{"tail wildcard matches empty rest", "/api/admin/**", "/api/admin", 2, true},
		{"wildcard stops specificity count", "/api/*/classes", "/api/42/classes", 1, true},
		{"pattern longer than path", "/api/users/me", "/api/users", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, ok := matchSegments(splitPath(tc.pattern), splitPath(tc.path))
			if ok != tc.wantOK || (ok && score != tc.wantScore) {
				t.Errorf("matchSegments(%q, %q) = (%d, %v), want (%d, %v)",
					tc.pattern, tc.path, score, ok, tc.wantScore, tc.wantOK)
			}
		})
	}
}
