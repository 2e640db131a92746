package guard

import (
	"testing"

	"github.com/kalindafab/eventease-auth/domain"
)

type fakeSession struct {
	user *domain.User
}

func (f fakeSession) IsAuthenticated() bool {
	return f.user != nil
}

func (f fakeSession) CurrentUser() *domain.User {
	return f.user
}

func TestDecide(t *testing.T) {
	approvedManager := &domain.User{
		Role:        domain.RoleManager,
		Status:      domain.StatusApproved,
		Permissions: []string{domain.CanCreateEvents, domain.CanViewOwnEvents},
	}
	pendingManager := &domain.User{
		Role:        domain.RoleManager,
		Status:      domain.StatusPending,
		Permissions: []string{domain.CanCreateEvents},
	}
	lockedAdmin := &domain.User{
		Role:        domain.RoleAdmin,
		Status:      domain.StatusLocked,
		Permissions: []string{domain.CanManageUsers},
	}

	tests := []struct {
		name     string
		user     *domain.User
		required []string
		want     Decision
	}{
		{
			name: "unauthenticated goes to login",
			user: nil,
			want: RedirectLogin,
		},
		{
			name:     "unauthenticated with required permission still goes to login",
			user:     nil,
			required: []string{domain.CanCreateEvents},
			want:     RedirectLogin,
		},
		{
			name: "authenticated with no requirement allowed",
			user: approvedManager,
			want: Allow,
		},
		{
			name:     "held permission allowed",
			user:     approvedManager,
			required: []string{domain.CanCreateEvents},
			want:     Allow,
		},
		{
			name:     "any one of several required permissions suffices",
			user:     approvedManager,
			required: []string{domain.CanManageUsers, domain.CanViewOwnEvents},
			want:     Allow,
		},
		{
			name:     "none of the required permissions held",
			user:     approvedManager,
			required: []string{domain.CanManageUsers, domain.CanApproveManagers},
			want:     RedirectUnauthorized,
		},
		{
			name: "pending manager goes to the approval surface, not login",
			user: pendingManager,
			want: RedirectPending,
		},
		{
			name:     "pending wins over the permission check",
			user:     pendingManager,
			required: []string{domain.CanCreateEvents},
			want:     RedirectPending,
		},
		{
			name:     "locked account denied despite listed permission",
			user:     lockedAdmin,
			required: []string{domain.CanManageUsers},
			want:     RedirectUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(fakeSession{user: tt.user}, tt.required...); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecisionTarget(t *testing.T) {
	tests := []struct {
		decision Decision
		want     string
	}{
		{Allow, ""},
		{RedirectLogin, "/login"},
		{RedirectPending, "/pending-approval"},
		{RedirectUnauthorized, "/unauthorized"},
	}
	for _, tt := range tests {
		if got := tt.decision.Target(); got != tt.want {
			t.Errorf("%s.Target() = %q, want %q", tt.decision, got, tt.want)
		}
	}
}

func TestDenialLeavesSessionUntouched(t *testing.T) {
	user := &domain.User{Role: domain.RoleClient, Status: domain.StatusApproved, Permissions: []string{domain.CanBrowseEvents}}
	sess := fakeSession{user: user}

	if got := Decide(sess, domain.CanManageUsers, domain.CanApproveManagers); got != RedirectUnauthorized {
		t.Fatalf("Decide() = %v, want RedirectUnauthorized", got)
	}
	if !sess.IsAuthenticated() {
		t.Error("denial must not change the authenticated state")
	}
}
