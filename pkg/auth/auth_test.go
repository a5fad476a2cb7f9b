package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

// mockAuthn is a test authenticator with a fixed vote.
type mockAuthn struct {
	result AuthResult
	calls  int
}

func (m *mockAuthn) Authenticate(_ context.Context, _ *http.Request) AuthResult {
	m.calls++
	return m.result
}

func TestAuthChain(t *testing.T) {
	yes := AuthResult{Decision: Yes, Identity: &Identity{Subject: "bob"}}
	no := AuthResult{Decision: No, Err: ErrUnauthenticated}
	abstain := AuthResult{Decision: Abstain}

	tests := []struct {
		name        string
		votes       []AuthResult
		def         AuthDecision
		want        AuthDecision
		wantSubject string
	}{
		{"first yes stops", []AuthResult{yes, no}, No, Yes, "bob"},
		{"first no stops", []AuthResult{no, yes}, Yes, No, ""},
		{"abstain then yes", []AuthResult{abstain, yes}, No, Yes, "bob"},
		{"all abstain default reject", []AuthResult{abstain, abstain}, No, No, ""},
		{"all abstain default admit", []AuthResult{abstain}, Yes, Yes, "anonymous"},
		{"empty chain default admit", nil, Yes, Yes, "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := &AuthChain{DefaultDecision: tt.def}
			for _, v := range tt.votes {
				chain.Authenticators = append(chain.Authenticators, &mockAuthn{result: v})
			}

			r, _ := http.NewRequest("GET", "/api/activities", nil)
			result := chain.Authenticate(context.Background(), r)

			if result.Decision != tt.want {
				t.Fatalf("Decision = %d, want %d", result.Decision, tt.want)
			}
			if tt.want == No && !errors.Is(result.Err, ErrUnauthenticated) {
				t.Errorf("Err = %v, want ErrUnauthenticated", result.Err)
			}
			if tt.wantSubject != "" && result.Identity.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", result.Identity.Subject, tt.wantSubject)
			}
		})
	}
}

func TestAuthChain_StopsEvaluating(t *testing.T) {
	second := &mockAuthn{result: AuthResult{Decision: Yes, Identity: &Identity{Subject: "late"}}}
	chain := &AuthChain{Authenticators: []Authenticator{
		&mockAuthn{result: AuthResult{Decision: No, Err: ErrUnauthenticated}},
		second,
	}}

	r, _ := http.NewRequest("GET", "/", nil)
	chain.Authenticate(context.Background(), r)

	if second.calls != 0 {
		t.Errorf("second authenticator called %d times, want 0", second.calls)
	}
}

func TestAnonymousIdentityIsFresh(t *testing.T) {
	chain := &AuthChain{DefaultDecision: Yes}
	r, _ := http.NewRequest("GET", "/", nil)

	first := chain.Authenticate(context.Background(), r).Identity
	first.TenantID = "mutated"

	second := chain.Authenticate(context.Background(), r).Identity
	if second.TenantID != "" {
		t.Errorf("anonymous identity shared between requests: %+v", second)
	}
}

func TestIdentityContext(t *testing.T) {
	if IdentityFromContext(context.Background()) != nil {
		t.Error("expected nil identity in empty context")
	}

	ctx := SetIdentity(context.Background(), &Identity{Subject: "bob"})
	if got := IdentityFromContext(ctx); got == nil || got.Subject != "bob" {
		t.Errorf("IdentityFromContext = %+v", got)
	}
}
