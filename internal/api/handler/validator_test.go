package handler

import (
	"strings"
	"testing"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		req  any
		want []string
	}{
		{
			name: "login",
			req:  &loginRequest{Email: "nope"},
			want: []string{"email must be a valid email", "password is required"},
		},
		{
			name: "register",
			req:  &registerRequest{Email: "a@bank.test", Password: "short", FirstName: "A", Roles: []string{}},
			want: []string{"password must be at least 8 characters", "roles needs at least 1 item(s)"},
		},
		{
			name: "unknown role",
			req:  &registerRequest{Email: "a@bank.test", Password: "long-enough", FirstName: "A", Roles: []string{"AUDITOR"}},
			want: []string{"roles[0] must be one of: ADMIN CLIENT"},
		},
		{
			name: "check path",
			req:  &checkRequest{Path: "admin"},
			want: []string{`Path must start with "/"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("expected %q in %q", w, err.Error())
				}
			}
		})
	}

	if err := v.Validate(&loginRequest{Email: "a@bank.test", Password: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
