package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/tawargy/sqliteserver/internal/core/domain"
	"github.com/tawargy/sqliteserver/internal/core/policy"
)

type stubProber struct {
	exists bool
	err    error
	calls  int
}

func (p *stubProber) UserExists(_ context.Context, _ string) (bool, error) {
	p.calls++
	return p.exists, p.err
}

const strongPassword = "Str0ng!Pass"

func extract(t *testing.T, prober *stubProber, body string) domain.ValidationOutcome {
	t.Helper()
	x := NewRegistrationExtractor(prober)
	out, err := x.Extract(context.Background(), gjson.Parse(body))
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	return out
}

func TestExtractor_Valid(t *testing.T) {
	prober := &stubProber{}
	out := extract(t, prober, `{"username":"alice","password":"Str0ng!Pass","role":"member","user_data":{"contact":{"email":"a@b.com"}}}`)

	req, ok := out.Request()
	if !ok {
		rej, _ := out.Rejection()
		t.Fatalf("expected valid outcome, got rejection %+v", rej)
	}
	if req.Username != "alice" || req.Role != "member" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.PasswordHash != policy.HashPassword(strongPassword) || len(req.PasswordHash) != 64 {
		t.Fatalf("unexpected hash: %s", req.PasswordHash)
	}
	if string(req.UserData) != `{"contact":{"email":"a@b.com"}}` {
		t.Fatalf("unexpected user data: %s", req.UserData)
	}
	if prober.calls != 1 {
		t.Fatalf("expected one existence probe, got %d", prober.calls)
	}
}

func TestExtractor_Rejections(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		exists     bool
		wantMsg    string
		wantDetail string
		wantKind   domain.Kind
		wantProbes int
	}{
		{
			name:       "uppercase username",
			body:       `{"username":"Alice_1","password":"Str0ng!Pass","role":"member","user_data":{"contact":{"email":"a@b.com"}}}`,
			wantMsg:    msgInvalidUsername,
			wantKind:   domain.KindPolicy,
			wantProbes: 0,
		},
		{
			name:       "username checked before password",
			body:       `{"username":"1bad","password":"weak"}`,
			wantMsg:    msgInvalidUsername,
			wantKind:   domain.KindPolicy,
			wantProbes: 0,
		},
		{
			name:       "missing username",
			body:       `{"password":"Str0ng!Pass","role":"member","user_data":{"contact":{"email":"a@b.com"}}}`,
			wantMsg:    msgInvalidUsername,
			wantKind:   domain.KindPolicy,
			wantProbes: 0,
		},
		{
			name:       "numeric username",
			body:       `{"username":42,"password":"Str0ng!Pass"}`,
			wantMsg:    msgInvalidData,
			wantDetail: "Missing or malformed field: username",
			wantKind:   domain.KindMalformedInput,
			wantProbes: 0,
		},
		{
			name:       "weak password",
			body:       `{"username":"alice","password":"weak","role":"member","user_data":{"contact":{"email":"a@b.com"}}}`,
			wantMsg:    msgInvalidPassword,
			wantDetail: "Password is weak",
			wantKind:   domain.KindPolicy,
			wantProbes: 0,
		},
		{
			name:       "missing role",
			body:       `{"username":"alice","password":"Str0ng!Pass","user_data":{"contact":{"email":"a@b.com"}}}`,
			wantMsg:    msgInvalidData,
			wantDetail: "Missing or malformed field: role",
			wantKind:   domain.KindMalformedInput,
			wantProbes: 0,
		},
		{
			name:       "user_data is a string",
			body:       `{"username":"alice","password":"Str0ng!Pass","role":"member","user_data":"{}"}`,
			wantMsg:    msgInvalidData,
			wantDetail: "Missing or malformed field: user_data",
			wantKind:   domain.KindMalformedInput,
			wantProbes: 0,
		},
		{
			name:       "missing email",
			body:       `{"username":"alice","password":"Str0ng!Pass","role":"member","user_data":{"contact":{}}}`,
			wantMsg:    msgInvalidData,
			wantDetail: "Missing or malformed field: user_data.contact.email",
			wantKind:   domain.KindMalformedInput,
			wantProbes: 0,
		},
		{
			name:       "user exists",
			body:       `{"username":"alice","password":"Str0ng!Pass","role":"member","user_data":{"contact":{"email":"a@b.com"}}}`,
			exists:     true,
			wantMsg:    msgUserExists,
			wantDetail: "User already exists",
			wantKind:   domain.KindConflict,
			wantProbes: 1,
		},
		{
			name:       "existence checked before email format",
			body:       `{"username":"alice","password":"Str0ng!Pass","role":"member","user_data":{"contact":{"email":"nope"}}}`,
			exists:     true,
			wantMsg:    msgUserExists,
			wantKind:   domain.KindConflict,
			wantProbes: 1,
		},
		{
			name:       "invalid email",
			body:       `{"username":"alice","password":"Str0ng!Pass","role":"member","user_data":{"contact":{"email":"a@b"}}}`,
			wantMsg:    msgInvalidData,
			wantDetail: "Invalid email format",
			wantKind:   domain.KindPolicy,
			wantProbes: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prober := &stubProber{exists: tc.exists}
			out := extract(t, prober, tc.body)

			rej, ok := out.Rejection()
			if !ok {
				t.Fatalf("expected rejection")
			}
			if rej.StatusMessage != tc.wantMsg {
				t.Fatalf("status message = %q, want %q", rej.StatusMessage, tc.wantMsg)
			}
			if tc.wantDetail != "" && rej.Detail != tc.wantDetail {
				t.Fatalf("detail = %q, want %q", rej.Detail, tc.wantDetail)
			}
			if rej.Kind != tc.wantKind {
				t.Fatalf("kind = %s, want %s", rej.Kind, tc.wantKind)
			}
			if rej.Code != domain.StatusRejected || rej.HTTPStatus != 400 {
				t.Fatalf("unexpected code/status: %d/%d", rej.Code, rej.HTTPStatus)
			}
			if prober.calls != tc.wantProbes {
				t.Fatalf("existence probes = %d, want %d", prober.calls, tc.wantProbes)
			}
			if strings.Contains(rej.StatusMessage+rej.Detail, strongPassword) {
				t.Fatalf("rejection leaks the raw password")
			}
		})
	}
}

func TestExtractor_ProbeFailureIsAnError(t *testing.T) {
	prober := &stubProber{err: domain.ErrTimeout}
	x := NewRegistrationExtractor(prober)

	_, err := x.Extract(context.Background(), gjson.Parse(
		`{"username":"alice","password":"Str0ng!Pass","role":"member","user_data":{"contact":{"email":"a@b.com"}}}`))
	if !errors.Is(err, domain.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
