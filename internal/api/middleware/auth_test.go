package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dynamicreport/report-api/internal/core/domain"
)

type stubCodec struct {
	decodeFn func(token string) (domain.Identity, error)
}

func (s *stubCodec) Encode(domain.Identity) (string, error) { return "", errors.New("not used") }

func (s *stubCodec) Decode(token string) (domain.Identity, error) { return s.decodeFn(token) }

type stubResolver struct {
	resolveFn func(ctx context.Context, identity domain.Identity) (string, error)
}

func (s *stubResolver) Resolve(ctx context.Context, identity domain.Identity) (string, error) {
	return s.resolveFn(ctx, identity)
}

var alice = domain.Identity{AccountID: 42, Username: "alice"}

func okCodec() *stubCodec {
	return &stubCodec{decodeFn: func(token string) (domain.Identity, error) {
		if token != "good-token" {
			return domain.Identity{}, domain.ErrDecryption
		}
		return alice, nil
	}}
}

func roleResolver(role string, err error) *stubResolver {
	return &stubResolver{resolveFn: func(_ context.Context, id domain.Identity) (string, error) {
		return role, err
	}}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Authenticate(okCodec(), roleResolver(domain.RoleUser, nil))(func(c echo.Context) error {
		called = true
		p, ok := domain.PrincipalFromContext(c.Request().Context())
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.Identity != alice || p.Role != domain.RoleUser {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		resolver *stubResolver
		want     error
	}{
		{"missing header", "", roleResolver(domain.RoleUser, nil), domain.ErrTokenFormat},
		{"wrong scheme", "Basic good-token", roleResolver(domain.RoleUser, nil), domain.ErrTokenFormat},
		{"extra parts", "Bearer good-token extra", roleResolver(domain.RoleUser, nil), domain.ErrTokenFormat},
		{"bad token", "Bearer forged", roleResolver(domain.RoleUser, nil), domain.ErrDecryption},
		{"no role", "Bearer good-token", roleResolver("", domain.ErrAccountRoleMissing), domain.ErrAccountRoleMissing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			h := Authenticate(okCodec(), tc.resolver)(func(c echo.Context) error {
				t.Fatalf("next must not be called")
				return nil
			})
			if err := h(c); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthenticate_ResolverReceivesDecodedIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	var got domain.Identity
	resolver := &stubResolver{resolveFn: func(_ context.Context, id domain.Identity) (string, error) {
		got = id
		return domain.RoleAdmin, nil
	}}
	h := Authenticate(okCodec(), resolver)(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != alice {
		t.Fatalf("resolver got %+v", got)
	}
}
