package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/negotiapro/copilot/engine/auth/model"
	"github.com/negotiapro/copilot/engine/auth/session"
)

type stubController struct {
	cred    string
	logouts int
}

func (s *stubController) Credential() string { return s.cred }

func (s *stubController) Logout(context.Context) error {
	s.logouts++
	s.cred = ""
	return nil
}

func newTestClient(baseURL string, ctrl SessionController) *Client {
	return NewClient(Config{BaseURL: baseURL, Timeout: 2 * time.Second, RetryCount: 0}, ctrl)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should map a successful login to a session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/login", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"), "login must not carry a credential")
			var req map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "zhangsan", req["actor_id"])
			writeJSON(t, w, map[string]any{
				"success": true,
				"token":   "tok-123",
				"user": map[string]string{
					"id": "u1", "name": "Zhang San", "role": "team_leader", "team_id": "t9",
				},
			})
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, &stubController{})
		sess, err := c.Authenticate(ctx, "zhangsan", "secret")
		require.NoError(t, err)
		assert.Equal(t, "u1", sess.ActorID)
		assert.Equal(t, "Zhang San", sess.DisplayName)
		assert.Equal(t, model.RoleTeamLeader, sess.Role)
		assert.Equal(t, "tok-123", sess.Credential)
		assert.Equal(t, "t9", sess.TeamID)
	})

	t.Run("Should map a rejection body to invalid credentials", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, map[string]any{"success": false, "message": "bad secret"})
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, &stubController{})
		_, err := c.Authenticate(ctx, "zhangsan", "wrong")
		assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	})

	t.Run("Should map a non-2xx status to invalid credentials", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, &stubController{})
		_, err := c.Authenticate(ctx, "zhangsan", "secret")
		assert.ErrorIs(t, err, session.ErrInvalidCredentials)
	})

	t.Run("Should map a transport failure to an unreachable authority", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		c := newTestClient(srv.URL, &stubController{})
		_, err := c.Authenticate(ctx, "zhangsan", "secret")
		assert.ErrorIs(t, err, session.ErrAuthorityUnreachable)
	})
}

func TestMatchPlaybook(t *testing.T) {
	ctx := context.Background()

	t.Run("Should attach the bearer credential and decode recommendations", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/playbook/match", r.URL.Path)
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			writeJSON(t, w, map[string]any{
				"success": true,
				"data": []map[string]string{
					{"id": "script_001", "scene": "Deposit", "title": "Stepped plan", "body": "I propose a stepped arrangement.", "tip": "Tie to performance"},
				},
			})
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, &stubController{cred: "tok-123"})
		items, err := c.MatchPlaybook(ctx, "the deposit must go up")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "script_001", items[0].ID)
		assert.Equal(t, "Stepped plan", items[0].Title)
	})

	t.Run("Should map a server failure to an unavailable recommendation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, &stubController{cred: "tok-123"})
		_, err := c.MatchPlaybook(ctx, "hello")
		assert.ErrorIs(t, err, ErrRecommendationUnavailable)
	})

	t.Run("Should map a rejection body to an unavailable recommendation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(t, w, map[string]any{"success": false})
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, &stubController{cred: "tok-123"})
		_, err := c.MatchPlaybook(ctx, "hello")
		assert.ErrorIs(t, err, ErrRecommendationUnavailable)
	})
}

func TestSessionTeardown(t *testing.T) {
	ctx := context.Background()

	t.Run("Should tear the session down once on 401 and surface expiry", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		ctrl := &stubController{cred: "tok-123"}
		c := newTestClient(srv.URL, ctrl)

		_, err := c.MatchPlaybook(ctx, "hello")
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.Equal(t, 1, ctrl.logouts)

		// The credential is gone, so a later 401 is an anonymous
		// rejection rather than another teardown.
		_, err = c.MatchPlaybook(ctx, "hello again")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSessionExpired)
		assert.Equal(t, 1, ctrl.logouts)
	})

	t.Run("Should not retry a call that expired the session", func(t *testing.T) {
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		ctrl := &stubController{cred: "tok-123"}
		c := NewClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, RetryCount: 3}, ctrl)

		_, err := c.MatchPlaybook(ctx, "hello")
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.Equal(t, 1, hits)
		assert.Equal(t, 1, ctrl.logouts)
	})
}

func TestFetchTeamDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("Should fetch the dashboard for the team", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/dashboard/team/t9", r.URL.Path)
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			writeJSON(t, w, map[string]any{
				"team_id": "t9", "team_name": "North Region", "member_count": 7,
				"overview": map[string]any{"active_sessions": 3},
			})
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, &stubController{cred: "tok-123"})
		dash, err := c.FetchTeamDashboard(ctx, "t9")
		require.NoError(t, err)
		assert.Equal(t, "North Region", dash.TeamName)
		assert.Equal(t, 7, dash.MemberCount)
	})

	t.Run("Should map a server failure to a server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, &stubController{cred: "tok-123"})
		_, err := c.FetchTeamDashboard(ctx, "t9")
		assert.ErrorIs(t, err, ErrServer)
	})

	t.Run("Should map a transport failure to a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		c := newTestClient(srv.URL, &stubController{cred: "tok-123"})
		_, err := c.FetchTeamDashboard(ctx, "t9")
		assert.ErrorIs(t, err, ErrNetwork)
	})
}

func TestGenerateIntelligence(t *testing.T) {
	t.Run("Should decode the counterparty briefing", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/intelligence/generate", r.URL.Path)
			writeJSON(t, w, map[string]any{
				"success": true,
				"data": map[string]any{
					"fund_name": "Zhongguancun Bank", "fund_type": "joint-stock bank",
					"cooperation_status": "active",
				},
			})
		}))
		defer srv.Close()

		c := newTestClient(srv.URL, &stubController{cred: "tok-123"})
		report, err := c.GenerateIntelligence(context.Background(), "Zhongguancun Bank")
		require.NoError(t, err)
		assert.Equal(t, "Zhongguancun Bank", report.FunderName)
		assert.Equal(t, "active", report.CooperationStatus)
	})
}
