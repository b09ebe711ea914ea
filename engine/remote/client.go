// Package remote wraps all outbound calls to the NegotiaPro backend
// services. Every authenticated call carries the session's bearer
// credential; a 401 from any of them tears the session down exactly
// once before the failure is surfaced.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/negotiapro/copilot/engine/auth/model"
	"github.com/negotiapro/copilot/engine/auth/session"
	"github.com/negotiapro/copilot/engine/negotiation"
	"github.com/negotiapro/copilot/pkg/logger"
)

const loginPath = "/api/auth/login"

// SessionController is the slice of the session store the client
// needs: the current credential and the forced-teardown hook.
type SessionController interface {
	Credential() string
	Logout(ctx context.Context) error
}

// Config holds the transport settings for the backend client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// Client is the authenticated HTTP client for the backend services.
type Client struct {
	http *resty.Client
	sess SessionController
}

// NewClient builds a client against the given backend. The session
// controller supplies the credential attached to every authenticated
// request.
func NewClient(cfg Config, sess SessionController) *Client {
	c := &Client{sess: sess}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	rc.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil {
			// A 401 teardown is final; replaying it would mask the
			// session-expired failure with a credential-less retry.
			return !errors.Is(err, ErrSessionExpired)
		}
		return resp.StatusCode() >= http.StatusInternalServerError
	})

	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if req.URL == loginPath {
			return nil
		}
		if cred := c.sess.Credential(); cred != "" {
			req.SetHeader("Authorization", "Bearer "+cred)
		}
		return nil
	})

	// A 401 on any authenticated call invalidates the session. The
	// credential comparison makes the teardown happen once per
	// server-side invalidation even when several calls are in flight.
	rc.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() != http.StatusUnauthorized {
			return nil
		}
		cred := bearerFrom(resp.Request)
		if cred == "" {
			return nil
		}
		if c.sess.Credential() == cred {
			ctx := resp.Request.Context()
			if err := c.sess.Logout(ctx); err != nil {
				logger.FromContext(ctx).Warn("forced logout failed", "error", err)
			}
		}
		return ErrSessionExpired
	})

	c.http = rc
	return c
}

func bearerFrom(req *resty.Request) string {
	const prefix = "Bearer "
	header := req.Header.Get("Authorization")
	if len(header) <= len(prefix) {
		return ""
	}
	return header[len(prefix):]
}

// transportErr classifies a resty-level error, keeping ErrSessionExpired
// intact when the 401 hook already produced it.
func transportErr(err error) error {
	if errors.Is(err, ErrSessionExpired) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// -----------------------------------------------------------------------------
// Auth service
// -----------------------------------------------------------------------------

type loginRequest struct {
	ActorID string `json:"actor_id"`
	Secret  string `json:"secret,omitempty"`
}

type identityPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	TeamID string `json:"team_id,omitempty"`
}

type loginResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	Message string          `json:"message,omitempty"`
	User    identityPayload `json:"user"`
}

// Authenticate implements session.Authenticator against the backend
// login endpoint. Both a non-2xx status and a 2xx body with
// success=false map to invalid credentials; transport failures map to
// an unreachable authority.
func (c *Client) Authenticate(ctx context.Context, actorID, secret string) (*model.Session, error) {
	var out loginResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(loginRequest{ActorID: actorID, Secret: secret}).
		SetResult(&out).
		Post(loginPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", session.ErrAuthorityUnreachable, err)
	}
	if !resp.IsSuccess() || !out.Success {
		return nil, fmt.Errorf("%w: login rejected for actor %q", session.ErrInvalidCredentials, actorID)
	}
	return &model.Session{
		ActorID:     out.User.ID,
		DisplayName: out.User.Name,
		Role:        model.Role(out.User.Role),
		Credential:  out.Token,
		TeamID:      out.User.TeamID,
	}, nil
}

// -----------------------------------------------------------------------------
// Playbook matching service
// -----------------------------------------------------------------------------

type matchRequest struct {
	UtteranceText string `json:"utterance_text"`
}

type matchResponse struct {
	Success bool                         `json:"success"`
	Data    []negotiation.Recommendation `json:"data"`
}

// MatchPlaybook requests script recommendations for the latest
// opponent utterance. Any failure maps to
// ErrRecommendationUnavailable; the conversation log is unaffected.
func (c *Client) MatchPlaybook(ctx context.Context, utteranceText string) ([]negotiation.Recommendation, error) {
	var out matchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(matchRequest{UtteranceText: utteranceText}).
		SetResult(&out).
		Post("/api/playbook/match")
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRecommendationUnavailable, err)
	}
	if !resp.IsSuccess() || !out.Success {
		return nil, fmt.Errorf("%w: match service returned status %d", ErrRecommendationUnavailable, resp.StatusCode())
	}
	return out.Data, nil
}

// -----------------------------------------------------------------------------
// Team dashboard service
// -----------------------------------------------------------------------------

// TeamDashboard is the aggregated team view served to leads. Only the
// fields the client renders are decoded.
type TeamDashboard struct {
	TeamID      string         `json:"team_id"`
	TeamName    string         `json:"team_name"`
	Overview    map[string]any `json:"overview"`
	MemberCount int            `json:"member_count"`
}

// FetchTeamDashboard retrieves the team dashboard. It is an
// authenticated call and therefore subject to the 401 teardown
// contract.
func (c *Client) FetchTeamDashboard(ctx context.Context, teamID string) (*TeamDashboard, error) {
	var out TeamDashboard
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/dashboard/team/" + teamID)
	if err != nil {
		return nil, transportErr(err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: dashboard returned status %d", ErrServer, resp.StatusCode())
	}
	return &out, nil
}

// -----------------------------------------------------------------------------
// Intelligence report service
// -----------------------------------------------------------------------------

// IntelligenceReport is the counterparty briefing produced by the
// report generator.
type IntelligenceReport struct {
	FunderName        string           `json:"fund_name"`
	FunderType        string           `json:"fund_type"`
	CooperationStatus string           `json:"cooperation_status"`
	Suggestions       []map[string]any `json:"suggestions"`
}

type intelligenceRequest struct {
	FunderName string `json:"funder_name"`
}

type intelligenceResponse struct {
	Success bool               `json:"success"`
	Data    IntelligenceReport `json:"data"`
}

// GenerateIntelligence asks the report generator for a counterparty
// briefing.
func (c *Client) GenerateIntelligence(ctx context.Context, funderName string) (*IntelligenceReport, error) {
	var out intelligenceResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(intelligenceRequest{FunderName: funderName}).
		SetResult(&out).
		Post("/api/intelligence/generate")
	if err != nil {
		return nil, transportErr(err)
	}
	if !resp.IsSuccess() || !out.Success {
		return nil, fmt.Errorf("%w: intelligence service returned status %d", ErrServer, resp.StatusCode())
	}
	return &out.Data, nil
}
