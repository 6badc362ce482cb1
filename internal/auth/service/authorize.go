package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/inkpress/draftgate/internal/auth/domain"
	"github.com/inkpress/draftgate/pkg/slogx"
)

// AuthorizeService validates authorization requests and hands out codes.
type AuthorizeService struct {
	clients *ClientService
	codes   *CodeIssuer
}

func NewAuthorizeService(clients *ClientService, codes *CodeIssuer) *AuthorizeService {
	return &AuthorizeService{clients: clients, codes: codes}
}

type AuthorizeParams struct {
	ClientID            string
	RedirectURI         string
	ResponseType        string
	Scopes              []string
	State               string
	Resource            string
	CodeChallenge       string
	CodeChallengeMethod string
}

// Authorize validates the request against the client's registration and
// issues a code bound to it. Client and redirect URI failures come back as
// ErrInvalidClient / ErrInvalidRedirect so the handler knows it must NOT
// redirect; everything after that point is safe to report at the redirect
// URI.
func (s *AuthorizeService) Authorize(ctx context.Context, p AuthorizeParams) (domain.AuthorizationCode, error) {
	client, err := s.clients.Get(ctx, p.ClientID)
	if err != nil {
		return domain.AuthorizationCode{}, err
	}

	redirectURI := p.RedirectURI
	switch {
	case redirectURI == "" && len(client.RedirectURIs) == 1:
		redirectURI = client.RedirectURIs[0]
	case redirectURI == "":
		return domain.AuthorizationCode{}, ErrInvalidRedirect
	case !client.HasRedirectURI(redirectURI):
		return domain.AuthorizationCode{}, ErrInvalidRedirect
	}

	if p.ResponseType != "code" || !slices.Contains(client.ResponseTypes, "code") {
		return domain.AuthorizationCode{}, ErrUnsupportedResponseType
	}

	if len(client.Scopes) > 0 {
		for _, sc := range p.Scopes {
			if !slices.Contains(client.Scopes, sc) {
				return domain.AuthorizationCode{}, ErrInvalidScope
			}
		}
	}

	challengeMethod := p.CodeChallengeMethod
	if p.CodeChallenge != "" {
		if challengeMethod == "" {
			challengeMethod = "plain"
		}
		if challengeMethod != "plain" && challengeMethod != "S256" {
			return domain.AuthorizationCode{}, NewValidationError(
				"code_challenge_method",
				fmt.Sprintf("unsupported method %q", challengeMethod),
			)
		}
	}

	code, err := s.codes.Issue(IssueParams{
		ClientID:            client.ID,
		Scopes:              p.Scopes,
		Resource:            p.Resource,
		RedirectURI:         redirectURI,
		CodeChallenge:       p.CodeChallenge,
		CodeChallengeMethod: challengeMethod,
		State:               p.State,
	})
	if err != nil {
		return domain.AuthorizationCode{}, err
	}

	slogx.FromContext(ctx).Info("authorization code issued",
		"client_id", client.ID,
		"scopes", p.Scopes,
		"pkce", p.CodeChallenge != "",
	)
	return code, nil
}
