package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/inkpress/draftgate/internal/auth/domain"
	"github.com/inkpress/draftgate/internal/auth/store"
	"github.com/inkpress/draftgate/pkg/cryptox"
	"github.com/inkpress/draftgate/pkg/idx"
	"github.com/inkpress/draftgate/pkg/slogx"
)

var (
	supportedGrantTypes    = []string{"authorization_code", "refresh_token"}
	supportedResponseTypes = []string{"code"}
	supportedAuthMethods   = []string{domain.AuthMethodSecretPost, domain.AuthMethodNone}
)

// ClientService handles dynamic client registration and lookup.
type ClientService struct {
	clients store.Clients
	now     func() time.Time
}

func NewClientService(clients store.Clients) *ClientService {
	return &ClientService{clients: clients, now: time.Now}
}

// RegisterParams carries the caller-supplied registration metadata. Omitted
// grant types, response types and auth method fall back to the
// authorization-code defaults.
type RegisterParams struct {
	Name          string
	RedirectURIs  []string
	GrantTypes    []string
	ResponseTypes []string
	Scopes        []string
	AuthMethod    string
}

// Register validates the metadata, mints a client ID and (for confidential
// clients) a secret, and persists the client. The plaintext secret is
// returned exactly once; only its Argon2id hash is stored.
func (s *ClientService) Register(ctx context.Context, p RegisterParams) (domain.Client, string, error) {
	log := slogx.FromContext(ctx)

	if err := validateRedirectURIs(p.RedirectURIs); err != nil {
		return domain.Client{}, "", err
	}

	grantTypes := p.GrantTypes
	if len(grantTypes) == 0 {
		grantTypes = []string{"authorization_code"}
	}
	for _, gt := range grantTypes {
		if !slices.Contains(supportedGrantTypes, gt) {
			return domain.Client{}, "", NewValidationError("grant_types", fmt.Sprintf("unsupported grant type %q", gt))
		}
	}
	if slices.Contains(grantTypes, "refresh_token") && !slices.Contains(grantTypes, "authorization_code") {
		return domain.Client{}, "", NewValidationError("grant_types", "refresh_token requires authorization_code")
	}

	responseTypes := p.ResponseTypes
	if len(responseTypes) == 0 {
		responseTypes = []string{"code"}
	}
	for _, rt := range responseTypes {
		if !slices.Contains(supportedResponseTypes, rt) {
			return domain.Client{}, "", NewValidationError("response_types", fmt.Sprintf("unsupported response type %q", rt))
		}
	}

	authMethod := p.AuthMethod
	if authMethod == "" {
		authMethod = domain.AuthMethodSecretPost
	}
	if !slices.Contains(supportedAuthMethods, authMethod) {
		return domain.Client{}, "", NewValidationError("token_endpoint_auth_method", fmt.Sprintf("unsupported method %q", authMethod))
	}

	client := domain.Client{
		ID:            idx.New().String(),
		Name:          p.Name,
		RedirectURIs:  p.RedirectURIs,
		GrantTypes:    grantTypes,
		ResponseTypes: responseTypes,
		Scopes:        p.Scopes,
		AuthMethod:    authMethod,
		CreatedAt:     s.now().UTC(),
	}

	var secret string
	if authMethod != domain.AuthMethodNone {
		var err error
		secret, err = cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return domain.Client{}, "", fmt.Errorf("generate client secret: %w", err)
		}
		client.SecretHash, err = cryptox.HashSecret(secret)
		if err != nil {
			return domain.Client{}, "", fmt.Errorf("hash client secret: %w", err)
		}
	}

	if err := s.clients.CreateClient(ctx, client); err != nil {
		return domain.Client{}, "", fmt.Errorf("persist client: %w", err)
	}

	log.Info("client registered",
		"client_id", client.ID,
		"client_name", client.Name,
		"public", client.IsPublic(),
	)
	return client, secret, nil
}

// Get fetches a registered client by ID.
func (s *ClientService) Get(ctx context.Context, id string) (domain.Client, error) {
	c, err := s.clients.GetClientByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrInvalidClient
		}
		return domain.Client{}, err
	}
	return c, nil
}

// Authenticate resolves a client and checks its credentials: confidential
// clients must present their secret, public clients must present none.
func (s *ClientService) Authenticate(ctx context.Context, id, secret string) (domain.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}

	if client.IsPublic() {
		if secret != "" {
			return domain.Client{}, ErrInvalidClient
		}
		return client, nil
	}

	if secret == "" {
		return domain.Client{}, ErrInvalidClient
	}
	if err := cryptox.VerifySecret(secret, client.SecretHash); err != nil {
		return domain.Client{}, ErrInvalidClient
	}
	return client, nil
}

func validateRedirectURIs(uris []string) error {
	if len(uris) == 0 {
		return NewValidationError("redirect_uris", "at least one redirect URI is required")
	}
	for _, raw := range uris {
		u, err := url.Parse(raw)
		if err != nil {
			return NewValidationError("redirect_uris", fmt.Sprintf("invalid URI %q", raw))
		}
		if !u.IsAbs() || (u.Scheme != "https" && u.Scheme != "http") {
			return NewValidationError("redirect_uris", fmt.Sprintf("%q must be an absolute http(s) URI", raw))
		}
		if u.Fragment != "" {
			return NewValidationError("redirect_uris", fmt.Sprintf("%q must not contain a fragment", raw))
		}
	}
	return nil
}
