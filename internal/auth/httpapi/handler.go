// Package httpapi exposes the OAuth2 authorization server and the protected
// article publishing surface over HTTP.
package httpapi

import (
	"time"

	"github.com/inkpress/draftgate/internal/auth/service"
	"github.com/inkpress/draftgate/internal/auth/store"
	"github.com/inkpress/draftgate/internal/platform"
	"github.com/inkpress/draftgate/pkg/jwtx"
)

// Handler carries the wired services behind the HTTP surface.
type Handler struct {
	clients   *service.ClientService
	authorize *service.AuthorizeService
	codes     *service.CodeIssuer
	tokens    *service.TokenService
	publisher *platform.Client
	signer    *jwtx.Signer
	store     store.Store

	issuer    string
	version   string
	startedAt time.Time
}

// Deps are the dependencies the handler needs; all fields are required
// except Publisher, without which the article endpoints answer 503.
type Deps struct {
	Clients   *service.ClientService
	Authorize *service.AuthorizeService
	Codes     *service.CodeIssuer
	Tokens    *service.TokenService
	Publisher *platform.Client
	Signer    *jwtx.Signer
	Store     store.Store

	Issuer  string
	Version string
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		clients:   d.Clients,
		authorize: d.Authorize,
		codes:     d.Codes,
		tokens:    d.Tokens,
		publisher: d.Publisher,
		signer:    d.Signer,
		store:     d.Store,
		issuer:    d.Issuer,
		version:   d.Version,
		startedAt: time.Now(),
	}
}
