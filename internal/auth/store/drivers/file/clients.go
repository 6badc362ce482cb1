package file

import (
	"context"
	"time"

	"github.com/inkpress/draftgate/internal/auth/domain"
	"github.com/inkpress/draftgate/internal/auth/store"
)

// clientRecord is the on-disk shape of a registered client. The client ID is
// the map key in clients.json and is not repeated inside the record.
type clientRecord struct {
	Name          string    `json:"client_name,omitempty"`
	SecretHash    string    `json:"client_secret_hash,omitempty"`
	RedirectURIs  []string  `json:"redirect_uris"`
	GrantTypes    []string  `json:"grant_types"`
	ResponseTypes []string  `json:"response_types"`
	Scopes        []string  `json:"scopes,omitempty"`
	AuthMethod    string    `json:"token_endpoint_auth_method"`
	CreatedAt     time.Time `json:"created_at"`
}

func clientToRecord(c domain.Client) clientRecord {
	return clientRecord{
		Name:          c.Name,
		SecretHash:    c.SecretHash,
		RedirectURIs:  c.RedirectURIs,
		GrantTypes:    c.GrantTypes,
		ResponseTypes: c.ResponseTypes,
		Scopes:        c.Scopes,
		AuthMethod:    c.AuthMethod,
		CreatedAt:     c.CreatedAt,
	}
}

func recordToClient(id string, r clientRecord) domain.Client {
	return domain.Client{
		ID:            id,
		Name:          r.Name,
		SecretHash:    r.SecretHash,
		RedirectURIs:  r.RedirectURIs,
		GrantTypes:    r.GrantTypes,
		ResponseTypes: r.ResponseTypes,
		Scopes:        r.Scopes,
		AuthMethod:    r.AuthMethod,
		CreatedAt:     r.CreatedAt,
	}
}

type clientsRepo struct {
	s *Store
}

var _ store.Clients = (*clientsRepo)(nil)

// ensureLoaded reads clients.json on first access. Callers must hold s.mu.
func (r *clientsRepo) ensureLoaded(ctx context.Context) error {
	if r.s.clients != nil {
		return nil
	}

	loaded := make(map[string]clientRecord)
	if err := r.s.readDocument(ctx, clientsFile, &loaded); err != nil {
		return err
	}
	r.s.clients = loaded
	return nil
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return domain.Client{}, err
	}

	rec, ok := r.s.clients[id]
	if !ok {
		return domain.Client{}, store.ErrNotFound
	}
	return recordToClient(id, rec), nil
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	if _, ok := r.s.clients[c.ID]; ok {
		return store.ErrAlreadyExists
	}

	r.s.clients[c.ID] = clientToRecord(c)
	if err := r.s.writeDocument(ctx, clientsFile, r.s.clients); err != nil {
		// Roll the cache back so memory matches disk.
		delete(r.s.clients, c.ID)
		return err
	}
	return nil
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out := make([]domain.Client, 0, len(r.s.clients))
	for id, rec := range r.s.clients {
		out = append(out, recordToClient(id, rec))
	}
	return out, nil
}
