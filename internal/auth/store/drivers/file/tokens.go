package file

import (
	"context"
	"time"

	"github.com/inkpress/draftgate/internal/auth/domain"
	"github.com/inkpress/draftgate/internal/auth/store"
)

// tokenRecord is the on-disk shape of a stored token. The token value is the
// map key in tokens.json; expiry is persisted as epoch milliseconds.
type tokenRecord struct {
	Type      domain.TokenType `json:"type"`
	ClientID  string           `json:"client_id"`
	Scopes    []string         `json:"scopes,omitempty"`
	ExpiresAt int64            `json:"expires_at"`
	Resource  string           `json:"resource,omitempty"`
	Linked    string           `json:"linked_token,omitempty"`
}

func tokenToRecord(t domain.Token) tokenRecord {
	return tokenRecord{
		Type:      t.Type,
		ClientID:  t.ClientID,
		Scopes:    t.Scopes,
		ExpiresAt: t.ExpiresAt.UnixMilli(),
		Resource:  t.Resource,
		Linked:    t.Linked,
	}
}

func recordToToken(value string, r tokenRecord) domain.Token {
	return domain.Token{
		Value:     value,
		Type:      r.Type,
		ClientID:  r.ClientID,
		Scopes:    r.Scopes,
		ExpiresAt: time.UnixMilli(r.ExpiresAt),
		Resource:  r.Resource,
		Linked:    r.Linked,
	}
}

type tokensRepo struct {
	s *Store
}

var _ store.Tokens = (*tokensRepo)(nil)

// ensureLoaded reads tokens.json on first access and drops entries that are
// already expired, so a restart starts from a clean set. Callers must hold
// s.mu.
func (r *tokensRepo) ensureLoaded(ctx context.Context) error {
	if r.s.tokens != nil {
		return nil
	}

	loaded := make(map[string]tokenRecord)
	if err := r.s.readDocument(ctx, tokensFile, &loaded); err != nil {
		return err
	}

	now := r.s.now()
	for value, rec := range loaded {
		if recordToToken(value, rec).Expired(now) {
			delete(loaded, value)
		}
	}
	r.s.tokens = loaded
	return nil
}

func (r *tokensRepo) GetToken(ctx context.Context, value string) (domain.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return domain.Token{}, err
	}

	rec, ok := r.s.tokens[value]
	if !ok {
		return domain.Token{}, store.ErrNotFound
	}
	return recordToToken(value, rec), nil
}

func (r *tokensRepo) ReplaceTokens(ctx context.Context, deletes []string, puts []domain.Token) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}

	// Stage the mutation on a copy so a failed write leaves the cache intact.
	next := make(map[string]tokenRecord, len(r.s.tokens)+len(puts))
	for value, rec := range r.s.tokens {
		next[value] = rec
	}
	for _, value := range deletes {
		delete(next, value)
	}
	for _, t := range puts {
		next[t.Value] = tokenToRecord(t)
	}

	if err := r.s.writeDocument(ctx, tokensFile, next); err != nil {
		return err
	}
	r.s.tokens = next
	return nil
}

func (r *tokensRepo) ListTokens(ctx context.Context) ([]domain.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out := make([]domain.Token, 0, len(r.s.tokens))
	for value, rec := range r.s.tokens {
		out = append(out, recordToToken(value, rec))
	}
	return out, nil
}
