// Package auth exposes the stored user session as request headers for
// authenticated backend calls. Nothing in the wheel depends on it.
package auth

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/exp/slog"

	"github.com/iburimskiy/roulette/internal/lib/logger/sl"
)

// UserDataKey is the fixed key the session record is stored under.
const UserDataKey = "userData"

const (
	HeaderAccessToken = "x-access-token"
	HeaderUserCode    = "codiusuario"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// User is the stored session record.
type User struct {
	Apellido    string `json:"apellido"`
	Aplicacion  int    `json:"aplicacion"`
	CodiUsuario string `json:"codiusuario"`
	IDUsuario   int    `json:"idUsuario"`
	Nombre      string `json:"nombre"`
	Token       string `json:"token"`
}

// Store is a persistent key-value store.
type Store interface {
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// HeaderProvider reads the user record from a Store on demand.
type HeaderProvider struct {
	store Store
	log   *slog.Logger
}

func NewHeaderProvider(store Store, log *slog.Logger) *HeaderProvider {
	if log == nil {
		log = sl.Discard()
	}
	return &HeaderProvider{store: store, log: log}
}

// User returns the stored user, or nil when none is stored.
func (p *HeaderProvider) User() (*User, error) {
	const op = "auth.HeaderProvider.User"

	data, ok, err := p.store.Load(UserDataKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, nil
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// Headers returns the access token and user code headers. Both are empty
// strings when no readable session exists.
func (p *HeaderProvider) Headers() http.Header {
	u, err := p.User()
	if err != nil {
		p.log.Warn("stored session unreadable", sl.Err(err))
	}
	return headersFor(u)
}

func headersFor(u *User) http.Header {
	var token, code string
	if u != nil {
		token, code = u.Token, u.CodiUsuario
	}

	h := make(http.Header, 2)
	h[HeaderAccessToken] = []string{token}
	h[HeaderUserCode] = []string{code}
	return h
}

// SaveUser stores u as the current session.
func (p *HeaderProvider) SaveUser(u User) error {
	const op = "auth.HeaderProvider.SaveUser"

	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := p.store.Save(UserDataKey, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear forgets the current session.
func (p *HeaderProvider) Clear() error {
	const op = "auth.HeaderProvider.Clear"

	if err := p.store.Delete(UserDataKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
