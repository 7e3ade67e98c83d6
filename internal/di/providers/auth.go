package providers

import (
	"github.com/samber/do/v2"

	"github.com/weddingwise/weddingwise-client/internal/auth"
	"github.com/weddingwise/weddingwise-client/internal/config"
	"github.com/weddingwise/weddingwise-client/internal/logger"
)

// AuthKey wraps the token signing key bytes.
type AuthKey []byte

// ProvideAuthKey loads the key from the configured directory, or generates an
// ephemeral one when no directory is set.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.FakeAPI.KeyDir == "" {
		key, err := auth.GenerateKey()
		if err != nil {
			return nil, err
		}
		log.Info("Using ephemeral token key; credentials will not survive a restart")
		return AuthKey(key), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.FakeAPI.KeyDir)
	if err != nil {
		return nil, err
	}
	log.Info("Token key loaded", "dir", cfg.FakeAPI.KeyDir)
	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(authKey, cfg.FakeAPI.AccessTokenTTL, cfg.FakeAPI.RefreshWindow)
}

// ProvidePasswordHasher provides the argon2id password hasher.
func ProvidePasswordHasher(_ do.Injector) (*auth.PasswordHasher, error) {
	return auth.NewPasswordHasher(auth.DefaultPasswordParams), nil
}
