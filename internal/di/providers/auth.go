package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/mylibapp/mylib-server/internal/auth"
	"github.com/mylibapp/mylib-server/internal/config"
	"github.com/mylibapp/mylib-server/internal/logger"
)

// ProvideTokenService provides the PASETO token service. When no key is
// configured, one is loaded or generated next to the database file.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	keyHex := cfg.Auth.AccessTokenKey
	if keyHex == "" {
		var err error
		keyHex, err = auth.LoadOrGenerateKey(filepath.Dir(cfg.Database.Path))
		if err != nil {
			return nil, err
		}
		cfg.Auth.AccessTokenKey = keyHex
	}

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
		"code_duration", cfg.Auth.CodeDuration,
	)

	return auth.NewTokenService(keyHex, cfg.Auth.AccessTokenDuration)
}
