package config

import (
	"charmapi/internal/core/domain"
	"fmt"

	"github.com/spf13/viper"
)

type credential struct {
	key     string
	env     string
	display string
}

var (
	openAIKey      = credential{key: "openai.api_key", env: "OPENAI_API_KEY", display: "OpenAI API key"}
	openRouterKey  = credential{key: "openrouter.api_key", env: "OPENROUTER_API_KEY", display: "OpenRouter API key"}
	replicateToken = credential{key: "replicate.api_token", env: "REPLICATE_API_TOKEN", display: "Replicate API token"}
)

func bindCredentials(v *viper.Viper) error {
	for _, c := range []credential{openAIKey, openRouterKey, replicateToken} {
		if err := v.BindEnv(c.key, c.env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", c.env, err)
		}
	}
	return nil
}

// Credentials looks provider secrets up on every call, so a credential set after startup is picked up
// by the next request.
type Credentials struct {
	v    *viper.Viper
	chat credential
}

func NewCredentials(v *viper.Viper, chatProvider string) *Credentials {
	chat := openAIKey
	if chatProvider == ProviderOpenRouter {
		chat = openRouterKey
	}

	return &Credentials{v: v, chat: chat}
}

func (c *Credentials) ChatAPIKey() (string, error) {
	return c.lookup(c.chat)
}

func (c *Credentials) ImageAPIToken() (string, error) {
	return c.lookup(replicateToken)
}

// Missing lists the environment variables of credentials that are currently unset.
func (c *Credentials) Missing() []string {
	var missing []string
	for _, cred := range []credential{c.chat, replicateToken} {
		if _, err := c.lookup(cred); err != nil {
			missing = append(missing, cred.env)
		}
	}
	return missing
}

func (c *Credentials) lookup(cred credential) (string, error) {
	value := c.v.GetString(cred.key)
	if value == "" {
		return "", &domain.ConfigError{
			Message: fmt.Sprintf("%s not configured. Set %s environment variable.", cred.display, cred.env),
		}
	}
	return value, nil
}
