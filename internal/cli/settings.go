package cli

import (
	"github.com/spf13/viper"
)

// Settings are the effective options after merging flags, environment and
// config file
type Settings struct {
	LogLevel  string
	LogFormat string

	Provider string
	Args     string

	From        string
	To          string
	Domain      int
	Concurrency int

	// DomainSet reports whether translate.domain was given at all, so an
	// explicit 0 can override a domain from the provider arguments
	DomainSet bool

	ServeHost string
	ServePort int

	BreakerFailures uint32
}

// LoadSettings reads the effective settings from viper. Changed flags win
// over environment variables, which win over the config file.
func LoadSettings() Settings {
	s := Settings{
		LogLevel:        viper.GetString("log.level"),
		LogFormat:       viper.GetString("log.format"),
		Provider:        viper.GetString("provider.name"),
		Args:            viper.GetString("provider.args"),
		From:            viper.GetString("translate.from"),
		To:              viper.GetString("translate.to"),
		Domain:          viper.GetInt("translate.domain"),
		DomainSet:       viper.IsSet("translate.domain"),
		Concurrency:     viper.GetInt("translate.concurrency"),
		ServeHost:       viper.GetString("serve.host"),
		ServePort:       viper.GetInt("serve.port"),
		BreakerFailures: viper.GetUint32("youdao.breaker_failures"),
	}

	if s.Provider == "" {
		s.Provider = "youdao"
	}
	if s.Concurrency <= 0 {
		s.Concurrency = 1
	}
	return s
}
