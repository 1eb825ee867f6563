package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/fanyi/internal"
)

// RunFunc runs a subcommand
type RunFunc func(cmd *cobra.Command, args []string) error

// Actions are the implementations behind the subcommands
type Actions struct {
	APIs      RunFunc
	Langs     RunFunc
	Domains   RunFunc
	Translate RunFunc
	Serve     RunFunc
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, actions Actions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fanyi",
		Short: "Command line client for the youdao web translator",
		Long: `fanyi talks to the youdao web translator the way its browser front-end
does: it bootstraps a session, signs every request and decrypts the
responses.

Examples:
  fanyi langs                          # List the supported languages
  fanyi translate hello --to zh-CHS    # Translate a single text
  fanyi translate --batch texts.txt    # Translate every line of a file
  fanyi serve --port 8091              # Serve the JSON API for a UI`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newAPIsCommand(actions.APIs),
		newLangsCommand(actions.Langs),
		newDomainsCommand(actions.Domains),
		newTranslateCommand(flags, actions.Translate),
		newServeCommand(flags, actions.Serve),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.fanyi.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: console or json")
	cmd.PersistentFlags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation provider (see 'fanyi apis')")
	cmd.PersistentFlags().StringVar(&flags.Args, "args", "", "Provider arguments, e.g. 'domain=1,uuid=random'")

	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("provider.name", cmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("provider.args", cmd.PersistentFlags().Lookup("args"))
}

func newAPIsCommand(run RunFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "apis",
		Short: "List the translation providers",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
}

func newLangsCommand(run RunFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List the languages of the provider",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
}

func newDomainsCommand(run RunFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List the translation domains of the provider",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
}

func newTranslateCommand(flags *Flags, run RunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate a text or a batch file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}

	cmd.Flags().StringVar(&flags.From, "from", flags.From, "Source language code")
	cmd.Flags().StringVar(&flags.To, "to", "", "Target language code (empty lets the service choose)")
	cmd.Flags().IntVar(&flags.Domain, "domain", 0, "Domain index (see 'fanyi domains'), 0 is general")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate texts from file (one per line)")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", flags.Concurrency, "Parallel requests in batch mode")

	bindFlagsToViper(cmd)
	return cmd
}

func newServeCommand(flags *Flags, run RunFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE:  run,
	}

	cmd.Flags().StringVar(&flags.Host, "host", flags.Host, "Listen host")
	cmd.Flags().IntVar(&flags.Port, "port", flags.Port, "Listen port")

	bindFlagsToViper(cmd)
	return cmd
}

func bindFlagsToViper(cmd *cobra.Command) {
	switch cmd.Name() {
	case "translate":
		viper.BindPFlag("translate.from", cmd.Flags().Lookup("from"))
		viper.BindPFlag("translate.to", cmd.Flags().Lookup("to"))
		viper.BindPFlag("translate.domain", cmd.Flags().Lookup("domain"))
		viper.BindPFlag("translate.concurrency", cmd.Flags().Lookup("concurrency"))
	case "serve":
		viper.BindPFlag("serve.host", cmd.Flags().Lookup("host"))
		viper.BindPFlag("serve.port", cmd.Flags().Lookup("port"))
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".fanyi" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fanyi")
	}

	// Environment variables, FANYI_TRANSLATE_TO maps to translate.to
	viper.SetEnvPrefix("FANYI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
