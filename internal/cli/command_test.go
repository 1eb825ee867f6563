package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func findCommand(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("command %s not found", name)
	return nil
}

func TestCreateRootCommand(t *testing.T) {
	viper.Reset()
	flags := NewFlags()
	cmd := CreateRootCommand(flags, Actions{})

	// Test basic command properties
	if cmd.Use != "fanyi" {
		t.Errorf("Expected Use to be 'fanyi', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "youdao") {
		t.Errorf("Expected Short description to mention youdao")
	}

	for _, name := range []string{"apis", "langs", "domains", "translate", "serve"} {
		findCommand(t, cmd, name)
	}

	// Test that flags are set up
	flagTests := []struct {
		command string
		name    string
	}{
		{"", "config"},
		{"", "log-level"},
		{"", "log-format"},
		{"", "provider"},
		{"", "args"},
		{"translate", "from"},
		{"translate", "to"},
		{"translate", "domain"},
		{"translate", "batch"},
		{"translate", "concurrency"},
		{"serve", "host"},
		{"serve", "port"},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.command == "" {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = findCommand(t, cmd, tt.command).Flags().Lookup(tt.name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}
}

func TestCreateRootCommand_Dispatch(t *testing.T) {
	viper.Reset()

	var called []string
	record := func(name string) RunFunc {
		return func(cmd *cobra.Command, args []string) error {
			called = append(called, name+":"+strings.Join(args, ","))
			return nil
		}
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"apis"}, "apis:"},
		{[]string{"langs"}, "langs:"},
		{[]string{"domains"}, "domains:"},
		{[]string{"translate", "hello"}, "translate:hello"},
		{[]string{"serve"}, "serve:"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			called = nil
			cmd := CreateRootCommand(NewFlags(), Actions{
				APIs:      record("apis"),
				Langs:     record("langs"),
				Domains:   record("domains"),
				Translate: record("translate"),
				Serve:     record("serve"),
			})
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if len(called) != 1 || called[0] != tt.want {
				t.Errorf("called = %v, want [%s]", called, tt.want)
			}
		})
	}
}

func TestTranslateCommand_TooManyArgs(t *testing.T) {
	viper.Reset()
	cmd := CreateRootCommand(NewFlags(), Actions{
		Translate: func(*cobra.Command, []string) error { return nil },
	})
	cmd.SetArgs([]string{"translate", "one", "two"})
	cmd.SetErr(&strings.Builder{})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for two positional arguments")
	}
}

func TestSetupFlags(t *testing.T) {
	viper.Reset()
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	// Test default values
	levelFlag := cmd.PersistentFlags().Lookup("log-level")
	if levelFlag == nil {
		t.Fatal("log-level flag not found")
	}
	if levelFlag.DefValue != "warn" {
		t.Errorf("Expected default log level to be warn, got %s", levelFlag.DefValue)
	}

	providerFlag := cmd.PersistentFlags().Lookup("provider")
	if providerFlag == nil {
		t.Fatal("provider flag not found")
	}
	if providerFlag.DefValue != "youdao" {
		t.Errorf("Expected default provider to be youdao, got %s", providerFlag.DefValue)
	}
}

func TestInitConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantTo    string
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				tmpDir := t.TempDir()
				cfgPath := filepath.Join(tmpDir, "test-config.yaml")
				content := `translate:
  to: zh-CHS
  domain: 2
youdao:
  breaker_failures: 3`
				err := os.WriteFile(cfgPath, []byte(content), 0644)
				if err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			wantTo: "zh-CHS",
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				t.Setenv("HOME", t.TempDir())
				return ""
			},
			wantTo: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()

			InitConfig(tt.setupFunc(t))

			// Test environment variable prefix
			t.Setenv("FANYI_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			if got := viper.GetString("translate.to"); got != tt.wantTo {
				t.Errorf("translate.to = %q, want %q", got, tt.wantTo)
			}
		})
	}
}

func TestInitConfig_NestedEnv(t *testing.T) {
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FANYI_TRANSLATE_TO", "ja")
	t.Setenv("FANYI_YOUDAO_BREAKER_FAILURES", "5")

	InitConfig("")

	s := LoadSettings()
	if s.To != "ja" {
		t.Errorf("To = %q, want ja", s.To)
	}
	if s.BreakerFailures != 5 {
		t.Errorf("BreakerFailures = %d, want 5", s.BreakerFailures)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	// Reset viper
	viper.Reset()

	root := CreateRootCommand(NewFlags(), Actions{})
	translate := findCommand(t, root, "translate")
	serve := findCommand(t, root, "serve")

	// Set some flag values
	translate.Flags().Set("to", "en")
	translate.Flags().Set("domain", "1")
	serve.Flags().Set("port", "9999")
	root.PersistentFlags().Set("args", "uuid=random")

	// Test that values are bound
	if viper.GetString("translate.to") != "en" {
		t.Errorf("Expected translate.to to be en, got %s", viper.GetString("translate.to"))
	}

	if viper.GetInt("translate.domain") != 1 {
		t.Errorf("Expected translate.domain to be 1, got %d", viper.GetInt("translate.domain"))
	}

	if viper.GetInt("serve.port") != 9999 {
		t.Errorf("Expected serve.port to be 9999, got %d", viper.GetInt("serve.port"))
	}

	if viper.GetString("provider.args") != "uuid=random" {
		t.Errorf("Expected provider.args to be uuid=random, got %s", viper.GetString("provider.args"))
	}
}
