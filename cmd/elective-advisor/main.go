// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the elective-advisor CLI.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/elective-advisor/internal/account"
	"github.com/pdiddy/elective-advisor/internal/catalog"
	"github.com/pdiddy/elective-advisor/internal/logging"
	"github.com/pdiddy/elective-advisor/internal/secrets"
	"github.com/pdiddy/elective-advisor/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds keys loaded from the secrets directory at startup.
var loadedSecrets secrets.Set

var rootCmd = &cobra.Command{
	Use:   "elective-advisor",
	Short: "Recommend college electives for a career path",
	Long: `elective-advisor helps a student pick electives. The student chooses an
academic path (college, department, degree level, degree and job); the advisor
asks a language model to rank the degree's electives for that job, parses the
reply into records and keeps them per job.

Seed the catalog with "catalog seed", create an account with "account
register", log in, choose a path with "select", then run "recommend".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := viper.GetString("log.level")
		if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
			level = f.Value.String()
		}
		logger, err := logging.New(os.Stderr, level)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", "keys", s.Names())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./elective-advisor.yaml or ~/.config/elective-advisor/elective-advisor.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	setDefaults()
}

// setDefaults registers every config key so environment overrides reach
// viper.Unmarshal.
func setDefaults() {
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", string(types.ProviderOpenAI))
	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.base_url", "")
	viper.SetDefault("ai.max_retries", 3)
	viper.SetDefault("ai.timeout", "3m")

	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.db_file", "advisor.db")

	viper.SetDefault("session.file", defaultSessionFile())
	viper.SetDefault("session.signing_key", "")
	viper.SetDefault("session.ttl", "12h")

	viper.SetDefault("parser.retain_continuations", false)
	viper.SetDefault("output.courses_file", "courses.json")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("secrets_dir", ".secrets")
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".elective-advisor", "session")
	}
	return filepath.Join(home, ".config", "elective-advisor", "session")
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "warning: could not load .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("elective-advisor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "elective-advisor"))
		}
	}

	viper.SetEnvPrefix("ELECTIVE_ADVISOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// Variable names used by earlier deployments.
	viper.BindEnv("ai.enabled", "ELECTIVE_ADVISOR_AI_ENABLED", "AI_ENABLED")
	viper.BindEnv("ai.api_key", "ELECTIVE_ADVISOR_AI_API_KEY", "OPENAI_API_KEY")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged configuration and fills keys from the
// secrets directory where the configuration leaves them empty.
func loadConfig() (types.AdvisorConfig, error) {
	var cfg types.AdvisorConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.AdvisorConfig{}, fmt.Errorf("decoding config: %w", err)
	}

	switch cfg.AI.Provider {
	case types.ProviderAnthropic:
		cfg.AI.APIKey = loadedSecrets.Default(secrets.AnthropicAPIKey, cfg.AI.APIKey)
	default:
		cfg.AI.APIKey = loadedSecrets.Default(secrets.OpenAIAPIKey, cfg.AI.APIKey)
	}
	cfg.Session.SigningKey = loadedSecrets.Default(secrets.SessionSigningKey, cfg.Session.SigningKey)
	return cfg, nil
}

func openStore(cfg types.AdvisorConfig) (*catalog.Store, error) {
	return catalog.Open(cfg.Store)
}

func sessionTokens(cfg types.AdvisorConfig) account.Tokens {
	return account.Tokens{Key: []byte(cfg.Session.SigningKey), TTL: cfg.Session.TTL}
}

// signingKeyBytes is the size of a generated session signing key.
const signingKeyBytes = 32

// ensureSigningKey fills cfg.Session.SigningKey. When neither the config nor
// the secrets directory has one, a random key is generated and stored as
// <secrets_dir>/session-signing-key for later runs.
func ensureSigningKey(cfg *types.AdvisorConfig) error {
	if cfg.Session.SigningKey != "" {
		return nil
	}
	dir := viper.GetString("secrets_dir")
	key, err := loadedSecrets.Ensure(dir, secrets.SessionSigningKey, signingKeyBytes)
	if err != nil {
		return fmt.Errorf("creating session signing key: %w", err)
	}
	slog.Info("generated session signing key", "dir", dir)
	cfg.Session.SigningKey = key
	return nil
}

// currentSession returns the logged-in session or a hint to log in.
func currentSession(cfg types.AdvisorConfig) (account.Session, error) {
	loginHint := "run \"elective-advisor account login\""
	if cfg.Session.SigningKey == "" {
		// Nothing can have been signed without a key.
		return account.Session{}, fmt.Errorf("%w: %s", account.ErrNoSession, loginHint)
	}
	sess, err := sessionTokens(cfg).Current(cfg.Session.File)
	switch {
	case errors.Is(err, account.ErrNoSession):
		return account.Session{}, fmt.Errorf("%w: %s", err, loginHint)
	case errors.Is(err, account.ErrSessionExpired):
		return account.Session{}, fmt.Errorf("%w: log in again", err)
	}
	return sess, err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
