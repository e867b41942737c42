package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	envPrefix      = "EUPS"
	configFileName = "config.yaml"
)

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	Verbose    int
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Debug().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "eups: %s\n", errorMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "eups",
		Short:         "Set up and tear down product environments",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(logLevel(viper.GetString("log_level"), cfg.Verbose, viper.GetInt("debug")))
			cmd.SetContext(log.Logger.WithContext(commandContext(cmd)))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "", "Log level (overrides -v and EUPS_DEBUG)")
	cmd.PersistentFlags().CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return invalidArgument(err)
	})

	cmd.AddCommand(newSetupCommand())
	cmd.AddCommand(newUnsetupCommand())
	cmd.AddCommand(newListCommand())
	return cmd
}

// initConfig reads config.yaml from the site then the user data directory,
// later files overriding earlier ones. An explicit --config replaces both.
func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	for _, dir := range configDirs() {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		viper.SetConfigFile(path)
		if err := viper.MergeInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("failed to read config file %s", path)).
				WithCause(err)
		}
	}
	return nil
}

func configDirs() []string {
	var dirs []string
	if site := strings.TrimSpace(viper.GetString("sitedata")); site != "" {
		dirs = append(dirs, site)
	}
	if user := strings.TrimSpace(viper.GetString("userdata")); user != "" {
		dirs = append(dirs, user)
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".eups"))
	}
	return dirs
}

// logLevel picks the explicit level when given, otherwise the larger of
// the -v count and EUPS_DEBUG: 0 warn, 1 info, 2 debug, 3 and up trace.
func logLevel(explicit string, verbose int, debug int) zerolog.Level {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if level, err := zerolog.ParseLevel(strings.ToLower(explicit)); err == nil {
			return level
		}
	}
	switch level := max(verbose, debug); {
	case level <= 0:
		return zerolog.WarnLevel
	case level == 1:
		return zerolog.InfoLevel
	case level == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// setupLogging sends logs to stderr; stdout carries the shell script.
func setupLogging(level zerolog.Level) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(level)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func invalidArgument(err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(err.Error()).
		WithCause(err)
}

func exitCodeForError(err error) int {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
