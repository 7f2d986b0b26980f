package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/goglmnet/pkg/errors"
	"github.com/YuminosukeSato/goglmnet/pkg/log"
)

const envPrefix = "GLMNET"

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "glmnet",
		Short:         "Elastic-net regularized generalized linear models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return errors.Wrap(err, "bind flags")
			}
			if cfg := v.GetString("config"); cfg != "" {
				v.SetConfigFile(cfg)
				if err := v.ReadInConfig(); err != nil {
					return errors.Wrapf(err, "read config %s", cfg)
				}
			}
			return log.SetupLoggerTo(cmd.ErrOrStderr(), v.GetString("log-level"))
		},
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "warn", "debug, info, warn or error")

	root.AddCommand(
		newFitCmd(v),
		newPredictCmd(v),
		newScoreCmd(v),
	)
	return root
}

// runGuarded adapts a command body to cobra's RunE. A panic inside the body
// is returned as an *errors.PanicError naming the command.
func runGuarded(name string, v *viper.Viper, run func(*cobra.Command, *viper.Viper) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return errors.SafeExecute("glmnet "+name, func() error {
			return run(cmd, v)
		})
	}
}
