package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.uber.org/multierr"
)

const dotenvFile = ".env"

type rootCmdConfig struct {
	logger
	verbose    bool
	configFile string
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func main() {
	if _, err := os.Stat(dotenvFile); err == nil {
		if err := godotenv.Load(dotenvFile); err != nil {
			logrus.WithError(err).Error("error loading dotenv file")
		}
	}
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "sapling",
		Short: "sapling is a tool to grow decision trees",
		Long:  `A tool to grow decision trees over boolean features from your data, test them, and use them to make predictions`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, config.configFile); err != nil {
				return err
			}
			config.setupLogging()
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress and every decision taken while growing trees")
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a YAML file with values for any flag (flags can also be set with SAPLING_<FLAG> environment variables)")
	rootCmd.AddCommand(versionCmd(), treeCmd(config), setCmd(config))
	return rootCmd
}

/*
loadConfig sets every flag of the command that was not given on the
command line from the SAPLING_* environment variables or the config
file, if any.
*/
func loadConfig(cmd *cobra.Command, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix("sapling")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config file %s", configFile)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "binding flags")
	}
	var errs error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := f.Value.Set(v.GetString(f.Name)); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "setting %s from config", f.Name))
		}
	})
	return errs
}

func (rcc *rootCmdConfig) setupLogging() {
	logrus.SetFormatter(&prefixed.TextFormatter{})
	if rcc.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	rcc.logger = logger(rcc.verbose)
}

// Context returns a context cancelled on interrupt.
func (rcc *rootCmdConfig) Context() context.Context {
	rcc.setContextAndCancelFunc()
	return rcc.ctx
}

func (rcc *rootCmdConfig) ContextCancelFunc() context.CancelFunc {
	rcc.setContextAndCancelFunc()
	return rcc.cancelFunc
}

func (rcc *rootCmdConfig) setContextAndCancelFunc() {
	if rcc.ctx == nil {
		rcc.ctx, rcc.cancelFunc = signal.NotifyContext(context.Background(), os.Interrupt)
	}
}
