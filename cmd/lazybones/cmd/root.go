// Package cmd holds the lazybones demo command line.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/krew-solutions/lazybones-go/lazybones/config"
)

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree around its own viper instance so
// that tests can run it in isolation.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:   "lazybones",
		Short: "Drive a demo activity through lifecycle scenarios",
		Long: `lazybones runs a demo activity whose properties and jobs are bound to
its lifecycle, stepping it through a scenario of create, start, resume,
pause, stop and destroy events.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v)
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "config file (default is ./lazybones.yaml)")
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))

	root.AddCommand(newRunCommand(v))
	root.AddCommand(newEventsCommand())
	return root
}

func initConfig(v *viper.Viper) error {
	config.SetDefaults(v)

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("lazybones")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("LAZYBONES")
	// LAZYBONES_LAZY_MODE for lazy.mode
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && v.GetString("config") == "" {
			return nil
		}
		return err
	}
	return nil
}
