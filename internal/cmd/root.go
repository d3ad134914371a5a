package cmd

import (
	"github.com/jrsteele09/go-blog-server/internal/config"
	"github.com/jrsteele09/go-blog-server/internal/logging"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "blog-server",
	Short: "Server-rendered blog with session and remember-me authentication",
	Long: `blog-server serves a server-rendered blog: public post listings, comments,
and an admin area for posts, categories, comments and profiles.

Configuration comes from an optional YAML file and BLOG_* environment variables.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.AddCommand(serveCmd, userCmd)
}

// loadConfig reads the config file named by --config and installs the logger.
func loadConfig() (config.Config, error) {
	c, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(c.GetEnv(), c.GetLogLevel())
	return c, nil
}
