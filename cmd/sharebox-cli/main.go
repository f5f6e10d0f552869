package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharebox/sharebox/clientcli"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	endpoint   string
	token      string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "sharebox-cli",
	Version: version,
	Short:   "Client for sharebox servers",
	Long: `sharebox-cli uploads files to a sharebox server and prints the share URL.

  - upload:    send a file, a screenshot, or text from stdin
  - download:  fetch a file by id or URL
  - configure: save a server profile, list or switch profiles`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.sharebox/config.yaml, env: SHAREBOX_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (env: SHAREBOX_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:9500, env: SHAREBOX_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "share token (env: SHAREBOX_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print only the share URL")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// profilesPath resolves the profile file: --config, then SHAREBOX_CONFIG,
// then ~/.sharebox/config.yaml.
func profilesPath() (path string, explicit bool) {
	if cfgFile != "" {
		return cfgFile, true
	}
	return clientcli.ProfilesPath()
}

// buildConfig layers the selected profile, then env vars, then flags.
func buildConfig() (*clientcli.Config, error) {
	name := profile
	if name == "" {
		name = os.Getenv(clientcli.EnvProfile)
	}

	var cfg clientcli.Config
	if path, explicit := profilesPath(); path != "" {
		profiles, err := clientcli.ReadProfiles(path)
		switch {
		case err == nil:
			p, lookupErr := profiles.Lookup(name)
			if lookupErr == nil {
				cfg = p.Config()
			} else if name != "" || !errors.Is(lookupErr, clientcli.ErrNoProfiles) {
				return nil, lookupErr
			}
		case explicit || !errors.Is(err, fs.ErrNotExist):
			return nil, err
		case name != "":
			return nil, fmt.Errorf("%w: %s", clientcli.ErrProfileNotFound, name)
		}
	}

	cfg = cfg.Overlay(clientcli.FromEnv()).Overlay(clientcli.Config{Endpoint: endpoint, Token: token})
	return &cfg, nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	return clientcli.New(cfg)
}

// handleError prints err through the formatter and returns it for the exit code.
func handleError(w io.Writer, err error) error {
	_ = getFormatter().FormatError(w, err)
	return err
}
