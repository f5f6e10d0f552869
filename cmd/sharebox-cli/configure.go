package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sharebox/sharebox/clientcli"
)

var configureCmd = &cobra.Command{
	Use:   "configure [name]",
	Short: "Save a server profile",
	Long: `Prompt for a server endpoint and share token and save them as a profile
in ~/.sharebox/config.yaml (or --config / SHAREBOX_CONFIG).

The endpoint is checked by posting an upload without a token: a sharebox
server answers with its "Invalid token" envelope and stores nothing.

The profile name defaults to "default". Running configure again on an
existing profile edits it; leave the token empty to keep the saved one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigure,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE:  runConfigureList,
}

var configureUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a profile the current one",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureUse,
}

var (
	showSecrets bool
	makeCurrent bool
)

func init() {
	configureCmd.Flags().BoolVar(&makeCurrent, "use", false, "make this profile the current one")
	configureListCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print tokens unmasked")

	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureUseCmd)
}

// loadProfiles reads the profile file, treating a missing one as empty.
func loadProfiles() (string, *clientcli.Profiles, error) {
	path, _ := profilesPath()
	if path == "" {
		return "", nil, errors.New("cannot locate home directory; pass --config")
	}
	profiles, err := clientcli.ReadProfiles(path)
	if errors.Is(err, fs.ErrNotExist) {
		return path, &clientcli.Profiles{}, nil
	}
	return path, profiles, err
}

func runConfigure(cmd *cobra.Command, args []string) error {
	name := clientcli.DefaultProfile
	if len(args) > 0 {
		name = args[0]
	}

	path, profiles, err := loadProfiles()
	if err != nil {
		return err
	}
	existing, lookupErr := profiles.Lookup(name)
	editing := lookupErr == nil

	endpointDefault := clientcli.DefaultEndpoint
	if editing {
		endpointDefault = existing.Endpoint
	}
	endpointURL, err := (&promptui.Prompt{
		Label:    "Endpoint URL",
		Default:  endpointDefault,
		Validate: validateEndpoint,
	}).Run()
	if err != nil {
		return handlePromptError(err)
	}
	endpointURL = strings.TrimSuffix(endpointURL, "/")

	tokenLabel := "Share token"
	if editing && existing.Token != "" {
		tokenLabel = "Share token (empty keeps the saved one)"
	}
	tokenVal, err := (&promptui.Prompt{Label: tokenLabel, Mask: '*'}).Run()
	if err != nil {
		return handlePromptError(err)
	}
	if tokenVal == "" && editing {
		tokenVal = existing.Token
	}

	fmt.Fprint(cmd.OutOrStdout(), "Checking endpoint... ")
	if checkErr := checkEndpoint(cmd.Context(), endpointURL); checkErr != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "FAILED")
		fmt.Fprintf(cmd.OutOrStdout(), "Warning: %v\n", checkErr)
		if _, promptErr := (&promptui.Prompt{Label: "Save anyway", IsConfirm: true}).Run(); promptErr != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil //nolint:nilerr // declining is not a failure
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
	}

	profiles.Put(clientcli.Profile{Name: name, Endpoint: endpointURL, Token: tokenVal})
	if makeCurrent {
		if err := profiles.Use(name); err != nil {
			return err
		}
	}
	if err := clientcli.WriteProfiles(path, profiles); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %q to %s", name, path)
	if profiles.Current == name {
		fmt.Fprint(cmd.OutOrStdout(), " (current)")
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func runConfigureList(cmd *cobra.Command, _ []string) error {
	_, profiles, err := loadProfiles()
	if err != nil {
		return err
	}
	if len(profiles.Servers) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No profiles saved. Run 'sharebox-cli configure' to add one.")
		return nil
	}
	return getFormatter().FormatProfileList(cmd.OutOrStdout(), profiles.List(), profiles.Current, showSecrets)
}

func runConfigureUse(cmd *cobra.Command, args []string) error {
	path, profiles, err := loadProfiles()
	if err != nil {
		return err
	}
	if err := profiles.Use(args[0]); err != nil {
		return err
	}
	if err := clientcli.WriteProfiles(path, profiles); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Current profile is now %q.\n", args[0])
	return nil
}

func validateEndpoint(input string) error {
	u, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("URL needs a host")
	}
	return nil
}

func checkEndpoint(ctx context.Context, endpointURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := clientcli.New(&clientcli.Config{Endpoint: endpointURL})
	if err != nil {
		return err
	}
	return client.CheckEndpoint(ctx)
}

func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
