package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharebox/sharebox/clientcli"
)

var (
	downloadOutput string
	downloadStdout bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <file-id|url> [local-path]",
	Short: "Download a file from the server",
	Long: `Download a file by its id or share URL.

Without a local path the file is saved under its original filename when
the server knows it, or under its id otherwise.

Examples:
  sharebox-cli download 3f2a9c01bd.pdf
  sharebox-cli download https://share.example.com/3f2a9c01bd.pdf ./report.pdf
  sharebox-cli download --stdout 3f2a9c01bd.txt | less`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file path")
	downloadCmd.Flags().BoolVar(&downloadStdout, "stdout", false, "write to stdout")
}

func runDownload(cmd *cobra.Command, args []string) error {
	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if downloadOutput != "" {
		localPath = downloadOutput
	}
	if downloadStdout {
		localPath = "-"
	}

	client, err := getClient()
	if err != nil {
		return handleError(os.Stderr, err)
	}

	result, reader, err := client.Download(cmd.Context(), clientcli.DownloadOptions{
		Key:       args[0],
		LocalPath: localPath,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if reader != nil {
		defer func() { _ = reader.Close() }()
		if _, err := io.Copy(cmd.OutOrStdout(), reader); err != nil {
			return err
		}
		// Metadata would corrupt piped output, so it goes to stderr in JSON mode only.
		if jsonOutput {
			return getFormatter().FormatDownload(os.Stderr, result)
		}
		return nil
	}

	return getFormatter().FormatDownload(cmd.OutOrStdout(), result)
}
