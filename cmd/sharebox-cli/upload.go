package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sharebox/sharebox/clientcli"
)

var (
	uploadName       string
	uploadScreenshot bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload [local-path...]",
	Short: "Upload files and print their share URLs",
	Long: `Upload one or more files and print their share URLs.

With no path, stdin is uploaded as a text paste.

Examples:
  sharebox-cli upload ./report.pdf
  sharebox-cli upload --screenshot ./capture.png
  sharebox-cli upload --name notes.md ./draft
  echo hello | sharebox-cli upload -q`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "filename sent to the server (default: the file's base name)")
	uploadCmd.Flags().BoolVar(&uploadScreenshot, "screenshot", false, "store as a .png screenshot without a filename")
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return handleError(os.Stderr, err)
	}

	ctx := cmd.Context()
	formatter := getFormatter()

	if len(args) == 0 {
		result, err := client.Upload(ctx, cmd.InOrStdin())
		if err != nil {
			return handleError(os.Stderr, err)
		}
		return formatter.FormatUpload(cmd.OutOrStdout(), []clientcli.UploadResult{result})
	}

	results := make([]clientcli.UploadResult, 0, len(args))
	var firstErr error
	for _, path := range args {
		result, err := client.UploadFile(ctx, clientcli.UploadOptions{
			LocalPath:  path,
			Filename:   uploadName,
			Screenshot: uploadScreenshot,
		})
		if err != nil {
			result = clientcli.UploadResult{LocalPath: path, Err: err}
			if firstErr == nil {
				firstErr = err
			}
		}
		results = append(results, result)
	}

	if err := formatter.FormatUpload(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	return firstErr
}
