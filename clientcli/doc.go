// Package clientcli provides a client library for sharebox servers.
//
// It uploads files or pasted text and downloads them back by file id or URL.
// Uploads authenticate with the server's shared token. The package includes
// profile-based configuration for managing connections to multiple servers.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{
//		Endpoint: "http://localhost:9500",
//		Token:    "shared-secret",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.UploadFile(ctx, clientcli.UploadOptions{LocalPath: "./report.pdf"})
//	fmt.Println(result.URL)
//
// # Profile Configuration
//
//	path, _ := clientcli.ProfilesPath()
//	profiles, err := clientcli.ReadProfiles(path)
//	profile, err := profiles.Lookup("production")
//	cfg := profile.Config().Overlay(clientcli.FromEnv())
//	client, err := clientcli.New(&cfg)
//
// # Output Formatting
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUpload(os.Stdout, []clientcli.UploadResult{result})
package clientcli
