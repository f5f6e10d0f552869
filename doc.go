// Package sharebox provides the object storage gateway behind a minimal
// file-sharing service: clients upload a file and receive a short public URL,
// and anyone holding the URL can fetch the bytes back.
//
// The package turns an inbound upload into a durable, addressable object
// (key derivation, format resolution, filename tagging, bucket bootstrap) and
// turns an inbound key into a typed byte response (content type resolution,
// original filename restoration, miss handling).
//
// # Key Components
//
//   - ShareService: orchestrates uploads and retrievals against an ObjectStore
//   - ObjectStore: interface for an S3-compatible backend (see the s3 and
//     filesystem packages)
//   - TokenVerifier: constant-time check of the shared upload token
//   - ResolveHint: derives the key extension and filename tag from the
//     client's filename hint
//   - ContentTypeFor: static extension to MIME type table
//
// # Example Usage
//
//	service, err := sharebox.NewShareService(store, sharebox.ServiceConfig{
//	    Bucket:         sharebox.DefaultBucket,
//	    BackendTimeout: 30 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store an upload
//	result, err := service.Upload(ctx, sharebox.UploadRequest{
//	    ClientFilename: "report.pdf",
//	    HasFilename:    true,
//	    Body:           data,
//	})
//
//	// Fetch it back
//	obj, err := service.Get(ctx, result.Key)
//
// See the http package for the REST surface and the s3/filesystem packages
// for backend implementations.
package sharebox
