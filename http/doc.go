// Package http serves the share gateway over HTTP.
//
// # Endpoints
//
//   - POST /upload stores the raw request body. The share-token header must
//     carry the shared secret. The optional share-filename header selects the
//     key extension and becomes the object's filename tag.
//   - GET /{file_id} returns the stored bytes with a Content-Type derived from
//     the key's extension, plus an inline Content-Disposition when the object
//     carries a filename tag.
//   - /favicon.ico, GET /healthz and an optional Prometheus endpoint.
//
// Upload responses are JSON envelopes:
//
//	{"Ok":{"message":"http://host/3f2a9c01be.pdf"}}
//	{"Error":{"message":"Invalid token"}}
//
// A bad token is answered with status 200 unless HandlerConfig.RejectStatus
// says otherwise. Retrieval misses are a plain-text 404.
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    MaxPayload: 100 << 20,
//	}, service)
//	srv := &nethttp.Server{Addr: ":9500", Handler: handler.Router()}
package http
