// Package client contains the reader's backend transport and local database
// bootstrap.
//
// # Overview
//
// The package provides:
//  1. The Client interface: the REST contract of the comic backend (auth,
//     profile, bookmarks, catalog, comments, rating).
//  2. HTTPClient, a net/http implementation that unwraps the
//     {code, message, result} envelope, tags every request with an
//     X-Request-ID and maps failures to sentinel errors.
//  3. InitDatabase and RunMigrations, which open the local SQLite file and
//     apply the embedded goose migrations.
//
// # Error Handling
//
// Transport failures and 5xx replies match ErrUnavailable; 401 and 403 match
// ErrUnauthorized. Every rejected reply is an *APIError carrying the status,
// envelope code and message.
//
// Each call is a single attempt bounded by the configured request timeout and
// by the caller's context. HTTPClient is safe for concurrent use.
package client
