// Package integrations provides the HTTP plumbing shared by registry clients.
//
// # Overview
//
// [Client] wraps an *http.Client with default headers, JSON decoding and
// status handling. Registry-specific clients (see the crates subpackage)
// embed it and add typed endpoints.
//
// # Errors
//
//   - Non-2xx responses become [errors.RegistryError], carrying the status
//     code and URL. [WithIdentifier] attaches the crate name.
//   - Transport failures become NETWORK_ERROR errors that still unwrap to the
//     underlying cause, so errors.Is(err, context.Canceled) keeps working.
//
// Requests are attempted once. There is no retry or response cache.
//
// # Hooks
//
// Every request reports OnRequest and then OnResponse or OnError to the
// hooks registered with [observability.SetHTTPHooks].
package integrations
