// Package api contains the client for the remote user-data service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): Login,
//     ListUsers, GetUser, UpdateUser and DeleteUser.
//  2. A concrete HTTP implementation (see RESTClient) that injects the bearer
//     token and a request id, and normalizes every response the same way:
//     status first, an error body on failure, and an empty result for 204.
//
// # Error Handling
//
// A rejected login is an *AuthError. Every other non-2xx status and every
// transport failure is a *FetchError. Common conditions can be matched with
// errors.Is: ErrUnavailable (transport), ErrUnauthorized (401/403) and
// ErrNotFound (404).
//
// Concurrency & Contexts
//
// RESTClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package api
