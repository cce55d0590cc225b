// Package keystore provides storage backends for the backend API key and
// exposes it as an oauth2.TokenSource so the outbound HTTP transport can
// attach it as a bearer credential.
//
// Three storage backends are supported:
//
//   - env: read-only, from an environment variable (OPENAI_API_KEY)
//   - file: a plain file holding the key, re-read on each use so rotated
//     keys are picked up without a restart
//   - keyring: the OS keyring via zalando/go-keyring
//
// # Usage
//
// Build a store from configuration and hand its TokenSource to the proxy:
//
//	store, err := keystore.New(keystore.BackendKeyring, "")
//	transport := &oauth2.Transport{Source: store.TokenSource(), Base: base}
//
// The write side backs the `odette auth` commands:
//
//	err := store.Write(key)  // env backend returns ErrReadOnly
//	err := store.Clear()
package keystore
