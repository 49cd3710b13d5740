// Package services implements the HTTP collaborators the state store talks to.
//
// [PlaylistService] is the REST surface of the playlist backend (JSON bodies,
// FastAPI-style {"detail": ...} error payloads). [Client] is its concrete
// implementation, sourcing bearer tokens from a [TokenStore] and throttling
// outgoing requests with a [rate.Limiter].
//
// Error mapping at this boundary:
//   - transport failures wrap [shared.ErrAPIRequest]
//   - non-2xx responses surface as [*APIError] carrying the server detail
//   - 401 responses additionally wrap [shared.ErrTokenExpired] so the store
//     can force a logout instead of showing a generic error
//
// Token claims (subject, expiry) are read with golang-jwt's unverified parse;
// signature verification stays server-side, the client only needs the claims
// for display and the advisory expiry check.
package services
