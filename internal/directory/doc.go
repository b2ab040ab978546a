// Package directory talks to the remote location directory service.
//
// The service exposes three list endpoints (countries, states of a
// country, cities of a state). Each returns a JSON array whose items are
// either plain strings or objects carrying a "name" or "value" field;
// [Normalize] flattens both shapes into display strings.
//
// Two URL conventions exist in the wild and are selected by [Style]:
//
//	path:  /countries  /country={c}/states  /country={c}/state={s}/cities
//	query: /countries  /states?country={c}  /cities?country={c}&state={s}
//
// # Errors
//
// [Client.FetchList] returns one of:
//
//   - [ErrCancelled] when the caller's context was cancelled
//   - *[NetworkError] for transport failures and timeouts
//   - *[HTTPError] for non-2xx statuses
//   - *[ParseError] for malformed JSON
//
// Connection errors are retried a bounded number of times; HTTP error
// statuses never are.
package directory
