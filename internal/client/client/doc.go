// Package client is the console's side of the backend contract.
//
// It provides:
//  1. The Client interface and its HTTP implementation (HTTPClient) for the
//     three endpoints: POST /admin/login, POST /upload/doc and
//     POST /visa/user_details.
//  2. Local persistence bootstrap (InitDatabase, RunMigrations) that opens the
//     console's sqlite file and applies the embedded goose migrations.
//
// # Error Handling
//
// Outcomes are reported as errors the caller matches with errors.Is/As:
//
//   - ErrUnavailable          no response was obtained (DNS, refused, timeout)
//   - ErrUnauthorized         the server answered 401
//   - ErrInvalidCredentials   login rejected or no idToken in a 2xx answer;
//     the concrete type is *CredentialsError carrying the text to show
//   - *ServerError            any other non-2xx answer, or a 2xx answer whose
//     body is not JSON
//
// No call is ever retried.
package client
