// Package account exposes registration and session login over HTTP.
//
// Successful logins answer 204 with a Set-Cookie carrying the session
// cookie. Unknown usernames answer 404, wrong passwords 422 and taken
// usernames 409. Error bodies are JSON with a stable code and never include
// backend error text.
package account
