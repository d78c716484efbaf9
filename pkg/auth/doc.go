// Package auth implements account registration and the cookie login
// handshake on top of pkg/session.
//
// Login verifies the username and password, creates a session, stores the
// user id under session.Config.UserIDKey, saves it and returns the one-time
// cookie value for the caller to send in Set-Cookie:
//
//	cookie, u, err := svc.Login(ctx, username, password)
//	switch {
//	case errors.Is(err, auth.ErrUserNotFound):
//	case errors.Is(err, auth.ErrWrongPassword):
//	}
//
// Failed logins never create a session. Logout removes the session record;
// clearing the browser cookie is left to the HTTP layer.
package auth
