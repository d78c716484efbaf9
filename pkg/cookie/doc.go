// Package cookie writes and clears a single named cookie with consistent
// attributes. bluebird uses it for the session cookie:
//
//	m, _ := cookie.New("bluebird_session", cookie.WithSecure(true))
//	_ = m.Set(w, sessionCookie)
//	m.Delete(w)
package cookie
