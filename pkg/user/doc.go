// Package user holds the account model and its storage.
//
// Usernames are stored in normalised form (see NormalizeUsername), so
// lookups must normalise their input the same way. PostgresRepository maps
// the unique violation on users.username to ErrUsernameTaken and a missing
// row to ErrNotFound.
package user
