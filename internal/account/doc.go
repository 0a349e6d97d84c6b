// Package account signs users in and out and manages their profile,
// password and account deletion. The signed-in username lives in a
// session.Store shared with the other components.
package account
