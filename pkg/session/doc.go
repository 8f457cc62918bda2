// Package session holds the application and user information a presentation
// layer needs while evaluating view expressions. A Session is an explicit
// value passed to whatever needs it: callers create one per application
// instance, Init it once, and Close it on teardown.
package session
