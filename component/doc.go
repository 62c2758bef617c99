// Package component defines the lifecycle interface shared by the HTTP,
// MySQL and Redis accessors and an ordered Registry that starts them in
// registration order and stops them in reverse.
package component
