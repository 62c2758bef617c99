// Package version carries the build version of accessorkit. The HTTP
// accessor uses it for its default User-Agent.
//
//	go build -ldflags "-X github.com/kbukum/accessorkit/version.Version=1.0.0"
package version
