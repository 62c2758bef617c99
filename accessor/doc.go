// Package accessor wires the HTTP, MySQL and Redis accessors behind one
// configuration and lifecycle.
//
// Config embeds config.ServiceConfig and holds one section per backend;
// LoadConfig reads it from YAML, a .env file and ACCESSORKIT_* style
// environment variables. Kit registers a component per enabled section
// and starts them in order. A backend that cannot be reached at Start is
// logged and reported by Health; its accessor keeps failing with
// OPEN_FAILURE instead of aborting the process.
package accessor
