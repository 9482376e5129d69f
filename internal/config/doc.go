// Package config handles configuration loading, parsing, and validation
// from defaults, an optional taskdesk config file and TASKDESK_ environment
// variables. It provides type-safe access to client settings while keeping
// configuration details separate from the session and task logic.
package config
