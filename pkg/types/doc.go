// Package types defines the entity base, the domain variants, the record
// form they serialize to, the Storage interface, and the standard errors
// shared by the storage backends and the console.
package types
