// Package store defines the persistence interfaces and sentinel errors used
// by the rest of the application. Concrete implementations live under
// internal/platform; services and handlers depend only on the interfaces
// declared here.
package store
