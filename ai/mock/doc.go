// Package mock provides deterministic test doubles for the ai interfaces.
// The doubles support behavior injection through function fields and track
// call counts for assertions.
package mock
