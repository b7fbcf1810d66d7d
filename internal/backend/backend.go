// Package backend builds the storage and event stack selected by
// configuration.
package backend

import (
	"cashflow/internal/services"
	"cashflow/internal/storage"
)

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	return []string{SQLiteBackend.String(), MemoryBackend.String()}
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string

	// Optional; events are skipped when AMQPURL is empty.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Seed files for the memory backend.
	DataDirectory string
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Backend is the assembled application core.
type Backend struct {
	Repository   storage.Repository
	Transactions *services.TransactionService
	Dashboard    *services.DashboardService
	Cleanup      CleanupFunc
}
