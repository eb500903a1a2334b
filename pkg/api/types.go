package api

import (
	"github.com/segmentio/ksuid"

	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
)

// DefaultMaxBodyBytes caps uploaded filterbank files.
const DefaultMaxBodyBytes = 256 << 20

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HeaderResponse is returned by the decode and record header endpoints.
type HeaderResponse struct {
	Header      *header.Header      `json:"header"`
	Diagnostics []header.Diagnostic `json:"diagnostics"`
}

// ValidateResponse is returned by the validate endpoint.
type ValidateResponse struct {
	OK          bool                `json:"ok"`
	Diagnostics []header.Diagnostic `json:"diagnostics"`
}

// RecordResponse identifies a stored record.
type RecordResponse struct {
	ID          string              `json:"id"`
	Diagnostics []header.Diagnostic `json:"diagnostics,omitempty"`
}

// RecordListResponse lists record ids.
type RecordListResponse struct {
	IDs []string `json:"ids"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
	// Options decode uploaded files and archived records.
	Options      filterbank.Options
	MaxBodyBytes int64
}

// RecordStore is the part of the archive the API serves.
type RecordStore interface {
	PutBytes(b []byte, opts filterbank.Options) (ksuid.KSUID, []header.Diagnostic, error)
	Bytes(id ksuid.KSUID) ([]byte, error)
	Header(id ksuid.KSUID, opts filterbank.Options) (*header.Header, []header.Diagnostic, error)
	Delete(id ksuid.KSUID) error
	List() ([]ksuid.KSUID, error)
	Find(key, value string) ([]ksuid.KSUID, error)
}
