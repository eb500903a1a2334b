// Package di provides dependency injection container
package di

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Gianuzzi/DeepSpyce/pkg/api"
	"github.com/Gianuzzi/DeepSpyce/pkg/storage"
)

// ArchiveOpener opens the record archive rooted at dir.
type ArchiveOpener func(dir string) (*storage.Archive, error)

// ServerStarter runs the API server until ctx is cancelled.
type ServerStarter func(ctx context.Context, archive api.RecordStore, config api.ServerConfig, logger zerolog.Logger) error

// Container holds all the dependencies for the application
type Container struct {
	openArchive ArchiveOpener
	startServer ServerStarter
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		openArchive: storage.Open,
		startServer: api.StartServer,
	}
}

// GetArchiveOpener returns the archive opener
func (c *Container) GetArchiveOpener() ArchiveOpener {
	return c.openArchive
}

// SetArchiveOpener allows overriding the archive opener (for testing)
func (c *Container) SetArchiveOpener(opener ArchiveOpener) {
	c.openArchive = opener
}

// GetServerStarter returns the server starter
func (c *Container) GetServerStarter() ServerStarter {
	return c.startServer
}

// SetServerStarter allows overriding the server starter (for testing)
func (c *Container) SetServerStarter(starter ServerStarter) {
	c.startServer = starter
}
