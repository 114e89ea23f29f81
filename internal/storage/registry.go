package storage

import (
	"fmt"

	"proxyswitch/internal/db"
)

// Factory opens a Backend at path and returns a function releasing it.
type Factory func(path string) (Backend, func(), error)

var registry = make(map[string]Factory)

func Register(name string, factory Factory) {
	registry[name] = factory
}

func Open(name, path string) (Backend, func(), error) {
	factory, ok := registry[name]
	if !ok {
		return nil, nil, fmt.Errorf("storage backend '%s' not found", name)
	}
	return factory(path)
}

func init() {
	Register("sqlite", func(path string) (Backend, func(), error) {
		database, err := db.Connect(path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(database); err != nil {
			db.Close(database)
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return NewGormBackend(database), func() { db.Close(database) }, nil
	})
	Register("memory", func(string) (Backend, func(), error) {
		return NewMemoryBackend(), func() {}, nil
	})
}
