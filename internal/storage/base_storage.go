// Package storage persists tables and fields as one JSON file per entity plus
// an index.json per entity kind.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/n1rna/tablekit/internal/config"
	"github.com/n1rna/tablekit/internal/logger"
)

const (
	indexFile     = "index.json"
	fileExtension = ".json"
)

// ErrEntityNotFound is returned when no entity file or index entry matches.
var ErrEntityNotFound = errors.New("entity not found")

// BaseStorage provides file operations for one entity kind ("tables", "fields")
type BaseStorage struct {
	mu         sync.RWMutex
	entityType string
	baseDir    string
	indexPath  string
	log        *logger.Logger
}

// NewBaseStorage creates a new base storage instance for an entity type
func NewBaseStorage(cfg *config.Config, entityType string) (*BaseStorage, error) {
	baseDir := filepath.Join(cfg.BaseDir, entityType)

	// Ensure directory exists
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", baseDir, err)
	}

	return &BaseStorage{
		entityType: entityType,
		baseDir:    baseDir,
		indexPath:  filepath.Join(baseDir, indexFile),
		log:        logger.GetLogger().With("storage/" + entityType),
	}, nil
}

// EntityType returns the kind this storage holds.
func (bs *BaseStorage) EntityType() string {
	return bs.entityType
}

// Save writes the entity file and refreshes its index entry
func (bs *BaseStorage) Save(parent string, base Entity, entity interface{}) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	filePath := filepath.Join(bs.baseDir, base.ID+fileExtension)

	data, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write entity file: %w", err)
	}

	index, err := bs.loadIndex()
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}
	index.AddEntity(parent, base)
	if err := bs.saveIndex(index); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}

	bs.log.Debug("saved %s %s (%q)", bs.entityType, base.ID, base.Name)
	return nil
}

// Load reads an entity file into entity
func (bs *BaseStorage) Load(uuid string, entity interface{}) error {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	filePath := filepath.Join(bs.baseDir, uuid+fileExtension)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s %s: %w", bs.entityType, uuid, ErrEntityNotFound)
		}
		return fmt.Errorf("failed to read entity file: %w", err)
	}

	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	return nil
}

// Remove deletes an entity file and its index entry
func (bs *BaseStorage) Remove(uuid string) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	filePath := filepath.Join(bs.baseDir, uuid+fileExtension)
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove entity file: %w", err)
	}

	index, err := bs.loadIndex()
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}
	index.RemoveEntity(uuid)
	if err := bs.saveIndex(index); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}

	bs.log.Debug("removed %s %s", bs.entityType, uuid)
	return nil
}

// Resolve resolves a UUID, api name or name under parent to a UUID
func (bs *BaseStorage) Resolve(parent, ref string) (string, error) {
	index, err := bs.Index()
	if err != nil {
		return "", err
	}

	uuid, found := index.Resolve(parent, ref)
	if !found {
		return "", fmt.Errorf("%s '%s': %w", bs.entityType, ref, ErrEntityNotFound)
	}

	return uuid, nil
}

// List returns the summaries under parent
func (bs *BaseStorage) List(parent string) ([]EntitySummary, error) {
	index, err := bs.Index()
	if err != nil {
		return nil, err
	}
	return index.ListSummaries(parent), nil
}

// Index loads the current index
func (bs *BaseStorage) Index() (*Index, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	index, err := bs.loadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load index: %w", err)
	}
	return index, nil
}

func (bs *BaseStorage) loadIndex() (*Index, error) {
	index := NewIndex()

	data, err := os.ReadFile(bs.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Index doesn't exist yet, return empty index
			return index, nil
		}
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	if err := json.Unmarshal(data, index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}
	if index.Summaries == nil {
		index.Summaries = make(map[string]EntitySummary)
	}

	return index, nil
}

func (bs *BaseStorage) saveIndex(index *Index) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := os.WriteFile(bs.indexPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}
