package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/n1rna/tablekit/internal/entities"
	"github.com/n1rna/tablekit/internal/fieldtype"
	"github.com/n1rna/tablekit/internal/form"
	"github.com/n1rna/tablekit/internal/identifier"
	"github.com/n1rna/tablekit/internal/logger"
)

type (
	entityManagerKey struct{}
	registryKey      struct{}
)

// errValidation is returned after the form errors have been printed
var errValidation = errors.New("validation failed")

// WithEntityManager returns a new context with the entity manager instance
func WithEntityManager(ctx context.Context, manager *entities.Manager) context.Context {
	return context.WithValue(ctx, entityManagerKey{}, manager)
}

// GetEntityManager retrieves the entity manager instance from the context
func GetEntityManager(ctx context.Context) *entities.Manager {
	if manager, ok := ctx.Value(entityManagerKey{}).(*entities.Manager); ok {
		return manager
	}
	return nil
}

// WithRegistry returns a new context with the field type registry
func WithRegistry(ctx context.Context, registry *fieldtype.Registry) context.Context {
	return context.WithValue(ctx, registryKey{}, registry)
}

// GetRegistry retrieves the field type registry from the context
func GetRegistry(ctx context.Context) *fieldtype.Registry {
	if registry, ok := ctx.Value(registryKey{}).(*fieldtype.Registry); ok {
		return registry
	}
	return nil
}

// requireManager retrieves the entity manager and returns an error if not found
func requireManager(ctx context.Context) (*entities.Manager, error) {
	manager := GetEntityManager(ctx)
	if manager == nil {
		return nil, fmt.Errorf("entity manager not initialized")
	}
	return manager, nil
}

// requireRegistry retrieves the registry and returns an error if not found
func requireRegistry(ctx context.Context) (*fieldtype.Registry, error) {
	registry := GetRegistry(ctx)
	if registry == nil {
		return nil, fmt.Errorf("field type registry not initialized")
	}
	return registry, nil
}

// tableSiblings reads the tables of databaseID from storage on every call
func tableSiblings(manager *entities.Manager, databaseID string) form.SiblingSource {
	return func() []identifier.Sibling {
		siblings, err := manager.Tables.Siblings(databaseID)
		if err != nil {
			logger.Warn("failed to read tables of %s: %v", databaseID, err)
			return nil
		}
		return siblings
	}
}

// fieldSiblings reads the fields of tableID from storage on every call
func fieldSiblings(manager *entities.Manager, tableID string) form.SiblingSource {
	return func() []identifier.Sibling {
		siblings, err := manager.Fields.Siblings(tableID)
		if err != nil {
			logger.Warn("failed to read fields of %s: %v", tableID, err)
			return nil
		}
		return siblings
	}
}

// databaseTables returns the tables a link field may point at
func databaseTables(manager *entities.Manager, databaseID string) ([]entities.Table, error) {
	tables, err := manager.Tables.List(databaseID)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Table, 0, len(tables))
	for _, t := range tables {
		out = append(out, *t)
	}
	return out, nil
}
