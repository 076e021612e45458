// Package file provides a HistoryStore that keeps one JSON document per table on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/history"
)

// DefaultDir is used when New is given an empty path.
var DefaultDir = filepath.Join(".blackjack", "tables")

// ErrInvalidTableID is returned for IDs that are empty or would escape the base directory.
var ErrInvalidTableID = errors.New("invalid table id")

// Store implements ports.HistoryStore using the local filesystem.
type Store struct {
	BasePath string
}

// New creates a new Store rooted at basePath.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(tableID string) (string, error) {
	if tableID == "" || strings.ContainsAny(tableID, `/\`) || tableID == "." || tableID == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidTableID, tableID)
	}
	return filepath.Join(s.BasePath, tableID+".json"), nil
}

// Save writes the tree atomically: a temp file in the same directory is written, synced,
// and renamed over the destination.
func (s *Store) Save(ctx context.Context, tableID string, root *history.Node) error {
	destPath, err := s.path(tableID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure table directory: %w", err)
	}

	data, err := history.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+tableID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads and decodes the table's document.
func (s *Store) Load(ctx context.Context, tableID string) (*history.Node, error) {
	filePath, err := s.path(tableID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to read table file: %w", err)
	}

	root, err := history.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal table %s: %w", tableID, err)
	}
	return root, nil
}

// Delete removes the table file.
func (s *Store) Delete(ctx context.Context, tableID string) error {
	filePath, err := s.path(tableID)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete table file: %w", err)
	}
	return nil
}

// List returns the IDs of every table document in the directory.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		tables = append(tables, strings.TrimSuffix(name, ".json"))
	}
	return tables, nil
}
