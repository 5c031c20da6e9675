// Package medium describes the layout of the removable medium that carries
// the catalog, the manifest and the staged payloads between visits.
package medium

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bamsammich/sneaker/internal/platform"
)

const (
	CatalogFile  = "offsite_catalog.json"
	ManifestFile = "instructions.json"
	DataDir      = "Data"
)

// Medium is a removable-medium root.
type Medium struct {
	Root string
}

// New returns the Medium rooted at root. It does not touch the filesystem.
func New(root string) Medium {
	return Medium{Root: root}
}

func (m Medium) CatalogPath() string  { return filepath.Join(m.Root, CatalogFile) }
func (m Medium) ManifestPath() string { return filepath.Join(m.Root, ManifestFile) }
func (m Medium) DataPath() string     { return filepath.Join(m.Root, DataDir) }

// StagedPath returns where the payload for relPath lives in the staging area.
func (m Medium) StagedPath(relPath string) string {
	return filepath.Join(m.Root, DataDir, relPath)
}

// Exists reports whether the medium root is an existing directory.
func (m Medium) Exists() bool {
	info, err := os.Stat(m.Root)
	return err == nil && info.IsDir()
}

// HasCatalog reports whether a catalog has been written to the medium.
func (m Medium) HasCatalog() bool {
	_, err := os.Stat(m.CatalogPath())
	return err == nil
}

// RemoveManifest deletes the manifest. A missing manifest is not an error.
func (m Medium) RemoveManifest() error {
	if err := os.Remove(m.ManifestPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove manifest: %w", err)
	}
	return nil
}

// RemoveData deletes the staging area and everything in it.
func (m Medium) RemoveData() error {
	if err := os.RemoveAll(m.DataPath()); err != nil {
		return fmt.Errorf("remove staging area: %w", err)
	}
	return nil
}

// Reset removes both the manifest and the staging area, leaving only the
// catalog. Both removals are attempted even if the first fails.
func (m Medium) Reset() error {
	return errors.Join(m.RemoveManifest(), m.RemoveData())
}

// FreeBytes returns the space available to unprivileged writers on the
// medium's filesystem.
func (m Medium) FreeBytes() (uint64, error) {
	return platform.FreeSpace(m.Root)
}
