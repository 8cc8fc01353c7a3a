// Package storage provides file system operations for .td/ workspaces.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jacksmith/td/internal/persist"
	"gopkg.in/yaml.v3"
)

const (
	// tdDir is the name of the td directory.
	tdDir = ".td"
	// configFile is the name of the workspace file within .td/.
	configFile = "config.yaml"
	// boltFile and sqliteFile hold the blob for the bolt and sqlite backends.
	boltFile   = "tasks.db"
	sqliteFile = "tasks.sqlite"

	// CurrentVersion is the workspace layout version written by Init.
	CurrentVersion = 1
)

// StorageConfig contains settings stored in .td/config.yaml.
type StorageConfig struct {
	Version int `yaml:"version"`
}

// Storage provides access to a .td/ directory.
type Storage struct {
	root    string // path to directory containing .td/
	version int
}

// Open returns a Storage for the given directory.
// Returns error if .td/ does not exist or was written by a newer td.
func Open(dir string) (*Storage, error) {
	tdPath := filepath.Join(dir, tdDir)
	info, err := os.Stat(tdPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(".td/ directory not found in %s (run 'td init')", dir)
		}
		return nil, fmt.Errorf("failed to access .td/: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(".td is not a directory")
	}

	s := &Storage{root: dir}
	sc, err := s.loadStorageConfig()
	if err != nil {
		return nil, err
	}
	if sc.Version > CurrentVersion {
		return nil, fmt.Errorf("workspace version %d is newer than supported version %d", sc.Version, CurrentVersion)
	}
	s.version = sc.Version
	return s, nil
}

// Init creates the .td/ directory and its config.yaml.
// Returns error if .td/ already exists.
func Init(dir string) (*Storage, error) {
	tdPath := filepath.Join(dir, tdDir)

	if _, err := os.Stat(tdPath); err == nil {
		return nil, fmt.Errorf(".td/ directory already exists in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for .td/: %w", err)
	}

	if err := os.MkdirAll(tdPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .td/: %w", err)
	}

	cfg := StorageConfig{Version: CurrentVersion}
	cfgData, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	cfgPath := filepath.Join(tdPath, configFile)
	if err := os.WriteFile(cfgPath, cfgData, 0644); err != nil {
		os.RemoveAll(tdPath)
		return nil, fmt.Errorf("failed to write config.yaml: %w", err)
	}

	return &Storage{root: dir, version: CurrentVersion}, nil
}

// loadStorageConfig reads .td/config.yaml. A missing file means version 1.
func (s *Storage) loadStorageConfig() (*StorageConfig, error) {
	sc := &StorageConfig{Version: CurrentVersion}
	data, err := os.ReadFile(filepath.Join(s.TdPath(), configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return sc, nil
		}
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
	}
	return sc, nil
}

// Root returns the root directory containing .td/.
func (s *Storage) Root() string {
	return s.root
}

// TdPath returns the path to the .td/ directory.
func (s *Storage) TdPath() string {
	return filepath.Join(s.root, tdDir)
}

// Version returns the workspace layout version.
func (s *Storage) Version() int {
	return s.version
}

// LogPath returns where the log file for cfg lives. Relative paths are
// resolved against .td/.
func (s *Storage) LogPath(cfg *Config) string {
	if filepath.IsAbs(cfg.LogFile) {
		return cfg.LogFile
	}
	return filepath.Join(s.TdPath(), cfg.LogFile)
}

// OpenAdapter constructs the persistence backend selected by cfg.
// The caller owns the adapter and must Close it.
func (s *Storage) OpenAdapter(cfg *Config) (persist.Adapter, error) {
	var (
		a   persist.Adapter
		err error
	)
	switch cfg.Backend {
	case BackendFile:
		a, err = persist.NewFile(s.TdPath(), cfg.Key)
	case BackendBolt:
		a, err = persist.NewBolt(filepath.Join(s.TdPath(), boltFile), cfg.Key)
	case BackendSQLite:
		a, err = persist.NewSQLite(filepath.Join(s.TdPath(), sqliteFile), cfg.Key)
	case BackendMemory:
		a = persist.NewMemory(cfg.Key)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
