package mapstore

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mitchelldurbincs/HexTactics/internal/events"
	"github.com/mitchelldurbincs/HexTactics/internal/hexgrid"
	"github.com/rs/zerolog"
)

const mapExtension = ".map"

// FileStore keeps one binary map file per name in a directory. Each file starts
// with an int32 format version followed by the grid body.
type FileStore struct {
	dir     string
	catalog *Catalog
	bus     events.Publisher
	logger  zerolog.Logger
}

// NewFileStore creates dir if needed and returns a store rooted there
func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create map directory: %w", err)
	}
	return &FileStore{
		dir:    dir,
		logger: logger.With().Str("component", "MapStore").Str("dir", dir).Logger(),
	}, nil
}

// SetCatalog attaches a catalog that is updated on every save and delete
func (s *FileStore) SetCatalog(c *Catalog) { s.catalog = c }

func (s *FileStore) SetEventBus(bus events.Publisher) { s.bus = bus }

func (s *FileStore) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// Path returns the file a map name is stored in
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+mapExtension)
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidMapName, name)
	}
	return nil
}

// Save writes grid under name, replacing any previous file atomically
func (s *FileStore) Save(ctx context.Context, name string, grid *hexgrid.Grid) error {
	if err := validateName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("save map %q: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if err := binary.Write(tmp, binary.LittleEndian, int32(hexgrid.MapFormatVersion)); err != nil {
		tmp.Close()
		return fmt.Errorf("save map %q: %w", name, err)
	}
	if err := grid.Save(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("save map %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save map %q: %w", name, err)
	}

	path := s.Path(name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save map %q: %w", name, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("save map %q: %w", name, err)
	}

	s.logger.Info().Str("name", name).Int64("bytes", info.Size()).Msg("Map saved")
	s.publish(events.NewMapSavedEvent(grid.ID(), name, path, info.Size()))

	if s.catalog != nil {
		rec := MapRecord{
			Name:      name,
			MapID:     grid.ID(),
			Version:   hexgrid.MapFormatVersion,
			Width:     grid.CellCountX(),
			Height:    grid.CellCountZ(),
			Units:     len(grid.Units()),
			Bytes:     info.Size(),
			SavedUnix: time.Now().UnixNano(),
		}
		if err := s.catalog.Record(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the map stored under name into grid and returns its format
// version. A missing file or a version newer than this build understands
// leaves grid untouched.
func (s *FileStore) Load(ctx context.Context, name string, grid *hexgrid.Grid) (int, error) {
	if err := validateName(name); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	path := s.Path(name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Error().Str("path", path).Msg("File does not exist")
		return 0, fmt.Errorf("%w: %s", ErrMapNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("load map %q: %w", name, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var header int32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return 0, fmt.Errorf("load map %q header: %w", name, err)
	}
	version := int(header)
	if version < 0 || version > hexgrid.MapFormatVersion {
		s.logger.Warn().Str("name", name).Int("version", version).Msg("Unknown map format")
		return version, fmt.Errorf("%w: %d", ErrUnknownMapFormat, version)
	}

	if err := grid.Load(r, version); err != nil {
		return version, fmt.Errorf("load map %q: %w", name, err)
	}

	s.logger.Info().Str("name", name).Int("version", version).Int("units", len(grid.Units())).Msg("Map loaded")
	s.publish(events.NewMapLoadedEvent(grid.ID(), name, version, len(grid.Units())))
	return version, nil
}

// List returns the names of all stored maps in lexical order
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != mapExtension {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), mapExtension))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the map stored under name
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.Path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMapNotFound, name)
		}
		return fmt.Errorf("delete map %q: %w", name, err)
	}
	if s.catalog != nil {
		return s.catalog.Delete(ctx, name)
	}
	return nil
}
