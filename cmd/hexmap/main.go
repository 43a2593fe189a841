package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/events"
	"github.com/mitchelldurbincs/HexTactics/internal/events/subscribers"
	"github.com/mitchelldurbincs/HexTactics/internal/hex"
	"github.com/mitchelldurbincs/HexTactics/internal/hexgrid"
	"github.com/mitchelldurbincs/HexTactics/internal/mapgen"
	"github.com/mitchelldurbincs/HexTactics/internal/mapstore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: hexmap [-config file] [-env name] [-log-level level] <command> [flags]

commands:
  generate  create a map and save it
  show      print a saved map
  path      find a path between two cells of a saved map
  travel    move a unit of a saved map along its path
  list      list saved maps
  delete    remove a saved map
`

// app bundles the services every command works with
type app struct {
	cfg     *config.Config
	bus     *events.EventBus
	store   *mapstore.FileStore
	catalog *mapstore.Catalog
	out     io.Writer
}

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", "", "Environment overlay, merges config.<env>.yaml")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(*env); err != nil {
		log.Fatal().Err(err).Str("env", *env).Msg("Failed to load environment config")
	}

	cfg := config.Get()
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	setupLogging(*logLevel, cfg.Logging.Format)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open map store")
	}
	defer a.close()

	command, args := flag.Arg(0), flag.Args()[1:]
	switch command {
	case "generate":
		err = a.generate(ctx, args)
	case "show":
		err = a.show(ctx, args)
	case "path":
		err = a.path(ctx, args)
	case "travel":
		err = a.travel(ctx, args)
	case "list":
		err = a.list(ctx)
	case "delete":
		err = a.delete(ctx, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Command failed")
	}
}

func newApp(cfg *config.Config) (*app, error) {
	bus := events.NewEventBus()
	eventLogger := subscribers.NewLoggerSubscriber("cli-logger", log.Logger, zerolog.DebugLevel)
	eventLogger.SetDevMode(cfg.Development.VerboseLogging)
	bus.Subscribe(eventLogger)

	store, err := mapstore.NewFileStore(cfg.Storage.MapDir, log.Logger)
	if err != nil {
		return nil, err
	}
	store.SetEventBus(bus)

	a := &app{cfg: cfg, bus: bus, store: store, out: os.Stdout}
	if cfg.Storage.CatalogEnabled {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.CatalogPath), 0o755); err != nil {
			return nil, fmt.Errorf("create catalog dir: %w", err)
		}
		catalog, err := mapstore.OpenCatalog(cfg.Storage.CatalogPath)
		if err != nil {
			return nil, err
		}
		store.SetCatalog(catalog)
		a.catalog = catalog
	}
	return a, nil
}

func (a *app) close() {
	if a.catalog != nil {
		if err := a.catalog.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close catalog")
		}
	}
}

// newGrid builds an empty grid from the grid and units config sections
func (a *app) newGrid() (*hexgrid.Grid, error) {
	grid, err := hexgrid.NewGrid(hexgrid.Config{
		CellCountX: a.cfg.Grid.Width,
		CellCountZ: a.cfg.Grid.Height,
		NoiseSeed:  a.cfg.Grid.NoiseSeed,
		Noise:      a.cfg.Grid.Noise,
		Units:      a.cfg.UnitStats(),
		Logger:     log.Logger,
	})
	if err != nil {
		return nil, err
	}
	grid.SetEventBus(a.bus)
	return grid, nil
}

func (a *app) loadGrid(ctx context.Context, name string) (*hexgrid.Grid, error) {
	grid, err := a.newGrid()
	if err != nil {
		return nil, err
	}
	if _, err := a.store.Load(ctx, name, grid); err != nil {
		return nil, err
	}
	return grid, nil
}

func (a *app) generate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	name := fs.String("name", "", "Map name")
	width := fs.Int("width", a.cfg.Grid.Width, "Map width in cells")
	height := fs.Int("height", a.cfg.Grid.Height, "Map height in cells")
	seed := fs.Int64("seed", a.cfg.Mapgen.Seed, "Generation seed (0 for a random seed)")
	players := fs.Int("players", 1, "Player units to place")
	enemies := fs.Int("enemies", 3, "Enemy units to place")
	spacing := fs.Int("spacing", 4, "Minimum distance between units")
	fs.Parse(args)
	if *name == "" {
		return errors.New("generate: -name is required")
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	mapConfig := a.cfg.MapConfig(*width, *height)
	mapConfig.Seed = *seed

	grid, err := a.newGrid()
	if err != nil {
		return err
	}
	gen := mapgen.NewGenerator(mapConfig, rand.New(rand.NewSource(*seed)), log.Logger)
	summary, err := gen.Generate(grid)
	if err != nil {
		return err
	}
	if _, err := gen.PlaceUnits(grid, hexgrid.UnitPlayer, *players, *spacing); err != nil {
		return err
	}
	if _, err := gen.PlaceUnits(grid, hexgrid.UnitEnemy, *enemies, *spacing); err != nil {
		return err
	}

	if err := a.store.Save(ctx, *name, grid); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Map %q seed %d: %d land, %d underwater, %d specials, %d road edges, %d walled\n",
		*name, *seed, summary.Land, summary.Underwater, summary.Specials, summary.RoadEdges, summary.Walled)
	render(a.out, grid, renderOptions{labels: a.cfg.Development.ShowLabels})
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	name := fs.String("name", "", "Map name")
	reveal := fs.Bool("reveal", false, "Ignore fog of war")
	chunks := fs.Bool("chunks", false, "Report chunk rebuilds")
	fs.Parse(args)

	grid, err := a.loadGrid(ctx, *name)
	if err != nil {
		return err
	}
	if *chunks {
		rebuilt := grid.RefreshChunks(newChunkTally(log.Logger))
		fmt.Fprintf(a.out, "%d chunks rebuilt\n", rebuilt)
	}

	render(a.out, grid, renderOptions{reveal: *reveal})
	for i, unit := range grid.Units() {
		visible := len(grid.GetVisibleCells(unit.Location(), unit.VisionRange))
		fmt.Fprintf(a.out, "unit %d: %s at %s facing %.0f, sees %d cells\n",
			i, unit.Kind, offsetString(unit.Location()), unit.Orientation(), visible)
	}
	return nil
}

func (a *app) path(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("path", flag.ExitOnError)
	name := fs.String("name", "", "Map name")
	from := fs.String("from", "", "Origin cell as col,row")
	to := fs.String("to", "", "Destination cell as col,row")
	speed := fs.Int("speed", 0, "Movement points per turn (0 to use the unit's or config default)")
	fs.Parse(args)

	grid, err := a.loadGrid(ctx, *name)
	if err != nil {
		return err
	}
	fromCell, err := parseCell(grid, *from)
	if err != nil {
		return err
	}
	toCell, err := parseCell(grid, *to)
	if err != nil {
		return err
	}

	if *speed == 0 {
		*speed = a.cfg.Pathfinding.DefaultSpeed
		if unit, ok := fromCell.Unit.(*hexgrid.Unit); ok {
			*speed = unit.Speed
		}
	}

	found, err := grid.FindPath(fromCell, toCell, *speed)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(a.out, "No path from %s to %s at speed %d\n", *from, *to, *speed)
		return nil
	}

	fmt.Fprintf(a.out, "Path cost %d at speed %d:\n", grid.PathCost(), *speed)
	for _, step := range grid.PathSteps() {
		fmt.Fprintf(a.out, "  turn %d  %s\n", step.Turn, offsetString(step.Cell))
	}
	render(a.out, grid, renderOptions{labels: a.cfg.Development.ShowLabels})
	return nil
}

func (a *app) travel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("travel", flag.ExitOnError)
	name := fs.String("name", "", "Map name")
	index := fs.Int("unit", 0, "Index of the unit to move")
	to := fs.String("to", "", "Destination cell as col,row")
	step := fs.Duration("step", 100*time.Millisecond, "Simulation tick")
	save := fs.Bool("save", false, "Save the map after the move")
	fs.Parse(args)

	grid, err := a.loadGrid(ctx, *name)
	if err != nil {
		return err
	}
	units := grid.Units()
	if *index < 0 || *index >= len(units) {
		return fmt.Errorf("travel: unit %d not found, map has %d units", *index, len(units))
	}
	unit := units[*index]
	toCell, err := parseCell(grid, *to)
	if err != nil {
		return err
	}
	if !unit.IsValidDestination(toCell) {
		return fmt.Errorf("travel: %s is not a valid destination", *to)
	}

	found, err := grid.FindPathFor(unit, toCell)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(a.out, "No path to %s\n", *to)
		return nil
	}
	cells := grid.GetPath()
	grid.ClearPath()
	if err := unit.Travel(cells); err != nil {
		return err
	}

	ticks := 0
	for unit.Tick(step.Seconds()) {
		ticks++
		if err := ctx.Err(); err != nil {
			unit.CancelTravel()
			break
		}
	}

	fmt.Fprintf(a.out, "%s unit arrived at %s after %d ticks, %d cells visible\n",
		unit.Kind, offsetString(unit.Location()), ticks, countVisible(grid))
	render(a.out, grid, renderOptions{})

	if *save {
		return a.store.Save(ctx, *name, grid)
	}
	return nil
}

func (a *app) list(ctx context.Context) error {
	names, err := a.store.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		if a.catalog == nil {
			fmt.Fprintln(a.out, name)
			continue
		}
		rec, err := a.catalog.Get(ctx, name)
		if errors.Is(err, mapstore.ErrMapNotFound) {
			fmt.Fprintf(a.out, "%-20s (not catalogued)\n", name)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%-20s v%d %dx%d %d units %d bytes saved %s\n",
			rec.Name, rec.Version, rec.Width, rec.Height, rec.Units, rec.Bytes,
			rec.SavedAt().Format(time.RFC3339))
	}
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	name := fs.String("name", "", "Map name")
	fs.Parse(args)
	return a.store.Delete(ctx, *name)
}

// parseCell resolves "col,row" offset coordinates on grid
func parseCell(grid *hexgrid.Grid, s string) (*hex.Cell, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cell %q, want col,row", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid column in %q: %w", s, err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid row in %q: %w", s, err)
	}
	cell := grid.GetCellByOffset(col, row)
	if cell == nil {
		return nil, fmt.Errorf("cell %q is outside the map", s)
	}
	return cell, nil
}

func offsetString(cell *hex.Cell) string {
	col, row := cell.Coordinates.ToOffsetCoordinates()
	return fmt.Sprintf("%d,%d", col, row)
}

func countVisible(grid *hexgrid.Grid) int {
	n := 0
	for _, cell := range grid.Cells() {
		if cell.IsVisible() {
			n++
		}
	}
	return n
}

func setupLogging(level, format string) {
	// Parse log level
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
