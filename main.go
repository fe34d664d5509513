package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/pdok/vtcomposite/composite"
	"github.com/pdok/vtcomposite/mapslicehelp"
	"github.com/pdok/vtcomposite/processing"
	"github.com/pdok/vtcomposite/render"
	"github.com/pdok/vtcomposite/tilematrix"
	"github.com/pdok/vtcomposite/vectortile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const VERBOSE string = `verbose`
const DEST string = `dest`
const SOURCES string = `source`
const MBTILES string = `mbtiles`
const DIR string = `dir`
const TARGETDIR string = `targetDir`
const OUT string = `out`
const IN string = `in`
const OPTIONS string = `options`
const BUFFERSIZE string = `bufferSize`
const SOURCEZOOM string = `sourceZoom`
const ZOOM string = `zoom`
const WORKERS string = `workers`
const METRICSADDR string = `metricsAddr`
const LAYERS string = `layers`
const WIDTH string = `width`

func flagEnv(name string) []string {
	return []string{"VTCOMPOSITE_" + strcase.ToScreamingSnake(name)}
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

//nolint:funlen
func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "vtcomposite"
	app.Usage = "Composite Mapbox vector tiles into other tiles"
	app.Version = versioninfo.Short()

	sourceFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    MBTILES,
			Aliases: []string{"m"},
			Usage:   "MBTiles file to read source tiles from",
			EnvVars: flagEnv(MBTILES),
		},
		&cli.StringFlag{
			Name:    DIR,
			Aliases: []string{"d"},
			Usage:   "Path pattern to read source tiles from. E.g.: tiles/{z}/{x}/{y}.pbf",
			EnvVars: flagEnv(DIR),
		},
		&cli.StringFlag{
			Name:    OPTIONS,
			Usage:   `Composite options as JSON. E.g.: {"buffer_size": 64, "area_threshold": 2}`,
			Value:   "{}",
			EnvVars: flagEnv(OPTIONS),
		},
		&cli.IntFlag{
			Name:    BUFFERSIZE,
			Aliases: []string{"b"},
			Usage:   "Buffer size in pixels, overrides the buffer_size option",
			EnvVars: flagEnv(BUFFERSIZE),
		},
	}

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    VERBOSE,
			Usage:   "Log debug information",
			EnvVars: flagEnv(VERBOSE),
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.Bool(VERBOSE) {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	}

	app.Commands = []*cli.Command{
		{
			Name:  "composite",
			Usage: "Composite source tiles into a single destination tile",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     DEST,
					Usage:    "Destination tile as z/x/y",
					Required: true,
					EnvVars:  flagEnv(DEST),
				},
				&cli.StringSliceFlag{
					Name:     SOURCES,
					Aliases:  []string{"s"},
					Usage:    "Source tile as z/x/y, in order. Can be repeated",
					Required: true,
				},
				&cli.StringFlag{
					Name:     OUT,
					Aliases:  []string{"o"},
					Usage:    "File to write the composited tile to",
					Required: true,
					EnvVars:  flagEnv(OUT),
				},
			}, sourceFlags...),
			Action: compositeAction,
		},
		{
			Name:  "mosaic",
			Usage: "Composite all tiles of a zoom level into the tiles of another zoom level",
			Flags: append([]cli.Flag{
				&cli.UintFlag{
					Name:     SOURCEZOOM,
					Usage:    "Zoom level of the source tiles",
					Required: true,
					EnvVars:  flagEnv(SOURCEZOOM),
				},
				&cli.UintFlag{
					Name:     ZOOM,
					Aliases:  []string{"z"},
					Usage:    "Zoom level of the destination tiles. Deeper than the source zoom overzooms",
					Required: true,
					EnvVars:  flagEnv(ZOOM),
				},
				&cli.StringFlag{
					Name:     TARGETDIR,
					Aliases:  []string{"t"},
					Usage:    "Path pattern to write destination tiles to. E.g.: out/{z}/{x}/{y}.pbf",
					Required: true,
					EnvVars:  flagEnv(TARGETDIR),
				},
				&cli.IntFlag{
					Name:    WORKERS,
					Aliases: []string{"w"},
					Usage:   "Number of tiles composited in parallel",
					Value:   4,
					EnvVars: flagEnv(WORKERS),
				},
				&cli.StringFlag{
					Name:    METRICSADDR,
					Usage:   "Address to serve Prometheus metrics on while running. E.g.: :9100",
					EnvVars: flagEnv(METRICSADDR),
				},
			}, sourceFlags...),
			Action: mosaicAction,
		},
		{
			Name:  "names",
			Usage: "List the layer names of a tile without parsing it",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     IN,
					Aliases:  []string{"i"},
					Usage:    "Tile file",
					Required: true,
				},
			},
			Action: namesAction,
		},
		{
			Name:  "dump",
			Usage: "Print the features of a tile as WKT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     IN,
					Aliases:  []string{"i"},
					Usage:    "Tile file",
					Required: true,
				},
				&cli.StringSliceFlag{
					Name:    LAYERS,
					Aliases: []string{"l"},
					Usage:   "Only print these layers. Default all",
				},
				&cli.UintFlag{
					Name:  WIDTH,
					Usage: "Truncate WKT at this many characters, 0 for no limit",
					Value: 120,
				},
			},
			Action: dumpAction,
		},
	}
	return app
}

func compositeAction(c *cli.Context) error {
	dest, err := tilematrix.ParseCoordinate(c.String(DEST))
	if err != nil {
		return err
	}
	opts, err := readOptions(c)
	if err != nil {
		return err
	}
	source, closeSource, err := openSource(c)
	if err != nil {
		return err
	}
	defer closeSource()

	var sources []*vectortile.VectorTile
	for _, s := range c.StringSlice(SOURCES) {
		coord, err := tilematrix.ParseCoordinate(s)
		if err != nil {
			return err
		}
		raw, err := source.ReadTile(c.Context, coord)
		if errors.Is(err, processing.ErrTileNotFound) {
			log.Warnf("source tile %s not found", coord)
			continue
		}
		if err != nil {
			return err
		}
		sources = append(sources, vectortile.FromRaw(coord, raw))
	}

	out, err := processing.CompositeAsync(dest, sources, opts).Wait(c.Context)
	if err != nil {
		return err
	}
	names, err := vectortile.FromRaw(dest, out).RawLayerNames()
	if err != nil {
		return err
	}
	log.Infof("composited %d tiles into %s: %d bytes, layers %v", len(sources), dest, len(out), names)
	return os.WriteFile(c.String(OUT), out, 0o644) //nolint:gosec
}

func mosaicAction(c *cli.Context) error {
	opts, err := readOptions(c)
	if err != nil {
		return err
	}
	source, closeSource, err := openSource(c)
	if err != nil {
		return err
	}
	defer closeSource()
	target, err := newXYZTiles(c.String(TARGETDIR))
	if err != nil {
		return err
	}

	sourceZoom, zoom := c.Uint(SOURCEZOOM), c.Uint(ZOOM)
	if zoom > tilematrix.MaxZoom || sourceZoom > tilematrix.MaxZoom {
		return fmt.Errorf("zoom levels must not exceed %d", tilematrix.MaxZoom)
	}
	size := tilematrix.MatrixSize(zoom)
	jobs := make([]processing.Job, 0, size*size)
	for y := uint(0); y < size; y++ {
		for x := uint(0); x < size; x++ {
			dest := tilematrix.Coordinate{Z: zoom, X: x, Y: y}
			if sourceZoom > zoom {
				jobs = append(jobs, processing.Mosaic(dest, sourceZoom, opts))
			} else {
				jobs = append(jobs, processing.Overzoom(dest, sourceZoom, opts))
			}
		}
	}

	reg := prometheus.NewRegistry()
	metrics := processing.NewMetrics(reg)
	if addr := c.String(METRICSADDR); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil { //nolint:gosec
				log.Errorf("metrics server: %s", err)
			}
		}()
	}

	log.Infof("=== start compositing zoom %d into zoom %d ===", sourceZoom, zoom)
	err = processing.ProcessTiles(c.Context, source, target, processing.SortJobs(jobs), c.Int(WORKERS), metrics)
	if err != nil {
		return err
	}
	log.Info("=== done compositing ===")
	return nil
}

func namesAction(c *cli.Context) error {
	raw, err := os.ReadFile(c.String(IN))
	if err != nil {
		return err
	}
	raw, err = decompress(raw)
	if err != nil {
		return err
	}
	names, err := vectortile.FromRaw(tilematrix.Coordinate{}, raw).RawLayerNames()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, strings.Join(names, "\n"))
	return nil
}

func dumpAction(c *cli.Context) error {
	raw, err := os.ReadFile(c.String(IN))
	if err != nil {
		return err
	}
	raw, err = decompress(raw)
	if err != nil {
		return err
	}
	vt := vectortile.FromRaw(tilematrix.Coordinate{}, raw)
	if err = vt.Parse(); err != nil {
		return err
	}

	// every layer is styled with its own name
	styles := render.StyleSet[string]{}
	names, err := vt.RawLayerNames()
	if err != nil {
		return err
	}
	layers := c.StringSlice(LAYERS)
	if len(layers) == 0 {
		layers = names
	}
	present := mapslicehelp.AsKeys(names)
	for _, l := range layers {
		if _, ok := present[l]; !ok {
			log.Warnf("layer %s not found in %s", l, c.String(IN))
		}
		styles[l] = l
	}

	renderer := render.WKTRenderer{Width: c.Uint(WIDTH)}
	out, err := render.RenderAsync[string](c.Context, renderer, vt, styles).Wait(c.Context)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}

func readOptions(c *cli.Context) (composite.Options, error) {
	opts, err := composite.ParseOptions([]byte(c.String(OPTIONS)))
	if err != nil {
		return opts, err
	}
	if c.IsSet(BUFFERSIZE) {
		opts.BufferSize = c.Int(BUFFERSIZE)
	}
	return opts, nil
}

func openSource(c *cli.Context) (processing.Source, func(), error) {
	switch {
	case c.String(MBTILES) != "" && c.String(DIR) != "":
		return nil, nil, fmt.Errorf("use either --%s or --%s", MBTILES, DIR)
	case c.String(MBTILES) != "":
		source, err := openMBTiles(c.String(MBTILES))
		if err != nil {
			return nil, nil, err
		}
		return source, func() {
			if err := source.Close(); err != nil {
				log.Errorf("closing %s: %s", c.String(MBTILES), err)
			}
		}, nil
	case c.String(DIR) != "":
		source, err := newXYZTiles(c.String(DIR))
		if err != nil {
			return nil, nil, err
		}
		return source, func() {}, nil
	}
	return nil, nil, fmt.Errorf("missing source, use --%s or --%s", MBTILES, DIR)
}
