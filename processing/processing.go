// Package processing takes care of the logistics around compositing: reading
// source tiles, running composites on a bounded number of goroutines and
// writing the results. Not the compositing itself.
package processing

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pdok/vtcomposite/composite"
	"github.com/pdok/vtcomposite/tilematrix"
	"github.com/pdok/vtcomposite/vectortile"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Job composites the Sources into Dest
type Job struct {
	Dest    tilematrix.Coordinate
	Sources []tilematrix.Coordinate
	Options composite.Options
}

type counts struct {
	total, written, empty, skipped atomic.Uint64
}

// ProcessTiles runs the jobs on at most workers goroutines. Missing source
// tiles are left out, a job without any source tile is skipped and an empty
// result is not written. The first error stops all processing.
// Metrics may be nil.
func ProcessTiles(ctx context.Context, source Source, target Target, jobs []Job, workers int, metrics *Metrics) error {
	if workers < 1 {
		workers = 1
	}
	var c counts
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, job := range jobs {
		if gCtx.Err() != nil {
			break
		}
		job := job
		g.Go(func() error {
			return processJob(gCtx, source, target, job, metrics, &c)
		})
	}
	err := g.Wait()

	log.Infof("    total tiles: %d", c.total.Load())
	log.Infof("        written: %d", c.written.Load())
	log.Infof("          empty: %d", c.empty.Load())
	log.Infof("        skipped: %d", c.skipped.Load())
	return err
}

func processJob(ctx context.Context, source Source, target Target, job Job, metrics *Metrics, c *counts) error {
	c.total.Add(1)
	sources, err := readSources(ctx, source, job.Sources)
	if err != nil {
		metrics.observe(resultError, 0, 0)
		return err
	}
	if len(sources) == 0 {
		log.Debugf("%s: no source tiles", job.Dest)
		c.skipped.Add(1)
		metrics.observe(resultSkipped, 0, 0)
		return nil
	}

	start := time.Now()
	out, err := composite.Composite(job.Dest, sources, job.Options)
	took := time.Since(start)
	if err != nil {
		metrics.observe(resultError, took, 0)
		return fmt.Errorf("composite %s: %w", job.Dest, err)
	}
	if len(out) == 0 {
		log.Debugf("%s: nothing left after compositing %d tiles", job.Dest, len(sources))
		c.empty.Add(1)
		metrics.observe(resultEmpty, took, 0)
		return nil
	}
	metrics.observe(resultOK, took, len(out))
	if err = target.WriteTile(ctx, job.Dest, out); err != nil {
		return fmt.Errorf("write %s: %w", job.Dest, err)
	}
	c.written.Add(1)
	return nil
}

func readSources(ctx context.Context, source Source, coords []tilematrix.Coordinate) ([]*vectortile.VectorTile, error) {
	tiles := make([]*vectortile.VectorTile, 0, len(coords))
	for _, c := range coords {
		raw, err := source.ReadTile(ctx, c)
		if errors.Is(err, ErrTileNotFound) {
			log.Debugf("%s: not found", c)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c, err)
		}
		tiles = append(tiles, vectortile.FromRaw(c, raw))
	}
	return tiles, nil
}

// Mosaic returns the job compositing the children of dest at the given zoom
func Mosaic(dest tilematrix.Coordinate, zoom uint, opts composite.Options) Job {
	job := Job{Dest: dest, Options: opts}
	if zoom < dest.Z {
		return job
	}
	d := zoom - dest.Z
	n := uint(1) << d
	for y := uint(0); y < n; y++ {
		for x := uint(0); x < n; x++ {
			job.Sources = append(job.Sources, tilematrix.Coordinate{Z: zoom, X: dest.X<<d + x, Y: dest.Y<<d + y})
		}
	}
	return job
}

// Overzoom returns the job compositing the ancestor of dest at the given zoom into dest
func Overzoom(dest tilematrix.Coordinate, zoom uint, opts composite.Options) Job {
	if zoom > dest.Z {
		zoom = dest.Z
	}
	return Job{Dest: dest, Sources: []tilematrix.Coordinate{dest.Parent(zoom)}, Options: opts}
}
