package processing

import (
	"github.com/pdok/vtcomposite/morton"
	"github.com/umpc/go-sortedmap"
)

type jobOrder struct {
	zoom  uint
	code  morton.Code
	index int
}

func lessJobOrder(x, y interface{}) bool {
	a, b := x.(jobOrder), y.(jobOrder)
	switch {
	case a.zoom != b.zoom:
		return a.zoom < b.zoom
	case a.code != b.code:
		return a.code < b.code
	default:
		return a.index < b.index
	}
}

// SortJobs returns the jobs ordered by zoom level and then along the Z-order curve of their
// destination, so that workers running at the same time read neighbouring source tiles.
// The given slice is not modified.
func SortJobs(jobs []Job) []Job {
	order := sortedmap.New(len(jobs), lessJobOrder)
	for i, job := range jobs {
		order.Insert(i, jobOrder{
			zoom:  job.Dest.Z,
			code:  morton.Encode(uint32(job.Dest.X), uint32(job.Dest.Y)),
			index: i,
		})
	}
	sorted := make([]Job, 0, len(jobs))
	for _, key := range order.Keys() {
		sorted = append(sorted, jobs[key.(int)])
	}
	return sorted
}
