package composite

import (
	"fmt"
	"sort"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/perimeterx/marshmallow"
	log "github.com/sirupsen/logrus"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Options tunes a composite. Composite gives zero fields their default,
// so Options{BufferSize: 64} is as good as NewOptions with BufferSize set.
type Options struct {
	// BufferSize in pixels around the destination tile that is kept when clipping, may be negative
	BufferSize int `default:"0" validate:"gte=-1048576,lte=1048576" json:"buffer_size"`
	// TileSize in pixels, used to convert BufferSize into tile-local units
	TileSize uint `default:"256" validate:"min=1" json:"tile_size"`
	// AreaThreshold drops polygon rings with a smaller area and line strings with a smaller length
	AreaThreshold float64 `default:"0" validate:"gte=0" json:"area_threshold"`
	// SimplifyDistance is the Douglas-Peucker tolerance applied after clipping, zero for none
	SimplifyDistance float64 `default:"0" validate:"gte=0" json:"simplify_distance"`
}

func NewOptions() Options {
	var opts Options
	if err := defaults.Set(&opts); err != nil {
		panic(err)
	}
	return opts
}

// ParseOptions reads options from JSON. Unknown keys are logged and ignored.
func ParseOptions(data []byte) (Options, error) {
	opts := NewOptions()
	unknown, err := marshmallow.Unmarshal(data, &opts, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return Options{}, fmt.Errorf("invalid composite options: %w", err)
	}
	if len(unknown) > 0 {
		keys := make([]string, 0, len(unknown))
		for k := range unknown {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		log.Warnf("ignoring unknown composite options: %v", keys)
	}
	if err = opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid composite options: %w", err)
	}
	return nil
}

// withDefaults fills in the zero fields
func (o Options) withDefaults() (Options, error) {
	if err := defaults.Set(&o); err != nil {
		return Options{}, fmt.Errorf("invalid composite options: %w", err)
	}
	return o, nil
}

// Buffer converts BufferSize into units of a layer with the given extent
func (o Options) Buffer(extent uint32) int64 {
	return int64(o.BufferSize) * int64(extent) / int64(o.TileSize)
}

// clipping is active when anything but the unbuffered, unfiltered extent applies
func (o Options) clipping() bool {
	return o.BufferSize != 0 || o.AreaThreshold != 0 || o.SimplifyDistance != 0
}
