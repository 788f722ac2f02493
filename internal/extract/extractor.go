// Package extract builds point-of-interest records from a loaded dump.
package extract

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aidanlsb/mtpoi/internal/model"
	"github.com/aidanlsb/mtpoi/internal/resolver"
	"github.com/aidanlsb/mtpoi/internal/source"
	"github.com/aidanlsb/mtpoi/internal/spatial"
	"github.com/aidanlsb/mtpoi/internal/store"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

// Skip records an entity left out of a lenient run.
type Skip struct {
	Category string
	Object   string
	Err      error
}

func (s Skip) String() string {
	return fmt.Sprintf("%s %s: %v", s.Category, s.Object, s.Err)
}

// Extractor builds records from the world file of one dump.
type Extractor struct {
	store    *store.Store
	resolver *resolver.Resolver
	world    *store.File
	opts     Options
	log      *zap.Logger

	areas []spatial.Area

	mu      sync.Mutex
	skipped []Skip
}

// New creates an Extractor over the already loaded world file.
func New(s *store.Store, world *store.File, opts Options) *Extractor {
	opts = opts.withDefaults()
	return &Extractor{
		store:    s,
		resolver: resolver.New(s),
		world:    world,
		opts:     opts,
		log:      opts.Logger,
	}
}

// Skipped returns the entities skipped so far.
func (e *Extractor) Skipped() []Skip {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Skip, len(e.skipped))
	copy(out, e.skipped)
	return out
}

// fail applies the strictness policy to an entity error: strict runs get
// the error back, lenient runs log it and get nil.
func (e *Extractor) fail(category, object string, err error) error {
	if e.opts.Strict {
		return err
	}
	e.log.Warn("skipping entity",
		zap.String("category", category),
		zap.String("object", object),
		zap.Error(err))
	e.mu.Lock()
	e.skipped = append(e.skipped, Skip{Category: category, Object: object, Err: err})
	e.mu.Unlock()
	return nil
}

// placement is where an actor sits and which areas contain it.
type placement struct {
	loc   *model.Vector3
	label string
	areas []string
}

// place follows an actor's root component to its scene component in file f
// and tags the location with areas.
func (e *Extractor) place(root uobject.ObjectPath, f *store.File) (placement, error) {
	scene, _, err := e.resolver.ResolveLocal(root, f)
	if err != nil {
		return placement{}, fmt.Errorf("root component: %w", err)
	}
	loc := source.Location(scene)
	if loc == nil {
		return placement{}, nil
	}
	in := spatial.Containing(spatial.Vec2{X: loc.X, Y: loc.Y}, e.areas)
	return placement{loc: loc, label: spatial.Label(in), areas: spatial.Names(in)}, nil
}

// Areas extracts the world's area volumes. It must run before any other
// category so that locations can be tagged.
func (e *Extractor) Areas() []model.AreaVolume {
	var out []model.AreaVolume
	e.areas = e.areas[:0]
	for i := range e.world.Objects {
		obj := &e.world.Objects[i]
		if obj.Type != e.opts.AreaVolumeType {
			continue
		}
		src := source.AreaVolume(obj)
		e.areas = append(e.areas, src.Area())
		vertex := make([]model.Vector2, len(src.Vertices))
		for j, v := range src.Vertices {
			vertex[j] = model.Vector2{X: v.X, Y: v.Y}
		}
		out = append(out, model.AreaVolume{Name: src.Name, Flag: src.Flag, Vertex: vertex})
	}
	e.log.Debug("area volumes extracted", zap.Int("count", len(out)))
	return out
}
