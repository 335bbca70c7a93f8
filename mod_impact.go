package impactfx

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// ImpactEvent reports a collision supplied by the host's physics/query
// layer. Triangle is only meaningful for mesh targets; terrain resolution
// ignores it.
type ImpactEvent struct {
	Target   EntityId
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Kind     ImpactKind
	Triangle int
}

// ImpactEvents buffers hits reported between ticks; impactSystem drains it
// in the Update stage. Hosts that prefer synchronous handling call
// ImpactDispatcher.HandleImpact directly instead.
type ImpactEvents struct {
	pending []ImpactEvent
}

func (q *ImpactEvents) Push(ev ImpactEvent) {
	q.pending = append(q.pending, ev)
}

func (q *ImpactEvents) drain() []ImpactEvent {
	events := q.pending
	q.pending = nil
	return events
}

// ImpactDispatcher resolves a hit to its contributing surface textures and
// plays the matching effect bundles. It holds no per-call state beyond the
// registry and player references.
type ImpactDispatcher struct {
	registry *MaterialRegistry
	player   *EffectPlayer
	log      Logger
}

func NewImpactDispatcher(registry *MaterialRegistry, player *EffectPlayer, log Logger) *ImpactDispatcher {
	if log == nil {
		log = NewNopLogger()
	}
	return &ImpactDispatcher{
		registry: registry,
		player:   player,
		log:      log,
	}
}

// HandleImpact runs the full pipeline for one hit, synchronously: classify
// the target, resolve contributing textures, resolve each texture's material
// profile, and play the bundle registered for the impact kind. Every failure
// mode is local; an unresolvable surface degrades to the fallback material.
func (d *ImpactDispatcher) HandleImpact(cmd *Commands, ev ImpactEvent) {
	if terrain, ok := GetComponent[TerrainComponent](cmd, ev.Target); ok {
		origin := mgl32.Vec3{}
		if tr, ok := GetComponent[TransformComponent](cmd, ev.Target); ok {
			origin = tr.Position
		}
		contributions := terrain.ContributingAt(ev.Point, origin)
		if len(contributions) == 0 {
			// Nothing painted at this cell.
			d.playProfile(d.registry.Fallback(), ev, 1.0)
			return
		}
		for _, c := range contributions {
			d.playContribution(c, ev)
		}
		return
	}

	if mesh, ok := GetComponent[MeshRendererComponent](cmd, ev.Target); ok {
		contributions, err := mesh.ContributingFor(ev.Triangle)
		if err != nil {
			// Upstream configuration mistake; recoverable.
			d.log.Errorf("impact on entity %d: %v, substituting fallback material", ev.Target, err)
			d.playProfile(d.registry.Fallback(), ev, 1.0)
			return
		}
		for _, c := range contributions {
			d.playContribution(c, ev)
		}
		return
	}

	d.log.Warnf("impact target %d is neither terrain nor mesh renderable, ignoring", ev.Target)
}

func (d *ImpactDispatcher) playContribution(c ContributingTexture, ev ImpactEvent) {
	profile, ok := d.registry.Resolve(c.Texture)
	if !ok {
		profile = d.registry.Fallback()
	}
	d.playProfile(profile, ev, c.Weight)
}

func (d *ImpactDispatcher) playProfile(profile *MaterialProfile, ev ImpactEvent, weight float32) {
	bundle, ok := profile.BundleFor(ev.Kind)
	if !ok {
		// Common and intentional, e.g. surfaces without footstep sounds.
		return
	}
	d.player.PlayBundle(bundle, ev.Point, ev.Normal, weight)
}

func impactSystem(cmd *Commands, events *ImpactEvents, dispatcher *ImpactDispatcher) {
	for _, ev := range events.drain() {
		dispatcher.HandleImpact(cmd, ev)
	}
}

func deferredSystem(queue *DeferredQueue, timeResource *Time) {
	queue.Tick(timeResource.Now)
}

// SurfaceEffectsModule wires the effect-dispatch half of the pipeline: pool,
// deferred release queue, effect player, dispatcher, and the event queue.
// Requires MaterialModule to be installed first.
//
// Rand takes precedence over Seed, so hosts can inject any source they like,
// seed 0 included. With both unset the module seeds from the clock.
type SurfaceEffectsModule struct {
	Backend AudioBackend
	Clips   *ClipLibrary
	Rand    *rand.Rand
	Seed    int64
}

func (m SurfaceEffectsModule) Install(app *App, cmd *Commands) {
	registry, ok := GetResource[MaterialRegistry](app)
	if !ok {
		panic("SurfaceEffectsModule requires MaterialModule to be installed first")
	}
	if _, ok := GetResource[Time](app); !ok {
		panic("SurfaceEffectsModule requires TimeModule to be installed first")
	}

	backend := m.Backend
	if backend == nil {
		backend = NopBackend{}
	}
	clips := m.Clips
	if clips == nil {
		clips = NewClipLibrary()
	}
	rng := m.Rand
	if rng == nil {
		seed := m.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	queue := NewDeferredQueue(time.Now())
	pool := NewPrefabPool(queue)
	player := NewEffectPlayer(pool, clips, backend, rng, app.Logger())
	dispatcher := NewImpactDispatcher(registry, player, app.Logger())

	cmd.AddResources(queue, pool, player, dispatcher, &ImpactEvents{})

	app.UseSystem(System(impactSystem).InStage(Update))
	app.UseSystem(System(deferredSystem).InStage(PostUpdate))
}
