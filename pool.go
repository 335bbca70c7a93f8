package impactfx

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// PooledInstance is a reusable effect object. The pool owns its lifecycle;
// consumers only activate it and request release, immediate or deferred.
type PooledInstance struct {
	Id       uuid.UUID
	Prefab   PrefabId
	Position mgl32.Vec3
	Rotation mgl32.Quat

	active     bool
	generation uint64
	queue      *DeferredQueue
}

func (inst *PooledInstance) Active() bool {
	return inst.active
}

func (inst *PooledInstance) Activate(position mgl32.Vec3, rotation mgl32.Quat) {
	inst.generation++
	inst.Position = position
	inst.Rotation = rotation
	inst.active = true
}

// Deactivate is idempotent: releasing an instance that the pool already
// reclaimed (or that was never active) has no effect.
func (inst *PooledInstance) Deactivate() {
	inst.active = false
}

// DeactivateAfter schedules a release once d has elapsed. The action is
// generation-guarded: if the pool force-reclaims and re-activates this
// instance before the timer fires, the stale release is a no-op.
func (inst *PooledInstance) DeactivateAfter(d time.Duration) {
	generation := inst.generation
	inst.queue.ScheduleAfter(d, func() {
		if inst.generation == generation {
			inst.Deactivate()
		}
	})
}

type prefabBucket struct {
	capacity  int
	next      int
	instances []*PooledInstance
}

// PrefabPool hands out fixed-capacity instance sets per prefab. Acquisition
// prefers inactive instances, grows the bucket up to capacity, and as a last
// resort force-reclaims the bucket's instances round-robin, so a burst of
// impacts degrades to recycling the oldest effect rather than allocating.
type PrefabPool struct {
	queue   *DeferredQueue
	buckets map[PrefabId]*prefabBucket
}

func NewPrefabPool(queue *DeferredQueue) *PrefabPool {
	return &PrefabPool{
		queue:   queue,
		buckets: make(map[PrefabId]*prefabBucket),
	}
}

// Acquire returns an inactive instance of prefab, creating up to sizeHint
// instances before recycling. The returned instance is not yet active;
// callers follow up with Activate.
func (p *PrefabPool) Acquire(prefab PrefabId, sizeHint int) *PooledInstance {
	if sizeHint < 1 {
		sizeHint = 1
	}
	bucket, ok := p.buckets[prefab]
	if !ok {
		bucket = &prefabBucket{capacity: sizeHint}
		p.buckets[prefab] = bucket
	}
	if sizeHint > bucket.capacity {
		bucket.capacity = sizeHint
	}

	for _, inst := range bucket.instances {
		if !inst.active {
			return inst
		}
	}

	if len(bucket.instances) < bucket.capacity {
		inst := &PooledInstance{
			Id:     uuid.New(),
			Prefab: prefab,
			queue:  p.queue,
		}
		bucket.instances = append(bucket.instances, inst)
		return inst
	}

	// Bucket exhausted: reclaim round-robin.
	inst := bucket.instances[bucket.next]
	bucket.next = (bucket.next + 1) % len(bucket.instances)
	inst.Deactivate()
	return inst
}

// ActiveCount reports how many instances of prefab are currently active.
func (p *PrefabPool) ActiveCount(prefab PrefabId) int {
	bucket, ok := p.buckets[prefab]
	if !ok {
		return 0
	}
	count := 0
	for _, inst := range bucket.instances {
		if inst.active {
			count++
		}
	}
	return count
}

// Instances returns the live instance set for prefab, active or not.
func (p *PrefabPool) Instances(prefab PrefabId) []*PooledInstance {
	bucket, ok := p.buckets[prefab]
	if !ok {
		return nil
	}
	return bucket.instances
}
