package impactfx

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPrefabPool_ReusesInactiveInstances(t *testing.T) {
	q := NewDeferredQueue(time.Now())
	pool := NewPrefabPool(q)

	first := pool.Acquire("fx", 4)
	first.Activate(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent())
	first.Deactivate()

	second := pool.Acquire("fx", 4)
	if second != first {
		t.Errorf("expected the deactivated instance to be reused")
	}
}

func TestPrefabPool_GrowsToCapacityThenReclaims(t *testing.T) {
	q := NewDeferredQueue(time.Now())
	pool := NewPrefabPool(q)

	a := pool.Acquire("fx", 2)
	a.Activate(mgl32.Vec3{}, mgl32.QuatIdent())
	b := pool.Acquire("fx", 2)
	b.Activate(mgl32.Vec3{}, mgl32.QuatIdent())

	if a == b {
		t.Fatalf("two live acquisitions must not alias")
	}
	if pool.ActiveCount("fx") != 2 {
		t.Fatalf("expected 2 active instances, got %d", pool.ActiveCount("fx"))
	}

	// Bucket is at capacity; the next acquire force-reclaims.
	c := pool.Acquire("fx", 2)
	if c != a && c != b {
		t.Errorf("exhausted pool must recycle an existing instance")
	}
	if c.Active() {
		t.Errorf("a reclaimed instance is handed out deactivated")
	}
}

func TestPooledInstance_DeactivateIsIdempotent(t *testing.T) {
	q := NewDeferredQueue(time.Now())
	pool := NewPrefabPool(q)

	inst := pool.Acquire("emitter", 1)
	inst.Activate(mgl32.Vec3{}, mgl32.QuatIdent())
	inst.DeactivateAfter(50 * time.Millisecond)

	// External reclaim races the scheduled release.
	inst.Deactivate()
	inst.Deactivate()

	q.Tick(time.Now().Add(time.Second))
	if inst.Active() {
		t.Errorf("instance should remain inactive")
	}
}

func TestPooledInstance_StaleDeferredReleaseIsNoop(t *testing.T) {
	start := time.Now()
	q := NewDeferredQueue(start)
	pool := NewPrefabPool(q)

	inst := pool.Acquire("emitter", 1)
	inst.Activate(mgl32.Vec3{}, mgl32.QuatIdent())
	inst.DeactivateAfter(100 * time.Millisecond)

	// Pool reclaims and reassigns the instance before the timer fires.
	inst.Deactivate()
	reused := pool.Acquire("emitter", 1)
	reused.Activate(mgl32.Vec3{9, 9, 9}, mgl32.QuatIdent())

	q.Tick(start.Add(time.Second))

	if !reused.Active() {
		t.Errorf("the stale scheduled release must not deactivate the reassigned instance")
	}
}

func TestPrefabPool_SeparateBucketsPerPrefab(t *testing.T) {
	q := NewDeferredQueue(time.Now())
	pool := NewPrefabPool(q)

	sparks := pool.Acquire("fx_sparks", 1)
	sparks.Activate(mgl32.Vec3{}, mgl32.QuatIdent())
	dust := pool.Acquire("fx_dust", 1)
	dust.Activate(mgl32.Vec3{}, mgl32.QuatIdent())

	if sparks == dust {
		t.Errorf("prefabs must not share instances")
	}
	if sparks.Id == dust.Id {
		t.Errorf("instance ids must be unique")
	}
	if pool.ActiveCount("fx_sparks") != 1 || pool.ActiveCount("fx_dust") != 1 {
		t.Errorf("per-prefab counts wrong: %d / %d", pool.ActiveCount("fx_sparks"), pool.ActiveCount("fx_dust"))
	}
}
