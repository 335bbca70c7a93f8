package impactfx

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

type EntityId uint64

// TransformComponent places an entity in world space. For terrains the
// position doubles as the footprint origin used by surface resolution.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Scene is a flat entity/component store. Impact targets (terrains, mesh
// renderables) are entities; components are registered as pointers and
// looked up by their concrete type.
type Scene struct {
	idGeneratorLock sync.Mutex
	entityIdCounter EntityId

	entities map[EntityId]map[reflect.Type]any
	byType   map[reflect.Type]map[EntityId]any
}

func NewScene() *Scene {
	return &Scene{
		entities: make(map[EntityId]map[reflect.Type]any),
		byType:   make(map[reflect.Type]map[EntityId]any),
	}
}

func (s *Scene) nextEntityId() EntityId {
	s.idGeneratorLock.Lock()
	defer s.idGeneratorLock.Unlock()
	s.entityIdCounter++
	return s.entityIdCounter
}

func (s *Scene) insertEntity(eid EntityId, components ...any) {
	if _, ok := s.entities[eid]; !ok {
		s.entities[eid] = make(map[reflect.Type]any)
	}
	s.addComponents(eid, components...)
}

func (s *Scene) addComponents(eid EntityId, components ...any) {
	comps, ok := s.entities[eid]
	if !ok {
		comps = make(map[reflect.Type]any)
		s.entities[eid] = comps
	}
	for _, component := range components {
		t := reflect.TypeOf(component)
		if t.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("components must be added as pointers, got %s", t))
		}
		elem := t.Elem()
		comps[elem] = component
		if _, ok := s.byType[elem]; !ok {
			s.byType[elem] = make(map[EntityId]any)
		}
		s.byType[elem][eid] = component
	}
}

func (s *Scene) removeEntity(eid EntityId) {
	comps, ok := s.entities[eid]
	if !ok {
		return
	}
	for t := range comps {
		delete(s.byType[t], eid)
	}
	delete(s.entities, eid)
}

func (s *Scene) component(eid EntityId, t reflect.Type) (any, bool) {
	comps, ok := s.entities[eid]
	if !ok {
		return nil, false
	}
	c, ok := comps[t]
	return c, ok
}

// GetComponent fetches entity eid's component of type A, if present.
func GetComponent[A any](cmd *Commands, eid EntityId) (*A, bool) {
	t := reflect.TypeOf((*A)(nil)).Elem()
	c, ok := cmd.app.scene.component(eid, t)
	if !ok {
		return nil, false
	}
	return c.(*A), true
}

type Query1[A any] struct{ scene *Scene }
type Query2[A, B any] struct{ scene *Scene }

func MakeQuery1[A any](cmd *Commands) Query1[A]       { return Query1[A]{scene: cmd.app.scene} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] { return Query2[A, B]{scene: cmd.app.scene} }

// Map visits every entity carrying A. Returning false stops iteration.
func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	t := reflect.TypeOf((*A)(nil)).Elem()
	for eid, c := range q.scene.byType[t] {
		if !m(eid, c.(*A)) {
			return
		}
	}
}

// Map visits every entity carrying both A and B. Returning false stops
// iteration.
func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	ta := reflect.TypeOf((*A)(nil)).Elem()
	tb := reflect.TypeOf((*B)(nil)).Elem()
	for eid, ca := range q.scene.byType[ta] {
		cb, ok := q.scene.component(eid, tb)
		if !ok {
			continue
		}
		if !m(eid, ca.(*A), cb.(*B)) {
			return
		}
	}
}
