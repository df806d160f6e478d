package main

import (
	"math/rand"

	"github.com/plus3/keystone/ecs"
)

const (
	mortalArchetype   = "mortal"
	immortalArchetype = "immortal"
)

type MovementSystem struct {
	ecs.BaseSystem
}

func NewMovementSystem() *MovementSystem {
	s := &MovementSystem{}
	ecs.Require[*Position](&s.BaseSystem)
	ecs.Require[*Velocity](&s.BaseSystem)
	return s
}

func (s *MovementSystem) Update(em *ecs.EntityManager, dt float64) {
	s.ForEachEntity(em, func(e *ecs.Entity) {
		pos, _ := ecs.Get[*Position](e)
		vel, _ := ecs.Get[*Velocity](e)
		pos.X += vel.DX * dt
		pos.Y += vel.DY * dt
	})
}

// LifetimeSystem registers entities for destruction once their lifetime runs
// out.
type LifetimeSystem struct {
	ecs.BaseSystem
}

func NewLifetimeSystem() *LifetimeSystem {
	s := &LifetimeSystem{}
	ecs.Require[*Lifetime](&s.BaseSystem)
	return s
}

func (s *LifetimeSystem) Update(em *ecs.EntityManager, dt float64) {
	s.ForEachEntity(em, func(e *ecs.Entity) {
		lifetime, _ := ecs.Get[*Lifetime](e)
		lifetime.Frames--
		if lifetime.Frames <= 0 {
			em.DestroyEntityRegister(e)
		}
	})
}

// HealthSystem drains health and toggles velocity on entities at zero health,
// so membership of MovementSystem changes during the run.
type HealthSystem struct {
	ecs.BaseSystem
}

func NewHealthSystem() *HealthSystem {
	s := &HealthSystem{}
	ecs.Require[*Health](&s.BaseSystem)
	return s
}

func (s *HealthSystem) Update(em *ecs.EntityManager, dt float64) {
	s.ForEachEntity(em, func(e *ecs.Entity) {
		health, _ := ecs.Get[*Health](e)
		health.Current--
		if health.Current > 0 {
			return
		}
		health.Current = health.Max
		if !ecs.Remove[*Velocity](e) {
			e.AddComponent(&Velocity{DX: 1, DY: 1})
		}
	})
}

// RespawnSystem replaces every destroyed mortal entity with a fresh one from
// the template, keeping the population stable.
type RespawnSystem struct {
	ecs.BaseSystem
	templates   *ecs.Archetypes
	rng         *rand.Rand
	maxLifetime int
	em          *ecs.EntityManager
}

func NewRespawnSystem(templates *ecs.Archetypes, rng *rand.Rand, maxLifetime int) *RespawnSystem {
	return &RespawnSystem{templates: templates, rng: rng, maxLifetime: maxLifetime}
}

func (s *RespawnSystem) Init(w *ecs.World) error {
	s.em = w.EntityManager()
	return nil
}

func (s *RespawnSystem) Update(em *ecs.EntityManager, dt float64) {}

func (s *RespawnSystem) OnEntityDeleted(e *ecs.Entity) {
	if e.Archetype() != mortalArchetype {
		return
	}
	s.em.Commands().Defer(func() {
		entity, err := s.templates.Instantiate(s.em, mortalArchetype)
		if err != nil {
			panic(err)
		}
		lifetime, _ := ecs.Get[*Lifetime](entity)
		lifetime.Frames = 1 + s.rng.Intn(s.maxLifetime)
	})
}

// Counters tallies the structural changes broadcast by a World.
type Counters struct {
	ecs.BaseSystem
	Created           int64
	Deleted           int64
	ComponentsAdded   int64
	ComponentsRemoved int64
}

func (c *Counters) Update(em *ecs.EntityManager, dt float64) {}

func (c *Counters) OnEntityCreated(*ecs.Entity)                         { c.Created++ }
func (c *Counters) OnEntityDeleted(*ecs.Entity)                         { c.Deleted++ }
func (c *Counters) OnEntityNewComponent(*ecs.Entity, ecs.Component)     { c.ComponentsAdded++ }
func (c *Counters) OnEntityRemovedComponent(*ecs.Entity, ecs.Component) { c.ComponentsRemoved++ }

// defineTemplates registers the two entity templates used by a stress world.
func defineTemplates() *ecs.Archetypes {
	templates := ecs.NewArchetypes()
	templates.Define(mortalArchetype, "mortal",
		&Position{},
		&Velocity{DX: 1, DY: 0.5},
		&Lifetime{Frames: 1},
		&Health{Current: 30, Max: 30},
	)
	templates.Define(immortalArchetype, "immortal",
		&Position{},
		&Velocity{DX: -0.5, DY: 1},
		&Health{Current: 60, Max: 60},
	)
	return templates
}

// populate fills em with cfg.Entities entities, a ChurnRate share of them
// mortal.
func populate(em *ecs.EntityManager, templates *ecs.Archetypes, rng *rand.Rand, cfg Config) error {
	for i := 0; i < cfg.Entities; i++ {
		if rng.Float64() >= cfg.ChurnRate {
			if _, err := templates.Instantiate(em, immortalArchetype); err != nil {
				return err
			}
			continue
		}

		entity, err := templates.Instantiate(em, mortalArchetype)
		if err != nil {
			return err
		}
		lifetime, _ := ecs.Get[*Lifetime](entity)
		lifetime.Frames = 1 + rng.Intn(cfg.MaxLifetime)
	}
	return nil
}
