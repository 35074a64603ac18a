package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/akmonengine/impulse"
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/debugdraw"
	"github.com/akmonengine/impulse/logging"
	"github.com/go-gl/mathgl/mgl64"
)

// lineCounter stands in for a renderer and counts what it is asked to draw.
type lineCounter struct {
	lines, points int
}

func (c *lineCounter) DrawLine(from, to mgl64.Vec3, color mgl64.Vec4) { c.lines++ }

func (c *lineCounter) DrawPoint(position mgl64.Vec3, size float64, color mgl64.Vec4) {
	c.points++
}

// SetupScene drops a sphere and a small box stack on a ground plane.
func SetupScene(world *impulse.World, hulls *actor.HullRegistry) (sphere, top *actor.RigidBody) {
	ground := actor.NewRigidBody(actor.NewTransform(), actor.NewPlane(mgl64.Vec3{0, 1, 0}, 0), actor.BodyTypeStatic, 0)
	ground.Material.Friction = 0.6
	world.AddBody(ground)

	sphere = actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{-4, 10, 0}, Rotation: mgl64.QuatIdent()},
		actor.NewSphere(1), actor.BodyTypeDynamic, 1,
	)
	sphere.Material.Restitution = 0.5
	world.AddBody(sphere)

	for i := 0; i < 3; i++ {
		box := actor.NewRigidBodyFromDensity(
			actor.Transform{Position: mgl64.Vec3{3, 0.5 + float64(i)*1.05, 0}, Rotation: mgl64.QuatIdent()},
			actor.NewCuboid(hulls, mgl64.Vec3{0.5, 0.5, 0.5}), 1,
		)
		box.Material.Friction = 0.6
		world.AddBody(box)
		top = box
	}

	return sphere, top
}

func main() {
	configPath := flag.String("config", "", "YAML physics configuration")
	seconds := flag.Float64("seconds", 5, "simulated time")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	logger := logging.NewDefaultLogger("simpleScene", *debug)

	config := impulse.DefaultConfig()
	if *configPath != "" {
		var err error
		if config, err = impulse.LoadConfig(*configPath); err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
	}
	config.DebugFlags = debugdraw.All

	world, err := impulse.NewWorld(config, impulse.WithLogger(logger))
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	sphere, top := SetupScene(world, actor.NewHullRegistry())

	world.Events.Subscribe(impulse.EventCollisionEnter, func(event impulse.Event) {
		e := event.(impulse.CollisionEnterEvent)
		logger.Debugf("contact %s <-> %s", e.BodyA.ID, e.BodyB.ID)
	})
	world.Events.Subscribe(impulse.EventSleep, func(event impulse.Event) {
		logger.Infof("body %s is at rest at %v", event.(impulse.SleepEvent).Body.ID, event.(impulse.SleepEvent).Body.Position())
	})

	const frame = 1.0 / 60.0
	renderer := &lineCounter{}
	for t := 0.0; t < *seconds; t += frame {
		world.Update(frame)
		world.DebugDraw(renderer)
	}

	fmt.Printf("steps: %d, debug lines: %d, debug points: %d\n", world.StepCount(), renderer.lines, renderer.points)
	fmt.Printf("sphere: position %v, sleeping %v\n", sphere.Position(), sphere.IsSleeping)
	fmt.Printf("stack top: position %v, sleeping %v\n", top.Position(), top.IsSleeping)
}
