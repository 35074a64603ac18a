package impulse

import (
	"errors"
	"fmt"

	"github.com/akmonengine/impulse/actor"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrUnknownBody is returned when a snapshot names a body the world does not simulate.
var ErrUnknownBody = errors.New("unknown body")

// Snapshot is the kinematic state of every simulated body, keyed by body ID,
// plus the time left in the step accumulator.
type Snapshot struct {
	Step        uint64                             `yaml:"step"`
	Accumulator float64                            `yaml:"accumulator"`
	Bodies      map[uuid.UUID]actor.KinematicState `yaml:"bodies"`
}

func (w *World) Snapshot() Snapshot {
	snapshot := Snapshot{
		Step:        w.steps,
		Accumulator: w.accumulator,
		Bodies:      make(map[uuid.UUID]actor.KinematicState),
	}
	for _, body := range w.scene.ActiveBodies(nil) {
		snapshot.Bodies[body.ID] = body.CaptureState()
	}
	return snapshot
}

// RestoreSnapshot writes the snapshot back. Bodies missing from the snapshot
// keep their state; IDs the world does not know are reported and skipped.
func (w *World) RestoreSnapshot(snapshot Snapshot) error {
	bodies := w.scene.ActiveBodies(nil)
	restored := 0
	for _, body := range bodies {
		state, ok := snapshot.Bodies[body.ID]
		if !ok {
			continue
		}
		body.RestoreState(state)
		restored++
	}
	w.steps = snapshot.Step
	w.accumulator = snapshot.Accumulator

	if restored == len(snapshot.Bodies) {
		return nil
	}
	known := make(map[uuid.UUID]bool, len(bodies))
	for _, body := range bodies {
		known[body.ID] = true
	}
	var errs []error
	for id := range snapshot.Bodies {
		if !known[id] {
			errs = append(errs, fmt.Errorf("restore snapshot: %w %s", ErrUnknownBody, id))
		}
	}
	return errors.Join(errs...)
}

func MarshalSnapshot(snapshot Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}
