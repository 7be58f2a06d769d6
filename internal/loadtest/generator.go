package loadtest

import (
	"fmt"
	"math/rand"

	"github.com/okian/runform/internal/domain/model"
	"github.com/okian/runform/internal/domain/model/modeltest"
)

// GeneratedRun is one generated input and whether the server should reject it.
type GeneratedRun struct {
	ID      string                     `json:"id"`
	Input   model.RunBiomechanicsInput `json:"input"`
	Invalid bool                       `json:"invalid"`
}

// invalidField is the field broken in invalid runs.
const invalidField = "left_leg.knee_angle.std"

// generateRuns builds cfg.Runs inputs from a seeded source so a failing run
// can be replayed.
func generateRuns(cfg *Config) []GeneratedRun {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible test data
	runs := make([]GeneratedRun, cfg.Runs)
	for i := range runs {
		runs[i] = GeneratedRun{
			ID:    fmt.Sprintf("run-%05d", i+1),
			Input: modeltest.Random(rng),
		}
		if cfg.InvalidEvery > 0 && (i+1)%cfg.InvalidEvery == 0 {
			runs[i].Input.LeftLeg.KneeAngle.Std = -1
			runs[i].Invalid = true
		}
	}
	return runs
}
