package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/portotpc/mantemos/internal/model"
	"github.com/portotpc/mantemos/internal/workflow"
)

// scenario is a YAML-defined issuance conformance scenario: a roster, a wall
// clock, a sequence of login+submit steps and the expected final ledger.
type scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Clock       string         `yaml:"clock"` // "HH:mm"
	Technicians []scenarioTech `yaml:"technicians"`
	Steps       []scenarioStep `yaml:"steps"`
	FinalOrders []string       `yaml:"final_order_ids"`
}

type scenarioTech struct {
	Name       string `yaml:"name"`
	RE         string `yaml:"re"`
	Login      string `yaml:"login"`
	Password   string `yaml:"password"`
	ShiftStart string `yaml:"shiftStart"`
	ShiftEnd   string `yaml:"shiftEnd"`
}

type scenarioStep struct {
	Login    string            `yaml:"login"`
	Password string            `yaml:"password"`
	Inputs   map[string]string `yaml:"inputs"`
	// Expect is one of: ok, shift_closed, invalid_credentials.
	Expect string `yaml:"expect"`
}

func loadScenario(t *testing.T, path string) scenario {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var sc scenario
	require.NoError(t, yaml.Unmarshal(data, &sc))
	require.NotEmpty(t, sc.Name, "scenario %s needs a name", path)
	return sc
}

func scenarioClock(t *testing.T, hhmm string) func() time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", hhmm)
	require.NoError(t, err)
	return func() time.Time {
		return time.Date(2024, 3, 15, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	}
}

func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		sc := loadScenario(t, path)
		t.Run(sc.Name, func(t *testing.T) {
			a, _ := newTestApp(t, WithClock(scenarioClock(t, sc.Clock)))
			require.NoError(t, a.Start(context.Background()))

			for _, st := range sc.Technicians {
				a.Identity.Add(model.Technician{
					Name:               st.Name,
					RegistrationNumber: st.RE,
					Login:              st.Login,
					Password:           st.Password,
					ShiftStart:         st.ShiftStart,
					ShiftEnd:           st.ShiftEnd,
				})
			}

			for i, step := range sc.Steps {
				tech, found := a.Identity.FindByCredentials(step.Login, step.Password)
				if !found {
					assert.Equal(t, "invalid_credentials", step.Expect,
						"step %d: unexpected credential rejection", i)
					continue
				}
				require.NotEqual(t, "invalid_credentials", step.Expect,
					"step %d: credentials unexpectedly accepted", i)

				_, err := a.Issuance.Submit(tech, step.Inputs)
				switch step.Expect {
				case "ok":
					assert.NoError(t, err, "step %d", i)
				case "shift_closed":
					assert.True(t, workflow.IsShiftClosed(err), "step %d: want shift rejection, got %v", i, err)
				default:
					t.Fatalf("step %d: unknown expectation %q", i, step.Expect)
				}
			}

			orders := a.Ledger.ListAll()
			ids := make([]string, len(orders))
			for i, o := range orders {
				ids[i] = o.ID
			}
			expected := sc.FinalOrders
			if expected == nil {
				expected = []string{}
			}
			assert.Equal(t, expected, ids, "final ledger (newest first)")
		})
	}
}
