// File: cmd/plan_test.go
package cmd

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/glide/internal/browser/humanoid"
)

func decodePlan(t *testing.T, out string) planOutput {
	t.Helper()
	var p planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &p), "output: %s", out)
	return p
}

func TestPlanCmd_Linear(t *testing.T) {
	resetForTest(t)

	out, err := runCommand(t, "plan", "--from", "0,0", "--to", "100,50", "--pattern", "linear",
		"--steps", "4", "--duration", "400ms", "--seed", "1")
	require.NoError(t, err)

	p := decodePlan(t, out)
	assert.Equal(t, "linear", p.Pattern)
	assert.Equal(t, int64(1), p.Seed)
	assert.Equal(t, 400.0, p.DurationMs)
	want := []humanoid.Point{{X: 0, Y: 0}, {X: 25, Y: 13}, {X: 50, Y: 25}, {X: 75, Y: 38}, {X: 100, Y: 50}}
	if diff := cmp.Diff(want, p.Points); diff != "" {
		t.Errorf("linear points mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, p.DelaysMs, 4)
	sum := 0.0
	for _, d := range p.DelaysMs {
		assert.Positive(t, d)
		sum += d
	}
	assert.InDelta(t, p.TotalMs, sum, 0.01)
}

func TestPlanCmd_SeedIsReproducible(t *testing.T) {
	resetForTest(t)
	args := []string{"plan", "--from", "10,10", "--to", "600,400", "--pattern", "human", "--seed", "42"}

	first, err := runCommand(t, args...)
	require.NoError(t, err)
	second, err := runCommand(t, args...)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	p := decodePlan(t, first)
	assert.Equal(t, humanoid.Point{X: 10, Y: 10}, p.Points[0])
	assert.Equal(t, humanoid.Point{X: 600, Y: 400}, p.Points[len(p.Points)-1])
	assert.Len(t, p.Points, humanoid.DefaultSteps+1)
}

func TestPlanCmd_ConfigSources(t *testing.T) {
	t.Run("Environment", func(t *testing.T) {
		resetForTest(t)
		t.Setenv("GLIDE_BROWSER_HUMANOID_PATTERN", "bezier")

		out, err := runCommand(t, "plan", "--to", "300,300", "--seed", "3")
		require.NoError(t, err)
		assert.Equal(t, "bezier", decodePlan(t, out).Pattern)
	})

	t.Run("ConfigFile", func(t *testing.T) {
		resetForTest(t)
		// resetForTest moved into an empty directory, which is searched first.
		require.NoError(t, os.WriteFile("config.yaml", []byte("browser:\n  humanoid:\n    steps: 7\n"), 0o600))

		out, err := runCommand(t, "plan", "--to", "300,300", "--seed", "3")
		require.NoError(t, err)
		assert.Len(t, decodePlan(t, out).Points, 8)
	})

	t.Run("FlagBeatsEnvironment", func(t *testing.T) {
		resetForTest(t)
		t.Setenv("GLIDE_BROWSER_HUMANOID_PATTERN", "bezier")

		out, err := runCommand(t, "plan", "--to", "300,300", "--pattern", "LINEAR")
		require.NoError(t, err)
		assert.Equal(t, "linear", decodePlan(t, out).Pattern)
	})
}

func TestPlanCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"MissingTarget", []string{"plan"}, `required flag(s) "to" not set`},
		{"BadPoint", []string{"plan", "--to", "12"}, "invalid --to"},
		{"BadCoordinate", []string{"plan", "--from", "a,1", "--to", "1,1"}, "invalid --from"},
		{"UnknownPattern", []string{"plan", "--to", "1,1", "--pattern", "zigzag"}, "unknown pattern"},
		{"SpeedVariationRange", []string{"plan", "--to", "1,1", "--speed-variation", "1.5"}, "speed_variation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetForTest(t)
			_, err := runCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint(" 12, -4 ")
	require.NoError(t, err)
	assert.Equal(t, humanoid.Point{X: 12, Y: -4}, p)

	_, err = parsePoint("1.5,2")
	assert.Error(t, err)
}
