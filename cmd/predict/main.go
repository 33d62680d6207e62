// Package main is the entry point for the ball trajectory predictor.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/ballsim/internal/config"
	"github.com/Faultbox/ballsim/internal/logger"
	"github.com/Faultbox/ballsim/pkg/ball"
	"github.com/Faultbox/ballsim/pkg/field"
	"github.com/Faultbox/ballsim/pkg/formats"
	"github.com/Faultbox/ballsim/pkg/mesh"
)

var (
	flagX  = flag.Float64("x", 0, "Initial ball X position")
	flagY  = flag.Float64("y", 0, "Initial ball Y position")
	flagZ  = flag.Float64("z", 1000, "Initial ball Z position")
	flagVX = flag.Float64("vx", 0, "Initial ball X velocity")
	flagVY = flag.Float64("vy", 0, "Initial ball Y velocity")
	flagVZ = flag.Float64("vz", 0, "Initial ball Z velocity")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Simulation.TickRate <= 0 {
		logger.Log.Error("tick rate must be positive",
			zap.Int("tick_rate", cfg.Simulation.TickRate))
		os.Exit(1)
	}

	mode, err := field.ParseMode(cfg.Arena.Mode)
	if err != nil {
		logger.Log.Error("bad arena mode", zap.Error(err))
		os.Exit(1)
	}

	arena, err := buildArena(mode, cfg.Arena.AssetDir)
	if err != nil {
		logger.Log.Error("failed to build arena", zap.Error(err))
		os.Exit(1)
	}
	logger.Sugar.Infow("arena ready",
		"mode", mode.String(),
		"triangles", arena.Collider.Size(),
		"ball_radius", arena.BallRadius)

	initial := ball.State{
		Location: mgl32.Vec3{float32(*flagX), float32(*flagY), float32(*flagZ)},
		Velocity: mgl32.Vec3{float32(*flagVX), float32(*flagVY), float32(*flagVZ)},
	}

	states, err := ball.PredictDuration(arena, initial,
		float32(cfg.Simulation.Horizon),
		ball.WithTimestep(1/float32(cfg.Simulation.TickRate)),
		ball.WithLogger(logger.Log))
	if err != nil {
		logger.Log.Error("prediction failed", zap.Error(err))
		os.Exit(1)
	}

	if err := writeCSV(os.Stdout, states); err != nil {
		logger.Log.Error("failed to write prediction", zap.Error(err))
		os.Exit(1)
	}

	last := initial
	if len(states) > 0 {
		last = states[len(states)-1]
	}
	if touch, ok := firstTouch(initial, states); ok {
		logger.Sugar.Infow("first surface contact",
			"time", touch.Time,
			"location", touch.Location)
	}
	logger.Sugar.Infow("prediction finished",
		"states", len(states),
		"final_time", last.Time,
		"final_location", last.Location)
}

// firstTouch scans for the first state whose velocity change exceeds what
// gravity and drag can produce in one tick, which marks a surface contact.
func firstTouch(initial ball.State, states []ball.State) (ball.State, bool) {
	const freeStepDelta = 50
	prev := initial.Velocity
	for _, st := range states {
		if st.Velocity.Sub(prev).Len() > freeStepDelta {
			return st, true
		}
		prev = st.Velocity
	}
	return ball.State{}, false
}

// buildArena assembles the arena for a mode, loading curved panel meshes
// from assetDir. An empty assetDir yields the flat arena shell only.
func buildArena(mode field.Mode, assetDir string) (*field.Arena, error) {
	load := func(name string) (*mesh.Mesh, error) {
		if assetDir == "" {
			return &mesh.Mesh{}, nil
		}
		return formats.ReadMesh(
			filepath.Join(assetDir, name+"_vertices.bin"),
			filepath.Join(assetDir, name+"_ids.bin"))
	}

	switch mode {
	case field.Standard:
		return buildStandard(load)
	case field.Hoops:
		return buildHoops(load)
	case field.Dropshot:
		platform, err := load("dropshot_platform")
		if err != nil {
			return nil, err
		}
		return field.BuildDropshot(platform)
	case field.Throwback:
		return buildThrowback(load)
	default:
		return nil, fmt.Errorf("no builder for mode %s", mode)
	}
}

func buildStandard(load func(string) (*mesh.Mesh, error)) (*field.Arena, error) {
	var panels [4]*mesh.Mesh
	for i, name := range []string{
		"standard_corner", "standard_goal", "standard_ramps_a", "standard_ramps_b",
	} {
		m, err := load(name)
		if err != nil {
			return nil, err
		}
		panels[i] = m
	}
	return field.BuildStandard(panels[0], panels[1], panels[2], panels[3])
}

func buildHoops(load func(string) (*mesh.Mesh, error)) (*field.Arena, error) {
	var panels [5]*mesh.Mesh
	for i, name := range []string{
		"hoops_corner", "hoops_net", "hoops_rim", "hoops_ramps_a", "hoops_ramps_b",
	} {
		m, err := load(name)
		if err != nil {
			return nil, err
		}
		panels[i] = m
	}
	return field.BuildHoops(panels[0], panels[1], panels[2], panels[3], panels[4])
}

func buildThrowback(load func(string) (*mesh.Mesh, error)) (*field.Arena, error) {
	var panels field.ThrowbackPanels
	for _, p := range []struct {
		name string
		dst  **mesh.Mesh
	}{
		{"throwback_back_ramps_lower", &panels.BackRampsLower},
		{"throwback_back_ramps_upper", &panels.BackRampsUpper},
		{"throwback_corner_ramps_lower", &panels.CornerRampsLower},
		{"throwback_corner_ramps_upper", &panels.CornerRampsUpper},
		{"throwback_corner_wall_a", &panels.CornerWallA},
		{"throwback_corner_wall_b", &panels.CornerWallB},
		{"throwback_corner_wall_c", &panels.CornerWallC},
		{"throwback_goal", &panels.Goal},
		{"throwback_side_ramps_lower", &panels.SideRampsLower},
		{"throwback_side_ramps_upper", &panels.SideRampsUpper},
	} {
		m, err := load(p.name)
		if err != nil {
			return nil, err
		}
		*p.dst = m
	}
	return field.BuildThrowback(panels)
}

// writeCSV streams the predicted states as CSV, one row per tick.
func writeCSV(f *os.File, states []ball.State) error {
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "time,x,y,z,vx,vy,vz,wx,wy,wz")
	for _, st := range states {
		fmt.Fprintf(w, "%.4f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.4f,%.4f,%.4f\n",
			st.Time,
			st.Location.X(), st.Location.Y(), st.Location.Z(),
			st.Velocity.X(), st.Velocity.Y(), st.Velocity.Z(),
			st.AngularVelocity.X(), st.AngularVelocity.Y(), st.AngularVelocity.Z())
	}
	return w.Flush()
}
