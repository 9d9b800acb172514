package main

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/ip2k/internal/config"
	"github.com/taigrr/ip2k/internal/display"
	"github.com/taigrr/ip2k/pkg/math3d"
	"github.com/taigrr/ip2k/pkg/models"
	"github.com/taigrr/ip2k/pkg/render"
	"github.com/taigrr/ip2k/pkg/scene"
)

// yUp turns a +Y-up model so its up points along -Z, screen up for a
// camera looking along +X.
var yUp = math3d.V3(-math.Pi/2, 0, math.Pi/2)

// buildScene loads every configured model, adds the camera and finalizes
// the environment.
func buildScene(cfg *config.Config, log *zap.Logger, width, height int) (*scene.Environment, error) {
	strategy, err := render.ParseStrategy(cfg.Render.Strategy)
	if err != nil {
		return nil, err
	}
	background, err := config.ParseColor(cfg.Display.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	wire, err := config.ParseColor(cfg.Render.WireColor)
	if err != nil {
		return nil, fmt.Errorf("wire color: %w", err)
	}

	env := scene.NewEnvironment()
	env.Strategy = strategy
	env.Lighting = cfg.Render.Lighting
	env.Cull = cfg.Render.Cull
	env.Wireframe = cfg.Render.Wireframe
	env.WireColor = wire
	env.Background = background
	env.Log = log.Named("scene")

	modelLog := log.Named("models")
	for _, mc := range cfg.Models {
		m, err := models.Load(mc.Path, models.OBJOptions{Triangulate: mc.Triangulate, Logger: modelLog})
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		if mc.Fit > 0 {
			m.Fit(mc.Fit)
		}

		node := scene.NewModelNode(m)
		node.Transform = math3d.Transform{
			Position: config.Vec(mc.Position),
			Rotation: config.Vec(mc.Rotation),
			Scale:    config.Vec(mc.Scale),
		}
		if mc.YUp {
			node.Transform.Rotation = node.Transform.Rotation.Add(yUp)
		}
		if err := env.Add(node); err != nil {
			return nil, err
		}

		log.Info("model loaded",
			zap.String("path", mc.Path),
			zap.Int("vertices", m.VertexCount()),
			zap.Int("triangles", m.TriangleCount()),
			zap.Int("groups", len(m.Groups)))
	}

	cam := scene.NewCameraNode("main", render.NewCamera(cfg.Camera.Distance, cfg.Camera.PlaneWidth, width, height))
	cam.Transform.Position = config.Vec(cfg.Camera.Position)
	cam.Transform.Rotation = config.Vec(cfg.Camera.Rotation)
	if err := env.Add(cam); err != nil {
		return nil, err
	}

	if err := env.Finalize(); err != nil {
		return nil, err
	}
	return env, nil
}

// viewer drives the environment from display ticks.
type viewer struct {
	env     *scene.Environment
	log     *zap.Logger
	shotDir string
	now     func() time.Time
}

func newViewer(env *scene.Environment, log *zap.Logger) *viewer {
	return &viewer{env: env, log: log, shotDir: ".", now: time.Now}
}

// frame applies one tick of input and renders the scene at the tick size.
func (v *viewer) frame(t display.Tick) (*render.RenderBuffer, error) {
	in := t.Input
	if in.Wireframe {
		v.env.Wireframe = !v.env.Wireframe
	}
	if in.Strategy {
		v.env.Strategy = nextStrategy(v.env.Strategy)
		v.log.Debug("strategy changed", zap.Stringer("strategy", v.env.Strategy))
	}
	v.env.ApplyInput(in.Input, t.DT)

	v.env.ActiveCamera().Camera.Resize(t.Width, t.Height)
	buf, err := v.env.RenderFrame()
	if err != nil {
		return nil, err
	}

	if in.Screenshot {
		path := filepath.Join(v.shotDir, "ip2k-"+v.now().Format("20060102-150405")+".png")
		if err := buf.Save(path); err != nil {
			v.log.Warn("screenshot failed", zap.String("path", path), zap.Error(err))
		} else {
			v.log.Info("screenshot saved", zap.String("path", path))
		}
	}
	return buf, nil
}

func (v *viewer) status(fps float64) string {
	return display.StatusText(fps, v.env.Stats(), v.env.Strategy)
}

func nextStrategy(s render.Strategy) render.Strategy {
	if s == render.StrategyPerspective {
		return render.StrategyAffine
	}
	return render.StrategyPerspective
}
