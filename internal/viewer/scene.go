package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
	"github.com/Faultbox/objview/pkg/mesh"
)

// loadOptions converts a scene entry to model load options.
func loadOptions(mc config.ModelConfig, encoding string) model.LoadOptions {
	opts := model.DefaultLoadOptions()
	opts.Textured = !mc.Untextured
	opts.TextureOverride = mc.Texture
	opts.Encoding = encoding
	if mc.HasColor() {
		opts.Color = math.Vec4{X: mc.Color[0], Y: mc.Color[1], Z: mc.Color[2], W: mc.Color[3]}
	}
	return opts
}

// place moves a freshly loaded model to its configured position and sets
// its per-second animation.
func place(m *model.Model, mc config.ModelConfig) {
	p := mc.Position
	if p != [3]float32{} {
		m.Move(p[0], p[1], p[2])
	}
	v := mc.MovePerSecond
	m.MovementPerSecond = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	s := mc.ScaleRate()
	m.ScalingPerSecond = model.Size{X: s[0], Y: s[1], Z: s[2]}
	r := mc.RotatePerSecond
	m.RotationPerSecond = model.RotationAngles{X: r[0], Y: r[1], Z: r[2]}
}

// loadScene loads every configured model. On error the models loaded so
// far are closed.
func loadScene(cfg *config.Config, gpu model.GPU, textures model.TextureLoader) ([]*model.Model, error) {
	models := make([]*model.Model, 0, len(cfg.Scene.Models))
	for i, mc := range cfg.Scene.Models {
		m, err := model.Load(mc.Path, gpu, textures, loadOptions(mc, cfg.Data.Encoding))
		if err != nil {
			closeAll(models)
			return nil, fmt.Errorf("scene model %d: %w", i, err)
		}
		place(m, mc)
		models = append(models, m)

		logger.Info("model added",
			zap.String("name", m.Name),
			zap.Int("units", len(m.Units())),
			zap.Int("vertices", m.VertexCount()),
			zap.Int("triangles", m.TriangleCount()),
			zap.Stringer("mode", m.DrawMode()),
		)
	}
	return models, nil
}

// sceneBounds returns the union of every model's bounds.
func sceneBounds(models []*model.Model) (mesh.Bounds, bool) {
	var b mesh.Bounds
	for i, m := range models {
		mb := m.Bounds()
		if i == 0 {
			b = mb
			continue
		}
		b.Min = math.Vec3{X: min(b.Min.X, mb.Min.X), Y: min(b.Min.Y, mb.Min.Y), Z: min(b.Min.Z, mb.Min.Z)}
		b.Max = math.Vec3{X: max(b.Max.X, mb.Max.X), Y: max(b.Max.Y, mb.Max.Y), Z: max(b.Max.Z, mb.Max.Z)}
	}
	return b, len(models) > 0
}

func closeAll(models []*model.Model) {
	for _, m := range models {
		m.Close()
	}
}
