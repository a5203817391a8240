package app

import (
	"log/slog"
	"time"

	"github.com/vk/flowgridgo/internal/workflow"
)

const timePrecision = time.Millisecond

// logEmitter forwards scheduler lifecycle events to the application logger.
type logEmitter struct {
	logger *slog.Logger
}

func (e *logEmitter) StepStarted(name string) {
	e.logger.Info("▶️  Step started.", "step", name)
}

func (e *logEmitter) StepFinished(res *workflow.Result) {
	if res.Failed() {
		e.logger.Error("❌ Step failed.", "step", res.Name,
			"duration", res.Duration().Round(timePrecision), "error", res.Err)
		return
	}
	e.logger.Info("✅ Step finished.", "step", res.Name,
		"duration", res.Duration().Round(timePrecision))
}

func (e *logEmitter) GroupStarted(name string, members int) {
	e.logger.Info("🔀 Parallel group started.", "group", name, "members", members)
}

func (e *logEmitter) GroupFinished(name string, elapsed time.Duration, failed int) {
	if failed > 0 {
		e.logger.Warn("🔀 Parallel group finished with failures.", "group", name,
			"duration", elapsed.Round(timePrecision), "failures", failed)
		return
	}
	e.logger.Info("🔀 Parallel group finished.", "group", name,
		"duration", elapsed.Round(timePrecision))
}
