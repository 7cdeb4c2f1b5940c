package viz

import (
	"context"
	"os/exec"
	"runtime"

	"headline-sentiment/internal/logger"
)

// Viewer displays a rendered chart.
type Viewer interface {
	Show(ctx context.Context, path string) error
}

// SystemViewer opens charts with the operating system's default image viewer.
type SystemViewer struct{}

func (SystemViewer) Show(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	logger.Debug(ctx, "Opening chart", "path", path, "command", cmd.Path)
	return cmd.Start()
}

// NopViewer discards charts; used for headless runs.
type NopViewer struct{}

func (NopViewer) Show(ctx context.Context, path string) error {
	logger.Debug(ctx, "Chart display skipped", "path", path)
	return nil
}
