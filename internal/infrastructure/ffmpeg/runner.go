package ffmpeg

import (
	"context"
	"os/exec"
)

// Runner запускает внешнюю команду и возвращает её вывод.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// CombinedOutput Runner по умолчанию, отдаёт stdout и stderr вместе.
func CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// StdoutOutput отдаёт только stdout; нужен там, где вывод разбирается как JSON.
func StdoutOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
