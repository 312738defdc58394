package journal

import (
	"context"

	"vision-kit/internal/domain/port"
)

// Open выбирает журнал: Postgres, если задан databaseURL, иначе файл JSON Lines.
// Пустой path без базы отключает журнал.
func Open(ctx context.Context, databaseURL, path string) (port.Journal, error) {
	switch {
	case databaseURL != "":
		return OpenPostgres(ctx, databaseURL)
	case path != "":
		return OpenFile(path)
	default:
		return Nop{}, nil
	}
}
