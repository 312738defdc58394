package entity

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// ArtifactKind тип файла-результата; у каждого типа свой каталог.
type ArtifactKind string

const (
	KindGeneratedImage ArtifactKind = "generated_image"
	KindMarkdown       ArtifactKind = "markdown"
	KindCSV            ArtifactKind = "csv"
	KindVideo          ArtifactKind = "video"
)

const (
	maxStemLength   = 30
	timestampLayout = "20060102_150405"
)

// SanitizeStem заменяет всё, кроме букв и цифр, на '_' и обрезает до 30 символов.
func SanitizeStem(text string) string {
	var b strings.Builder
	n := 0
	for _, r := range text {
		if n == maxStemLength {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		n++
	}
	return b.String()
}

// FileStem возвращает имя файла без каталога и расширения.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ArtifactName собирает имя вида <stem>_<YYYYMMDD_HHMMSS>.<ext>.
func ArtifactName(stem, ext string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", stem, at.Format(timestampLayout), strings.TrimPrefix(ext, "."))
}

// ArtifactRecord запись журнала о сохранённом артефакте.
type ArtifactRecord struct {
	ID        uuid.UUID    `json:"id"`
	Kind      ArtifactKind `json:"kind"`
	Source    string       `json:"source"` // промпт или путь к исходному файлу
	Path      string       `json:"path"`
	Model     string       `json:"model,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewArtifactRecord создаёт запись с новым идентификатором.
func NewArtifactRecord(kind ArtifactKind, source, path, model string, at time.Time) ArtifactRecord {
	return ArtifactRecord{
		ID:        uuid.New(),
		Kind:      kind,
		Source:    source,
		Path:      path,
		Model:     model,
		CreatedAt: at,
	}
}
