package entity

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStem(t *testing.T) {
	got := SanitizeStem("Coder in a room with 5 screens coding AI apps.")
	require.Equal(t, "Coder_in_a_room_with_5_screens", got)
	require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_]+$`), got)
	require.Len(t, got, 30)
}

func TestSanitizeStem_Short(t *testing.T) {
	require.Equal(t, "a_b_c_", SanitizeStem("a/b?c!"))
	require.Equal(t, "", SanitizeStem(""))
}

func TestSanitizeStem_CountsRunes(t *testing.T) {
	got := SanitizeStem("ёжик в тумане — мультфильм 1975 года, режиссёр Норштейн")
	require.Equal(t, 30, len([]rune(got)))
	require.Equal(t, "ёжик_в_тумане___мультфильм_197", got)
}

func TestFileStem(t *testing.T) {
	require.Equal(t, "dd_all_sources", FileStem("images/dd_all_sources.png"))
	require.Equal(t, "archive.tar", FileStem("/tmp/archive.tar.gz"))
	require.Equal(t, "noext", FileStem("noext"))
}

func TestArtifactName(t *testing.T) {
	at := time.Date(2025, 3, 7, 9, 5, 2, 0, time.UTC)
	require.Equal(t, "dd_all_sources_20250307_090502.md", ArtifactName("dd_all_sources", "md", at))
	require.Equal(t, "x_20250307_090502.png", ArtifactName("x", ".png", at))
}

func TestNewArtifactRecord(t *testing.T) {
	at := time.Now()
	rec := NewArtifactRecord(KindCSV, "in.png", "out.csv", "model", at)
	require.NotEqual(t, uuid.Nil, rec.ID)
	require.Equal(t, KindCSV, rec.Kind)
	require.Equal(t, at, rec.CreatedAt)
}
