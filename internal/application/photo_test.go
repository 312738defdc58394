package app

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/infrastructure/storage"
)

func newTestPhotoService(t *testing.T, answer string) (*PhotoService, *UserService, *recordingProcessor) {
	t.Helper()
	users := NewUserService(storage.NewMemoryUserRepository())
	extraction := NewExtractionService(&fakeVision{answer: answer}, newTestStore(t), &fakeJournal{}, discardLogger())
	proc := &recordingProcessor{}
	return NewPhotoService(users, extraction, proc, proc), users, proc
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidFrame(4, 4, grayPixel)))
	return buf.Bytes()
}

func TestPhotoService_CSV(t *testing.T) {
	svc, users, _ := newTestPhotoService(t, "```csv\nname,value\na,1\n```")
	ctx := context.Background()

	user, err := users.SetState(ctx, 1, 10, entity.StateAwaitingCSVPhoto)
	require.NoError(t, err)

	res, err := svc.Process(ctx, user, "telegram_photo.jpg", pngBytes(t))
	require.NoError(t, err)
	require.NotEmpty(t, res.Document)
	require.Contains(t, res.Text, "CSV saved to: ")

	saved, err := os.ReadFile(res.Document)
	require.NoError(t, err)
	require.Equal(t, "a,1", string(saved))

	user, err = users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestPhotoService_ExtractionErrorBecomesText(t *testing.T) {
	svc, users, _ := newTestPhotoService(t, "no table here")
	ctx := context.Background()

	user, err := users.SetState(ctx, 1, 10, entity.StateAwaitingCSVPhoto)
	require.NoError(t, err)

	res, err := svc.Process(ctx, user, "telegram_photo.jpg", pngBytes(t))
	require.NoError(t, err)
	require.Empty(t, res.Document)
	require.Contains(t, res.Text, "Error processing image:")
}

func TestPhotoService_Detect(t *testing.T) {
	svc, users, proc := newTestPhotoService(t, "")
	ctx := context.Background()

	user, err := users.SetState(ctx, 2, 20, entity.StateAwaitingDetectPhoto)
	require.NoError(t, err)

	res, err := svc.Process(ctx, user, "frame.png", pngBytes(t))
	require.NoError(t, err)
	require.Len(t, proc.reds, 1)

	img, _, err := image.Decode(bytes.NewReader(res.Image))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
}

func TestPhotoService_NotAwaitingPhoto(t *testing.T) {
	svc, users, _ := newTestPhotoService(t, "")
	ctx := context.Background()

	user, err := users.Get(ctx, 3, 30)
	require.NoError(t, err)

	_, err = svc.Process(ctx, user, "x.png", pngBytes(t))
	require.ErrorIs(t, err, ErrUnexpectedPhoto)
}

func TestPhotoService_BadPhoto(t *testing.T) {
	svc, users, _ := newTestPhotoService(t, "")
	ctx := context.Background()

	user, err := users.SetState(ctx, 4, 40, entity.StateAwaitingSegmentPhoto)
	require.NoError(t, err)

	_, err = svc.Process(ctx, user, "x.png", []byte("not an image"))
	require.Error(t, err)

	user, err = users.Get(ctx, 4, 40)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}
