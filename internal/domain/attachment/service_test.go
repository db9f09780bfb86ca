package attachment

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeStore struct {
	inserted []Attachment
	nextID   int
}

func (f *fakeStore) Insert(_ context.Context, quoteID, fileName, contentType string, size int64) (Attachment, error) {
	f.nextID++
	a := Attachment{
		ID:          fmt.Sprintf("a-%d", f.nextID),
		QuoteID:     quoteID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
	}
	f.inserted = append(f.inserted, a)
	return a, nil
}

func (f *fakeStore) ListByQuote(_ context.Context, quoteID string) ([]Attachment, error) {
	var out []Attachment
	for _, a := range f.inserted {
		if a.QuoteID == quoteID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (Attachment, error) {
	for _, a := range f.inserted {
		if a.ID == id {
			return a, nil
		}
	}
	return Attachment{}, ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	for i, a := range f.inserted {
		if a.ID == id {
			f.inserted = append(f.inserted[:i], f.inserted[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func newTestService(t *testing.T, store StoreAPI) *Service {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewService(store, t.TempDir(), log)
}

func TestValidate(t *testing.T) {
	if err := Validate("application/pdf", 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate("application/zip", 1024); err != ErrTypeNotAllowed {
		t.Fatalf("expected ErrTypeNotAllowed, got %v", err)
	}
	if err := Validate("image/png", MaxSizeBytes+1); err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if err := Validate("text/plain", 0); err != ErrEmptyFile {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
	if err := Validate("text/plain", -1); err != ErrEmptyFile {
		t.Fatalf("expected ErrEmptyFile for negative size, got %v", err)
	}
}

func TestUploadRejectsBeforeStoring(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	_, err := svc.Upload(context.Background(), "q-1", "malware.exe", "application/octet-stream", []byte("x"))
	if err != ErrTypeNotAllowed {
		t.Fatalf("expected ErrTypeNotAllowed, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatal("expected no metadata row for rejected upload")
	}
}

func TestQueueAndFlush(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	if err := svc.Queue("draft-1", "offer.pdf", "application/pdf", []byte("pdf bytes")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Queue("draft-1", "photo.png", "image/png", []byte("png bytes")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.PendingCount("draft-1"); got != 2 {
		t.Fatalf("expected 2 pending, got %d", got)
	}

	flushed, err := svc.Flush(context.Background(), "draft-1", "q-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(flushed) != 2 {
		t.Fatalf("expected 2 flushed, got %d", len(flushed))
	}
	if got := svc.PendingCount("draft-1"); got != 0 {
		t.Fatalf("expected empty queue after flush, got %d", got)
	}

	listed, err := svc.List(context.Background(), "q-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 stored attachments, got %d", len(listed))
	}
}

func TestQueueRejectsOversizedFile(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	big := make([]byte, MaxSizeBytes+1)
	if err := svc.Queue("draft-1", "huge.pdf", "application/pdf", big); err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if got := svc.PendingCount("draft-1"); got != 0 {
		t.Fatalf("expected nothing queued, got %d", got)
	}
}

func TestOpenRoundTripsFileContents(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	uploaded, err := svc.Upload(context.Background(), "q-1", "notes.txt", "text/plain", []byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attachment, data, err := svc.Open(context.Background(), uploaded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attachment.FileName != "notes.txt" {
		t.Fatalf("expected notes.txt, got %q", attachment.FileName)
	}
	if string(data) != "hello" {
		t.Fatalf("expected file contents round trip, got %q", string(data))
	}
}
