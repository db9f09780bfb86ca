package attachment

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

type Service struct {
	store StoreAPI
	dir   string
	log   *logrus.Logger

	mu      sync.Mutex
	pending map[string][]Pending
}

func NewService(store StoreAPI, dir string, log *logrus.Logger) *Service {
	return &Service{store: store, dir: dir, log: log, pending: make(map[string][]Pending)}
}

// Upload validates and stores a file for an already-persisted quote.
func (s *Service) Upload(ctx context.Context, quoteID, fileName, contentType string, data []byte) (Attachment, error) {
	if err := Validate(contentType, int64(len(data))); err != nil {
		return Attachment{}, err
	}

	attachment, err := s.store.Insert(ctx, quoteID, fileName, contentType, int64(len(data)))
	if err != nil {
		return Attachment{}, err
	}
	if err := s.writeFile(attachment.ID, data); err != nil {
		// Roll the metadata back so no half-stored attachment survives.
		_ = s.store.Delete(ctx, attachment.ID)
		return Attachment{}, err
	}
	return attachment, nil
}

// Queue holds a validated file for a quote that is still an unsaved draft.
// The draft key is the client's temporary quote identity.
func (s *Service) Queue(draftKey, fileName, contentType string, data []byte) error {
	if err := Validate(contentType, int64(len(data))); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[draftKey] = append(s.pending[draftKey], Pending{
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	})
	return nil
}

// Flush moves a draft's queued files to storage once the quote has been
// created and owns a real id. Files that fail to store are kept queued.
func (s *Service) Flush(ctx context.Context, draftKey, quoteID string) ([]Attachment, error) {
	s.mu.Lock()
	queued := s.pending[draftKey]
	delete(s.pending, draftKey)
	s.mu.Unlock()

	var flushed []Attachment
	var failed []Pending
	for _, p := range queued {
		attachment, err := s.Upload(ctx, quoteID, p.FileName, p.ContentType, p.Data)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"quoteId":  quoteID,
				"fileName": p.FileName,
			}).WithError(err).Warn("attachment flush failed")
			failed = append(failed, p)
			continue
		}
		flushed = append(flushed, attachment)
	}

	if len(failed) > 0 {
		s.mu.Lock()
		s.pending[draftKey] = append(failed, s.pending[draftKey]...)
		s.mu.Unlock()
	}
	return flushed, nil
}

// PendingCount reports how many files are queued for a draft.
func (s *Service) PendingCount(draftKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[draftKey])
}

func (s *Service) List(ctx context.Context, quoteID string) ([]Attachment, error) {
	return s.store.ListByQuote(ctx, quoteID)
}

// Open returns the attachment's metadata and its file contents.
func (s *Service) Open(ctx context.Context, id string) (Attachment, []byte, error) {
	attachment, err := s.store.Get(ctx, id)
	if err != nil {
		return Attachment{}, nil, err
	}
	data, err := os.ReadFile(s.filePath(attachment.ID))
	if err != nil {
		return Attachment{}, nil, err
	}
	return attachment, data, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := os.Remove(s.filePath(id)); err != nil && !os.IsNotExist(err) {
		s.log.WithField("attachmentId", id).WithError(err).Warn("attachment file removal failed")
	}
	return nil
}

func (s *Service) writeFile(id string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.filePath(id), data, 0o644)
}

func (s *Service) filePath(id string) string {
	return filepath.Join(s.dir, id)
}
