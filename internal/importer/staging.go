package importer

import (
	"sync"
	"time"
)

// StagedUpload is the operator-scoped transient state between the inspect
// and apply stages. It never touches permanent storage.
type StagedUpload struct {
	Token     string
	OwnerID   int
	FilePath  string
	Columns   []string
	Entity    string
	CreatedAt time.Time
}

type StagingStore struct {
	mu      sync.Mutex
	uploads map[string]*StagedUpload
	ttl     time.Duration
}

func NewStagingStore(ttl time.Duration) *StagingStore {
	s := &StagingStore{
		uploads: make(map[string]*StagedUpload),
		ttl:     ttl,
	}

	go s.cleanupLoop()

	return s
}

func (s *StagingStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		cutoff := time.Now().Add(-s.ttl)
		for token, upload := range s.uploads {
			if upload.CreatedAt.Before(cutoff) {
				delete(s.uploads, token)
			}
		}
		s.mu.Unlock()
	}
}

func (s *StagingStore) Put(upload *StagedUpload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	upload.CreatedAt = time.Now()
	s.uploads[upload.Token] = upload
}

// Get returns the staged upload only to its owner.
func (s *StagingStore) Get(token string, ownerID int) *StagedUpload {
	s.mu.Lock()
	defer s.mu.Unlock()

	upload, ok := s.uploads[token]
	if !ok || upload.OwnerID != ownerID {
		return nil
	}
	return upload
}

func (s *StagingStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, token)
}
