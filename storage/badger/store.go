package badger

import (
	"github.com/poiesic/matchmaker/core"
)

// Store bundles every BadgerDB-backed repository over one backend.
type Store struct {
	backend     *Backend
	tasks       *TaskRepository
	communities *CommunityRepository
	memberships *MembershipRepository
	profiles    *ProfileRepository
	activity    *ActivityLog
	vectors     *VectorIndex
	cache       *CacheStore
	checkpoints *CheckpointRepository
}

// Open opens (creating if needed) a store at path.
func Open(path string) (*Store, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return NewStore(backend), nil
}

// NewStore builds the repositories over an already opened backend.
// The store owns the backend and closes it on Close.
func NewStore(backend *Backend) *Store {
	return &Store{
		backend:     backend,
		tasks:       NewTaskRepository(backend),
		communities: NewCommunityRepository(backend),
		memberships: NewMembershipRepository(backend),
		profiles:    NewProfileRepository(backend),
		activity:    NewActivityLog(backend),
		vectors:     NewVectorIndex(backend, core.VectorDimensions),
		cache:       NewCacheStore(backend),
		checkpoints: NewCheckpointRepository(backend),
	}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Backend returns the underlying backend.
func (s *Store) Backend() *Backend                  { return s.backend }
func (s *Store) Tasks() *TaskRepository             { return s.tasks }
func (s *Store) Communities() *CommunityRepository  { return s.communities }
func (s *Store) Memberships() *MembershipRepository { return s.memberships }
func (s *Store) Profiles() *ProfileRepository       { return s.profiles }
func (s *Store) Activity() *ActivityLog             { return s.activity }
func (s *Store) Vectors() *VectorIndex              { return s.vectors }
func (s *Store) Cache() *CacheStore                 { return s.cache }
func (s *Store) Checkpoints() *CheckpointRepository { return s.checkpoints }
