package memory

import (
	"time"

	"synthmind-be/pkg/chat/state"

	"github.com/patrickmn/go-cache"
)

// ChatStateRepository keeps live chat states in process memory. Entries
// expire after ttl without access.
type ChatStateRepository struct {
	cache *cache.Cache
}

func NewChatStateRepository(ttl time.Duration) *ChatStateRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ChatStateRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *ChatStateRepository) Save(s *state.ChatState) {
	r.cache.Set(s.ID, s, cache.DefaultExpiration)
}

// Get returns the state and pushes its expiry back.
func (r *ChatStateRepository) Get(id string) (*state.ChatState, bool) {
	if x, found := r.cache.Get(id); found {
		s := x.(*state.ChatState)
		r.cache.Set(id, s, cache.DefaultExpiration)
		return s, true
	}
	return nil, false
}

func (r *ChatStateRepository) Delete(id string) {
	r.cache.Delete(id)
}

func (r *ChatStateRepository) Count() int {
	return r.cache.ItemCount()
}
