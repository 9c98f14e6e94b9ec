package charset

import (
	"sync"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
)

// Registry caches character sets by alphabet so each distinct alphabet is
// built once and shared by every value encoded against it.
type Registry struct {
	mu   sync.RWMutex
	sets map[uint64][]*CharacterSet // buckets hold xxhash collisions
	log  *logrus.Entry
}

// NewRegistry returns an empty registry logging through the standard logrus logger.
func NewRegistry() *Registry {
	return &Registry{
		sets: make(map[uint64][]*CharacterSet),
		log:  logrus.WithField("module", "charset"),
	}
}

// SetLogger replaces the registry's log entry.
func (r *Registry) SetLogger(log *logrus.Entry) {
	r.mu.Lock()
	r.log = log
	r.mu.Unlock()
}

// Key hashes an ordered alphabet.
func Key(codePoints []rune) uint64 {
	d := xxhash.New()
	for _, cp := range codePoints {
		_, _ = d.Write(bigendian.Uint32ToBytes(uint32(cp)))
	}
	return d.Sum64()
}

// Get returns the set for codePoints in the given order, building it on
// first use.
func (r *Registry) Get(codePoints []rune) (*CharacterSet, error) {
	key := Key(codePoints)

	r.mu.RLock()
	s := lookup(r.sets[key], codePoints)
	r.mu.RUnlock()
	if s != nil {
		return s, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s := lookup(r.sets[key], codePoints); s != nil {
		return s, nil
	}
	s, err := New(codePoints)
	if err != nil {
		return nil, err
	}
	r.sets[key] = append(r.sets[key], s)
	r.log.WithFields(logrus.Fields{
		"key":    key,
		"size":   s.Size(),
		"bits":   s.CodingLength(),
		"cached": r.len(),
	}).Debug("Built restricted character set")
	return s, nil
}

// GetSet is Get for an unordered alphabet, in ascending code point order.
func (r *Registry) GetSet(set map[rune]struct{}) (*CharacterSet, error) {
	s, err := FromSet(set)
	if err != nil {
		return nil, err
	}
	return r.Get(s.codePoints)
}

// Len returns the number of cached sets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.len()
}

func (r *Registry) len() int {
	n := 0
	for _, bucket := range r.sets {
		n += len(bucket)
	}
	return n
}

func lookup(bucket []*CharacterSet, codePoints []rune) *CharacterSet {
	for _, s := range bucket {
		if equalRunes(s.codePoints, codePoints) {
			return s
		}
	}
	return nil
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
