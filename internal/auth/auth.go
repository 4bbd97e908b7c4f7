// Package auth manages the permissions granted to the caller of a command.
package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/parametric"
)

// Wildcard grants every permission
const Wildcard = "*"

// Grant records when a permission was granted
type Grant struct {
	GrantedAt time.Time `json:"granted_at,omitempty"`
}

// Subject is the caller of a command and the permissions it holds.
// A grant matches a permission exactly, by "prefix.*", or with "*".
type Subject struct {
	Name string

	path   string
	mu     sync.RWMutex
	grants map[string]*Grant
}

// NewSubject creates an in-memory subject holding permissions
func NewSubject(name string, permissions ...string) *Subject {
	s := &Subject{Name: name, grants: make(map[string]*Grant)}
	now := time.Now()
	for _, p := range permissions {
		if p = normalize(p); p != "" {
			s.grants[p] = &Grant{GrantedAt: now}
		}
	}
	return s
}

// Open creates a subject whose grants are persisted at path
func Open(name, path string) (*Subject, error) {
	s := NewSubject(name)
	s.path = path

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

// Permit grants a permission
func (s *Subject) Permit(permission string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := normalize(permission)
	if p == "" {
		return nil
	}
	if g := s.grants[p]; g != nil {
		g.GrantedAt = time.Now()
	} else {
		s.grants[p] = &Grant{GrantedAt: time.Now()}
	}
	return s.persist()
}

// Revoke removes a grant. Only the exact grant is removed.
func (s *Subject) Revoke(permission string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.grants, normalize(permission))
	return s.persist()
}

// May reports whether any grant covers permission
func (s *Subject) May(permission string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := normalize(permission)
	if _, ok := s.grants[Wildcard]; ok {
		return true
	}
	if _, ok := s.grants[p]; ok {
		return true
	}
	for g := range s.grants {
		if prefix, ok := strings.CutSuffix(g, ".*"); ok && strings.HasPrefix(p, prefix+".") {
			return true
		}
	}
	return false
}

// Get returns the grant stored for permission
func (s *Subject) Get(permission string) *Grant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grants[normalize(permission)]
}

// List returns all grants, sorted
func (s *Subject) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.grants))
	for p := range s.grants {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Clear removes all grants
func (s *Subject) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.grants = make(map[string]*Grant)
	return s.persist()
}

// load reads grants from disk
func (s *Subject) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var grants map[string]*Grant
	if err := json.Unmarshal(data, &grants); err != nil {
		return err
	}

	s.grants = make(map[string]*Grant)
	for p, g := range grants {
		if g == nil {
			g = &Grant{}
		}
		s.grants[normalize(p)] = g
	}
	return nil
}

// persist writes grants to disk when the subject is file-backed
func (s *Subject) persist() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.grants, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func normalize(permission string) string {
	return strings.ToLower(strings.TrimSpace(permission))
}

// WithSubject stores s as the caller in ns
func WithSubject(ns *args.Namespace, s *Subject) {
	args.Put(ns, s)
}

// SubjectFrom returns the caller stored in ns
func SubjectFrom(ns *args.Namespace) (*Subject, bool) {
	return args.Get[*Subject](ns)
}

// Authorizer answers permission checks against the Subject in the Namespace.
// A Namespace without a Subject is denied everything.
type Authorizer struct{}

var _ parametric.Authorizer = Authorizer{}

// TestPermission implements parametric.Authorizer
func (Authorizer) TestPermission(ns *args.Namespace, permission string) bool {
	s, ok := SubjectFrom(ns)
	return ok && s.May(permission)
}
