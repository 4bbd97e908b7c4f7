// Package users is an example domain of console users sending each other
// messages. The calling user is read from the Namespace.
package users

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/NikitaCOEUR/cmdgraph/internal/args"
	"github.com/NikitaCOEUR/cmdgraph/internal/binding"
	"github.com/NikitaCOEUR/cmdgraph/internal/derrors"
)

// Sender classifies the *User parameter that receives the calling user
const Sender binding.Classifier = "Sender"

// SenderKey is the Namespace key holding the calling user
const SenderKey = "sender"

// User is a console user with an inbox
type User struct {
	Name string

	mu    sync.Mutex
	inbox []string
}

// Message appends text to the user's inbox
func (u *User) Message(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inbox = append(u.inbox, text)
}

// Inbox returns the received messages, oldest first
func (u *User) Inbox() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return slices.Clone(u.inbox)
}

// ClearInbox empties the inbox and returns how many messages it held
func (u *User) ClearInbox() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := len(u.inbox)
	u.inbox = nil
	return n
}

// Directory holds users by lower-cased name
type Directory struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewDirectory creates a directory with the named users
func NewDirectory(names ...string) *Directory {
	d := &Directory{users: make(map[string]*User, len(names))}
	for _, n := range names {
		d.Add(n)
	}
	return d
}

// Add registers a user, returning the existing one when the name is taken
func (d *Directory) Add(name string) *User {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := strings.ToLower(name)
	if u, ok := d.users[key]; ok {
		return u
	}
	u := &User{Name: name}
	d.users[key] = u
	return u
}

// Get returns the named user
func (d *Directory) Get(name string) (*User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[strings.ToLower(name)]
	return u, ok
}

// Names returns the user names, sorted
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u.Name)
	}
	slices.Sort(out)
	return out
}

// SetSender stores u as the calling user in ns
func SetSender(ns *args.Namespace, u *User) {
	ns.Put(SenderKey, u)
}

// SenderFrom returns the calling user stored in ns
func SenderFrom(ns *args.Namespace) (*User, bool) {
	return args.Lookup[*User](ns, SenderKey)
}

// UserProvider resolves a user by name
type UserProvider struct {
	directory *Directory
}

func (p UserProvider) Provided() bool { return false }

func (p UserProvider) Get(a args.Args, _ []any) (any, error) {
	name, err := a.Next()
	if err != nil {
		return nil, err
	}
	u, ok := p.directory.Get(name)
	if !ok {
		return nil, derrors.NewParseError(name, fmt.Sprintf("Couldn't find a user by the name '%s'", name), nil)
	}
	return u, nil
}

func (p UserProvider) Suggest(prefix string, _ *args.Namespace, _ []any) []string {
	var out []string
	for _, n := range p.directory.Names() {
		if strings.HasPrefix(strings.ToLower(n), strings.ToLower(prefix)) {
			out = append(out, n)
		}
	}
	return out
}

type senderProvider struct{}

func (senderProvider) Provided() bool { return true }

func (senderProvider) Get(a args.Args, _ []any) (any, error) {
	u, ok := SenderFrom(a.Namespace())
	if !ok || u == nil {
		return nil, derrors.NewCommandError("This command must be run by a user")
	}
	return u, nil
}

func (senderProvider) Suggest(string, *args.Namespace, []any) []string { return nil }

// Module binds *User by name and the Sender-classified *User from the Namespace
func Module(d *Directory) binding.Module {
	return binding.ModuleFunc(func(b *binding.Binder) {
		binding.Bind[*User](b).ToProvider(UserProvider{directory: d})
		binding.Bind[*User](b).Classified(Sender).ToProvider(senderProvider{})
		binding.Bind[*Directory](b).ToInstance(d)
	})
}
