package services

import (
	"strings"
	"sync"

	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/samber/lo"
)

// SearchFilter is the free-text query shared by the list view and its
// toolbar. Only the toolbar writes; everyone else subscribes. A fresh filter
// is created whenever the list view is mounted.
type SearchFilter struct {
	mu   sync.Mutex
	text string
	subs []subscriber
	next uint64
}

type subscriber struct {
	id uint64
	fn func(string)
}

func NewSearchFilter() *SearchFilter {
	return &SearchFilter{}
}

func (f *SearchFilter) Text() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text
}

// Set replaces the query and synchronously notifies subscribers, in
// subscription order, when the value changed.
func (f *SearchFilter) Set(text string) {
	f.mu.Lock()
	if f.text == text {
		f.mu.Unlock()
		return
	}
	f.text = text
	subs := append([]subscriber(nil), f.subs...)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(text)
	}
}

func (f *SearchFilter) Reset() {
	f.Set("")
}

// Subscribe registers fn and returns a function that removes it.
func (f *SearchFilter) Subscribe(fn func(string)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	id := f.next
	f.subs = append(f.subs, subscriber{id: id, fn: fn})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subs = lo.Reject(f.subs, func(s subscriber, _ int) bool { return s.id == id })
	}
}

// FilterUsers returns the users whose "first last" name or email contains
// query, ignoring case. An empty query keeps everything. items is not
// modified.
func FilterUsers(items []models.User, query string) []models.User {
	if query == "" {
		return append([]models.User(nil), items...)
	}
	q := strings.ToLower(query)
	return lo.Filter(items, func(u models.User, _ int) bool {
		return strings.Contains(strings.ToLower(u.FirstName+" "+u.LastName), q) ||
			strings.Contains(strings.ToLower(u.Email), q)
	})
}
