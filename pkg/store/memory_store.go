package store

import (
	"sync"

	"librarydesk/pkg/domain"
)

// MemoryStore keeps every collection in-process. Each collection tracks
// insertion order so listings are stable. Watch listeners fire synchronously
// on the mutating goroutine after the write lock is released.
type MemoryStore struct {
	mu sync.RWMutex

	books     map[string]domain.Book
	bookOrder []string

	members     map[string]domain.Member
	memberOrder []string

	staff      map[string]domain.Staff
	staffEmail map[string]string // email -> staff ID
	staffOrder []string

	loans     map[string]domain.Loan
	loanOrder []string

	pulls     map[string]domain.PullRequest
	pullOrder []string

	watchMu  sync.Mutex
	watchers []func(Change)
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books:      make(map[string]domain.Book),
		members:    make(map[string]domain.Member),
		staff:      make(map[string]domain.Staff),
		staffEmail: make(map[string]string),
		loans:      make(map[string]domain.Loan),
		pulls:      make(map[string]domain.PullRequest),
	}
}

// Watch registers a listener for store mutations. Listeners are invoked in
// registration order.
func (m *MemoryStore) Watch(fn func(Change)) {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()
	m.watchers = append(m.watchers, fn)
}

func (m *MemoryStore) notify(c Change) {
	m.watchMu.Lock()
	watchers := make([]func(Change), len(m.watchers))
	copy(watchers, m.watchers)
	m.watchMu.Unlock()
	for _, fn := range watchers {
		fn(c)
	}
}

// SaveBook stores or replaces a book record.
func (m *MemoryStore) SaveBook(b domain.Book) error {
	m.mu.Lock()
	if _, exists := m.books[b.ID]; !exists {
		m.bookOrder = append(m.bookOrder, b.ID)
	}
	m.books[b.ID] = b
	m.mu.Unlock()
	m.notify(Change{Collection: CollectionBooks, ID: b.ID})
	return nil
}

// GetBook retrieves a book by ID.
func (m *MemoryStore) GetBook(id string) (domain.Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.books[id]
	return b, ok, nil
}

// ListBooks returns books in insertion order.
func (m *MemoryStore) ListBooks() ([]domain.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Book, 0, len(m.bookOrder))
	for _, id := range m.bookOrder {
		if b, ok := m.books[id]; ok {
			res = append(res, b)
		}
	}
	return res, nil
}

// DeleteBook removes a book record.
func (m *MemoryStore) DeleteBook(id string) error {
	m.mu.Lock()
	delete(m.books, id)
	m.bookOrder = removeID(m.bookOrder, id)
	m.mu.Unlock()
	m.notify(Change{Collection: CollectionBooks, ID: id, Deleted: true})
	return nil
}

// SaveMember stores or replaces a member record. Slice fields are copied on
// the way in and out so no caller shares a backing array with the store or
// with another caller's snapshot.
func (m *MemoryStore) SaveMember(u domain.Member) error {
	u.BorrowedBooks = cloneStrings(u.BorrowedBooks)
	m.mu.Lock()
	if _, exists := m.members[u.ID]; !exists {
		m.memberOrder = append(m.memberOrder, u.ID)
	}
	m.members[u.ID] = u
	m.mu.Unlock()
	m.notify(Change{Collection: CollectionMembers, ID: u.ID})
	return nil
}

// GetMember retrieves a member by ID.
func (m *MemoryStore) GetMember(id string) (domain.Member, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.members[id]
	u.BorrowedBooks = cloneStrings(u.BorrowedBooks)
	return u, ok, nil
}

// ListMembers returns members in insertion order.
func (m *MemoryStore) ListMembers() ([]domain.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Member, 0, len(m.memberOrder))
	for _, id := range m.memberOrder {
		if u, ok := m.members[id]; ok {
			u.BorrowedBooks = cloneStrings(u.BorrowedBooks)
			res = append(res, u)
		}
	}
	return res, nil
}

// DeleteMember removes a member record.
func (m *MemoryStore) DeleteMember(id string) error {
	m.mu.Lock()
	delete(m.members, id)
	m.memberOrder = removeID(m.memberOrder, id)
	m.mu.Unlock()
	m.notify(Change{Collection: CollectionMembers, ID: id, Deleted: true})
	return nil
}

// SaveStaff stores or replaces a staff record and its email index entry.
func (m *MemoryStore) SaveStaff(s domain.Staff) error {
	m.mu.Lock()
	if prev, exists := m.staff[s.ID]; exists {
		if prev.Email != s.Email {
			delete(m.staffEmail, prev.Email)
		}
	} else {
		m.staffOrder = append(m.staffOrder, s.ID)
	}
	m.staff[s.ID] = s
	m.staffEmail[s.Email] = s.ID
	m.mu.Unlock()
	m.notify(Change{Collection: CollectionStaff, ID: s.ID})
	return nil
}

// GetStaff retrieves a staff record by ID.
func (m *MemoryStore) GetStaff(id string) (domain.Staff, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.staff[id]
	return s, ok, nil
}

// GetStaffByEmail looks up a staff record by email.
func (m *MemoryStore) GetStaffByEmail(email string) (domain.Staff, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.staffEmail[email]; ok {
		s, exists := m.staff[id]
		return s, exists, nil
	}
	return domain.Staff{}, false, nil
}

// ListStaff returns staff in insertion order.
func (m *MemoryStore) ListStaff() ([]domain.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Staff, 0, len(m.staffOrder))
	for _, id := range m.staffOrder {
		if s, ok := m.staff[id]; ok {
			res = append(res, s)
		}
	}
	return res, nil
}

// DeleteStaff removes a staff record and its email index entry.
func (m *MemoryStore) DeleteStaff(id string) error {
	m.mu.Lock()
	if s, ok := m.staff[id]; ok {
		delete(m.staffEmail, s.Email)
	}
	delete(m.staff, id)
	m.staffOrder = removeID(m.staffOrder, id)
	m.mu.Unlock()
	m.notify(Change{Collection: CollectionStaff, ID: id, Deleted: true})
	return nil
}

// SaveLoan stores or replaces a loan record.
func (m *MemoryStore) SaveLoan(l domain.Loan) error {
	m.mu.Lock()
	if _, exists := m.loans[l.ID]; !exists {
		m.loanOrder = append(m.loanOrder, l.ID)
	}
	m.loans[l.ID] = l
	m.mu.Unlock()
	m.notify(Change{Collection: CollectionLoans, ID: l.ID})
	return nil
}

// GetLoan retrieves a loan by ID.
func (m *MemoryStore) GetLoan(id string) (domain.Loan, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.loans[id]
	return l, ok, nil
}

// ListLoans returns loans in insertion order.
func (m *MemoryStore) ListLoans() ([]domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Loan, 0, len(m.loanOrder))
	for _, id := range m.loanOrder {
		if l, ok := m.loans[id]; ok {
			res = append(res, l)
		}
	}
	return res, nil
}

// SavePullRequest stores or replaces a pull-request record. The comment log
// is copied the same way member borrow lists are.
func (m *MemoryStore) SavePullRequest(pr domain.PullRequest) error {
	pr.ReviewComments = cloneStrings(pr.ReviewComments)
	m.mu.Lock()
	if _, exists := m.pulls[pr.ID]; !exists {
		m.pullOrder = append(m.pullOrder, pr.ID)
	}
	m.pulls[pr.ID] = pr
	m.mu.Unlock()
	m.notify(Change{Collection: CollectionPullRequests, ID: pr.ID})
	return nil
}

// GetPullRequest retrieves a pull request by ID.
func (m *MemoryStore) GetPullRequest(id string) (domain.PullRequest, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pr, ok := m.pulls[id]
	pr.ReviewComments = cloneStrings(pr.ReviewComments)
	return pr, ok, nil
}

// ListPullRequests returns pull requests in insertion order.
func (m *MemoryStore) ListPullRequests() ([]domain.PullRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.PullRequest, 0, len(m.pullOrder))
	for _, id := range m.pullOrder {
		if pr, ok := m.pulls[id]; ok {
			pr.ReviewComments = cloneStrings(pr.ReviewComments)
			res = append(res, pr)
		}
	}
	return res, nil
}

// cloneStrings copies a slice, preserving the nil/empty distinction.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func removeID(order []string, id string) []string {
	filtered := order[:0]
	for _, item := range order {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
