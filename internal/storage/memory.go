package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Kallolx/appointment-backend/internal/models"
)

// MemoryStore holds all data in memory. Used for tests and for running the
// server without Postgres (USE_MEMORY_STORE=true).
type MemoryStore struct {
	users        map[uint]*models.User
	dates        map[uint]*models.AvailableDate
	slots        map[uint]*models.AvailableTimeSlot
	appointments map[uint]*models.Appointment
	payments     map[uint]*models.Payment
	tickets      map[uint]*models.SupportTicket
	categories   map[uint]*models.ServiceCategory
	propTypes    map[uint]*models.PropertyType
	roomTypes    map[uint]*models.RoomType
	pricing      map[uint]*models.ServicePricing
	pages        map[uint]*models.ContentPage
	settings     map[uint]*models.WebsiteSetting

	mu      sync.RWMutex
	counter uint
}

// NewMemoryStore creates a new in-memory storage.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[uint]*models.User),
		dates:        make(map[uint]*models.AvailableDate),
		slots:        make(map[uint]*models.AvailableTimeSlot),
		appointments: make(map[uint]*models.Appointment),
		payments:     make(map[uint]*models.Payment),
		tickets:      make(map[uint]*models.SupportTicket),
		categories:   make(map[uint]*models.ServiceCategory),
		propTypes:    make(map[uint]*models.PropertyType),
		roomTypes:    make(map[uint]*models.RoomType),
		pricing:      make(map[uint]*models.ServicePricing),
		pages:        make(map[uint]*models.ContentPage),
		settings:     make(map[uint]*models.WebsiteSetting),
	}
}

func (m *MemoryStore) nextID() uint {
	m.counter++
	return m.counter
}

func matchesFilter(categoryID *uint, filter CategoryFilter) bool {
	switch filter.Scope {
	case UncategorizedOnly:
		return categoryID == nil
	case SpecificCategory:
		return categoryID != nil && *categoryID == filter.ID
	default:
		return true
	}
}

func sameScope(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// User operations

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Phone == user.Phone {
			return nil, fmt.Errorf("%w: phone already registered", ErrDuplicate)
		}
		if user.Email != nil && u.Email != nil && *u.Email == *user.Email {
			return nil, fmt.Errorf("%w: email already registered", ErrDuplicate)
		}
	}

	user.ID = m.nextID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return user, nil
}

func (m *MemoryStore) GetUser(id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *MemoryStore) GetUserByPhone(phone string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email != nil && *u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

// Available date operations

func (m *MemoryStore) ListAvailableDates(fromDate string, filter CategoryFilter) ([]*models.AvailableDate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.AvailableDate
	for _, d := range m.dates {
		if !d.IsAvailable || d.Date < fromDate {
			continue
		}
		if !matchesFilter(d.ServiceCategoryID, filter) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *MemoryStore) GetAvailableDate(id uint) (*models.AvailableDate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.dates[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *MemoryStore) FindAvailableDate(date string, categoryID *uint) (*models.AvailableDate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.dates {
		if d.Date == date && sameScope(d.ServiceCategoryID, categoryID) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateAvailableDate(d *models.AvailableDate) (*models.AvailableDate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d.ID = m.nextID()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	cp := *d
	m.dates[d.ID] = &cp
	return d, nil
}

func (m *MemoryStore) UpdateAvailableDate(d *models.AvailableDate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.dates[d.ID]; !ok {
		return ErrNotFound
	}
	d.UpdatedAt = time.Now()
	cp := *d
	m.dates[d.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteAvailableDate(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.dates[id]; !ok {
		return ErrNotFound
	}
	delete(m.dates, id)
	return nil
}

// Time slot operations

func (m *MemoryStore) ListAvailableTimeSlots(date string, filter CategoryFilter) ([]*models.AvailableTimeSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.AvailableTimeSlot
	for _, s := range m.slots {
		if s.Date != date || !s.IsAvailable {
			continue
		}
		if !matchesFilter(s.ServiceCategoryID, filter) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *MemoryStore) ListTimeSlotsInScope(date string, categoryID *uint) ([]*models.AvailableTimeSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.AvailableTimeSlot
	for _, s := range m.slots {
		if s.Date != date || !s.IsAvailable {
			continue
		}
		if !sameScope(s.ServiceCategoryID, categoryID) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *MemoryStore) GetTimeSlot(id uint) (*models.AvailableTimeSlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) CreateTimeSlot(slot *models.AvailableTimeSlot) (*models.AvailableTimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot.ID = m.nextID()
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = time.Now()
	cp := *slot
	m.slots[slot.ID] = &cp
	return slot, nil
}

func (m *MemoryStore) UpdateTimeSlot(slot *models.AvailableTimeSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.slots[slot.ID]; !ok {
		return ErrNotFound
	}
	slot.UpdatedAt = time.Now()
	cp := *slot
	m.slots[slot.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteTimeSlot(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.slots[id]; !ok {
		return ErrNotFound
	}
	delete(m.slots, id)
	return nil
}

// Appointment operations

func (m *MemoryStore) CreateAppointment(a *models.Appointment) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a.ID = m.nextID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	cp := *a
	m.appointments[a.ID] = &cp
	return a, nil
}

func (m *MemoryStore) GetAppointment(id uint) (*models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) GetAppointmentsByUser(userID uint) ([]*models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.Appointment
	for _, a := range m.appointments {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate > out[j].AppointmentDate
		}
		return out[i].AppointmentTime > out[j].AppointmentTime
	})
	return out, nil
}

func (m *MemoryStore) GetAllAppointments() ([]*models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.Appointment
	for _, a := range m.appointments {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate > out[j].AppointmentDate
		}
		return out[i].AppointmentTime > out[j].AppointmentTime
	})
	return out, nil
}

func (m *MemoryStore) GetAppointmentsOnDate(date string, statuses []string) ([]*models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}

	var out []*models.Appointment
	for _, a := range m.appointments {
		if a.AppointmentDate != date {
			continue
		}
		if len(statuses) > 0 && !wanted[a.Status] {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentTime < out[j].AppointmentTime })
	return out, nil
}

func (m *MemoryStore) UpdateAppointment(a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.appointments[a.ID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now()
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

// Payment operations

func (m *MemoryStore) CreatePayment(p *models.Payment) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.payments {
		if existing.OrderID == p.OrderID {
			return nil, fmt.Errorf("%w: order id already exists", ErrDuplicate)
		}
	}

	p.ID = m.nextID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	cp := *p
	m.payments[p.ID] = &cp
	return p, nil
}

func (m *MemoryStore) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.payments {
		if p.OrderID == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdatePayment(p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.payments[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

// Support operations

func (m *MemoryStore) CreateSupportTicket(t *models.SupportTicket) (*models.SupportTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t.ID = m.nextID()
	if t.TicketID == "" {
		t.TicketID = fmt.Sprintf("TK%d", time.Now().UnixNano())
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	cp := *t
	m.tickets[t.ID] = &cp
	return t, nil
}

func (m *MemoryStore) GetSupportTicket(id uint) (*models.SupportTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryStore) GetTicketsByUser(userID uint) ([]*models.SupportTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.SupportTicket
	for _, t := range m.tickets {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) GetAllTickets() ([]*models.SupportTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.SupportTicket
	for _, t := range m.tickets {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) UpdateSupportTicket(t *models.SupportTicket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickets[t.ID]; !ok {
		return ErrNotFound
	}
	t.UpdatedAt = time.Now()
	cp := *t
	m.tickets[t.ID] = &cp
	return nil
}

// Catalog operations

func (m *MemoryStore) ListServiceCategories(activeOnly bool) ([]*models.ServiceCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.ServiceCategory
	for _, c := range m.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetServiceCategory(id uint) (*models.ServiceCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryStore) CreateServiceCategory(c *models.ServiceCategory) (*models.ServiceCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.categories {
		if existing.Slug == c.Slug {
			return nil, fmt.Errorf("%w: slug already exists", ErrDuplicate)
		}
	}

	c.ID = m.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	cp := *c
	m.categories[c.ID] = &cp
	return c, nil
}

func (m *MemoryStore) UpdateServiceCategory(c *models.ServiceCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteServiceCategory(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *MemoryStore) ListPropertyTypes(categoryID uint) ([]*models.PropertyType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.PropertyType
	for _, t := range m.propTypes {
		if t.ServiceCategoryID == categoryID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) ReplacePropertyTypes(categoryID uint, types []models.PropertyType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, t := range m.propTypes {
		if t.ServiceCategoryID == categoryID {
			delete(m.propTypes, id)
		}
	}
	for i := range types {
		t := types[i]
		t.ID = m.nextID()
		t.ServiceCategoryID = categoryID
		t.CreatedAt = time.Now()
		t.UpdatedAt = time.Now()
		m.propTypes[t.ID] = &t
	}
	return nil
}

func (m *MemoryStore) ListRoomTypes(categoryID uint) ([]*models.RoomType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.RoomType
	for _, t := range m.roomTypes {
		if t.ServiceCategoryID == categoryID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) ReplaceRoomTypes(categoryID uint, types []models.RoomType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, t := range m.roomTypes {
		if t.ServiceCategoryID == categoryID {
			delete(m.roomTypes, id)
		}
	}
	for i := range types {
		t := types[i]
		t.ID = m.nextID()
		t.ServiceCategoryID = categoryID
		t.CreatedAt = time.Now()
		t.UpdatedAt = time.Now()
		m.roomTypes[t.ID] = &t
	}
	return nil
}

func (m *MemoryStore) ListServicePricing(categoryID uint) ([]*models.ServicePricing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.ServicePricing
	for _, p := range m.pricing {
		if categoryID != 0 && p.ServiceCategoryID != categoryID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetServicePricing(id uint) (*models.ServicePricing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pricing[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) CreateServicePricing(p *models.ServicePricing) (*models.ServicePricing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = m.nextID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	cp := *p
	m.pricing[p.ID] = &cp
	return p, nil
}

func (m *MemoryStore) UpdateServicePricing(p *models.ServicePricing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pricing[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	m.pricing[p.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteServicePricing(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pricing[id]; !ok {
		return ErrNotFound
	}
	delete(m.pricing, id)
	return nil
}

// Content operations

func (m *MemoryStore) GetContentPage(slug string) (*models.ContentPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.pages {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListContentPages() ([]*models.ContentPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.ContentPage
	for _, p := range m.pages {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (m *MemoryStore) UpsertContentPage(p *models.ContentPage) (*models.ContentPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.pages {
		if existing.Slug == p.Slug {
			existing.Title = p.Title
			existing.Body = p.Body
			existing.UpdatedAt = time.Now()
			cp := *existing
			return &cp, nil
		}
	}

	p.ID = m.nextID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	cp := *p
	m.pages[p.ID] = &cp
	return p, nil
}

func (m *MemoryStore) ListWebsiteSettings() ([]*models.WebsiteSetting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.WebsiteSetting
	for _, s := range m.settings {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MemoryStore) UpsertWebsiteSetting(key, value string) (*models.WebsiteSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.settings {
		if s.Key == key {
			s.Value = value
			s.UpdatedAt = time.Now()
			cp := *s
			return &cp, nil
		}
	}

	s := &models.WebsiteSetting{Key: key, Value: value}
	s.ID = m.nextID()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	m.settings[s.ID] = s
	cp := *s
	return &cp, nil
}
