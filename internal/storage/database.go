package storage

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Kallolx/appointment-backend/internal/models"
)

// DatabaseStore implements Store on top of GORM.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given database handle.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// mapErr translates driver errors into the store's sentinel errors.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func applyCategoryFilter(q *gorm.DB, filter CategoryFilter) *gorm.DB {
	switch filter.Scope {
	case UncategorizedOnly:
		return q.Where("service_category_id IS NULL")
	case SpecificCategory:
		return q.Where("service_category_id = ?", filter.ID)
	default:
		return q
	}
}

func scopeByCategoryID(q *gorm.DB, categoryID *uint) *gorm.DB {
	if categoryID == nil {
		return q.Where("service_category_id IS NULL")
	}
	return q.Where("service_category_id = ?", *categoryID)
}

// User operations

func (s *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	if err := s.db.Create(user).Error; err != nil {
		return nil, mapErr(err)
	}
	return user, nil
}

func (s *DatabaseStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *DatabaseStore) UpdateUser(user *models.User) error {
	return mapErr(s.db.Save(user).Error)
}

// Available date operations

func (s *DatabaseStore) ListAvailableDates(fromDate string, filter CategoryFilter) ([]*models.AvailableDate, error) {
	var dates []*models.AvailableDate
	q := s.db.Where("is_available = ?", true).Where("date >= ?", fromDate)
	q = applyCategoryFilter(q, filter)
	if err := q.Order("date asc").Find(&dates).Error; err != nil {
		return nil, mapErr(err)
	}
	return dates, nil
}

func (s *DatabaseStore) GetAvailableDate(id uint) (*models.AvailableDate, error) {
	var d models.AvailableDate
	if err := s.db.First(&d, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

func (s *DatabaseStore) FindAvailableDate(date string, categoryID *uint) (*models.AvailableDate, error) {
	var d models.AvailableDate
	q := scopeByCategoryID(s.db.Where("date = ?", date), categoryID)
	if err := q.First(&d).Error; err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

func (s *DatabaseStore) CreateAvailableDate(d *models.AvailableDate) (*models.AvailableDate, error) {
	if err := s.db.Create(d).Error; err != nil {
		return nil, mapErr(err)
	}
	return d, nil
}

func (s *DatabaseStore) UpdateAvailableDate(d *models.AvailableDate) error {
	return mapErr(s.db.Save(d).Error)
}

func (s *DatabaseStore) DeleteAvailableDate(id uint) error {
	res := s.db.Delete(&models.AvailableDate{}, id)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Time slot operations

func (s *DatabaseStore) ListAvailableTimeSlots(date string, filter CategoryFilter) ([]*models.AvailableTimeSlot, error) {
	var slots []*models.AvailableTimeSlot
	q := s.db.Where("date = ?", date).Where("is_available = ?", true)
	q = applyCategoryFilter(q, filter)
	if err := q.Order("start_time asc").Find(&slots).Error; err != nil {
		return nil, mapErr(err)
	}
	return slots, nil
}

func (s *DatabaseStore) ListTimeSlotsInScope(date string, categoryID *uint) ([]*models.AvailableTimeSlot, error) {
	var slots []*models.AvailableTimeSlot
	q := scopeByCategoryID(s.db.Where("date = ?", date).Where("is_available = ?", true), categoryID)
	if err := q.Order("start_time asc").Find(&slots).Error; err != nil {
		return nil, mapErr(err)
	}
	return slots, nil
}

func (s *DatabaseStore) GetTimeSlot(id uint) (*models.AvailableTimeSlot, error) {
	var slot models.AvailableTimeSlot
	if err := s.db.First(&slot, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &slot, nil
}

func (s *DatabaseStore) CreateTimeSlot(slot *models.AvailableTimeSlot) (*models.AvailableTimeSlot, error) {
	if err := s.db.Create(slot).Error; err != nil {
		return nil, mapErr(err)
	}
	return slot, nil
}

func (s *DatabaseStore) UpdateTimeSlot(slot *models.AvailableTimeSlot) error {
	return mapErr(s.db.Save(slot).Error)
}

func (s *DatabaseStore) DeleteTimeSlot(id uint) error {
	res := s.db.Delete(&models.AvailableTimeSlot{}, id)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Appointment operations

func (s *DatabaseStore) CreateAppointment(a *models.Appointment) (*models.Appointment, error) {
	if err := s.db.Create(a).Error; err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (s *DatabaseStore) GetAppointment(id uint) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.db.First(&a, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (s *DatabaseStore) GetAppointmentsByUser(userID uint) ([]*models.Appointment, error) {
	var apps []*models.Appointment
	if err := s.db.Where("user_id = ?", userID).Order("appointment_date desc, appointment_time desc").Find(&apps).Error; err != nil {
		return nil, mapErr(err)
	}
	return apps, nil
}

func (s *DatabaseStore) GetAllAppointments() ([]*models.Appointment, error) {
	var apps []*models.Appointment
	if err := s.db.Order("appointment_date desc, appointment_time desc").Find(&apps).Error; err != nil {
		return nil, mapErr(err)
	}
	return apps, nil
}

func (s *DatabaseStore) GetAppointmentsOnDate(date string, statuses []string) ([]*models.Appointment, error) {
	var apps []*models.Appointment
	q := s.db.Where("appointment_date = ?", date)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("appointment_time asc").Find(&apps).Error; err != nil {
		return nil, mapErr(err)
	}
	return apps, nil
}

func (s *DatabaseStore) UpdateAppointment(a *models.Appointment) error {
	return mapErr(s.db.Save(a).Error)
}

// Payment operations

func (s *DatabaseStore) CreatePayment(p *models.Payment) (*models.Payment, error) {
	if err := s.db.Create(p).Error; err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *DatabaseStore) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	var p models.Payment
	if err := s.db.Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *DatabaseStore) UpdatePayment(p *models.Payment) error {
	return mapErr(s.db.Save(p).Error)
}

// Support operations

func (s *DatabaseStore) CreateSupportTicket(t *models.SupportTicket) (*models.SupportTicket, error) {
	if err := s.db.Create(t).Error; err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (s *DatabaseStore) GetSupportTicket(id uint) (*models.SupportTicket, error) {
	var t models.SupportTicket
	if err := s.db.First(&t, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

func (s *DatabaseStore) GetTicketsByUser(userID uint) ([]*models.SupportTicket, error) {
	var tickets []*models.SupportTicket
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&tickets).Error; err != nil {
		return nil, mapErr(err)
	}
	return tickets, nil
}

func (s *DatabaseStore) GetAllTickets() ([]*models.SupportTicket, error) {
	var tickets []*models.SupportTicket
	if err := s.db.Order("created_at desc").Find(&tickets).Error; err != nil {
		return nil, mapErr(err)
	}
	return tickets, nil
}

func (s *DatabaseStore) UpdateSupportTicket(t *models.SupportTicket) error {
	return mapErr(s.db.Save(t).Error)
}

// Catalog operations

func (s *DatabaseStore) ListServiceCategories(activeOnly bool) ([]*models.ServiceCategory, error) {
	var cats []*models.ServiceCategory
	q := s.db.Order("name asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&cats).Error; err != nil {
		return nil, mapErr(err)
	}
	return cats, nil
}

func (s *DatabaseStore) GetServiceCategory(id uint) (*models.ServiceCategory, error) {
	var c models.ServiceCategory
	if err := s.db.First(&c, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *DatabaseStore) CreateServiceCategory(c *models.ServiceCategory) (*models.ServiceCategory, error) {
	if err := s.db.Create(c).Error; err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *DatabaseStore) UpdateServiceCategory(c *models.ServiceCategory) error {
	return mapErr(s.db.Save(c).Error)
}

func (s *DatabaseStore) DeleteServiceCategory(id uint) error {
	res := s.db.Delete(&models.ServiceCategory{}, id)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DatabaseStore) ListPropertyTypes(categoryID uint) ([]*models.PropertyType, error) {
	var types []*models.PropertyType
	if err := s.db.Where("service_category_id = ?", categoryID).Order("name asc").Find(&types).Error; err != nil {
		return nil, mapErr(err)
	}
	return types, nil
}

// ReplacePropertyTypes swaps a category's property types atomically. Either
// the old set is fully replaced by the new one or nothing changes.
func (s *DatabaseStore) ReplacePropertyTypes(categoryID uint, types []models.PropertyType) error {
	return mapErr(s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("service_category_id = ?", categoryID).Delete(&models.PropertyType{}).Error; err != nil {
			return err
		}
		for i := range types {
			types[i].ID = 0
			types[i].ServiceCategoryID = categoryID
			if err := tx.Create(&types[i]).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

func (s *DatabaseStore) ListRoomTypes(categoryID uint) ([]*models.RoomType, error) {
	var types []*models.RoomType
	if err := s.db.Where("service_category_id = ?", categoryID).Order("name asc").Find(&types).Error; err != nil {
		return nil, mapErr(err)
	}
	return types, nil
}

func (s *DatabaseStore) ReplaceRoomTypes(categoryID uint, types []models.RoomType) error {
	return mapErr(s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("service_category_id = ?", categoryID).Delete(&models.RoomType{}).Error; err != nil {
			return err
		}
		for i := range types {
			types[i].ID = 0
			types[i].ServiceCategoryID = categoryID
			if err := tx.Create(&types[i]).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

func (s *DatabaseStore) ListServicePricing(categoryID uint) ([]*models.ServicePricing, error) {
	var pricing []*models.ServicePricing
	q := s.db.Order("name asc")
	if categoryID != 0 {
		q = q.Where("service_category_id = ?", categoryID)
	}
	if err := q.Find(&pricing).Error; err != nil {
		return nil, mapErr(err)
	}
	return pricing, nil
}

func (s *DatabaseStore) GetServicePricing(id uint) (*models.ServicePricing, error) {
	var p models.ServicePricing
	if err := s.db.First(&p, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *DatabaseStore) CreateServicePricing(p *models.ServicePricing) (*models.ServicePricing, error) {
	if err := s.db.Create(p).Error; err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *DatabaseStore) UpdateServicePricing(p *models.ServicePricing) error {
	return mapErr(s.db.Save(p).Error)
}

func (s *DatabaseStore) DeleteServicePricing(id uint) error {
	res := s.db.Delete(&models.ServicePricing{}, id)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Content operations

func (s *DatabaseStore) GetContentPage(slug string) (*models.ContentPage, error) {
	var p models.ContentPage
	if err := s.db.Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (s *DatabaseStore) ListContentPages() ([]*models.ContentPage, error) {
	var pages []*models.ContentPage
	if err := s.db.Order("slug asc").Find(&pages).Error; err != nil {
		return nil, mapErr(err)
	}
	return pages, nil
}

func (s *DatabaseStore) UpsertContentPage(p *models.ContentPage) (*models.ContentPage, error) {
	var existing models.ContentPage
	err := s.db.Where("slug = ?", p.Slug).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Create(p).Error; err != nil {
			return nil, mapErr(err)
		}
		return p, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	existing.Title = p.Title
	existing.Body = p.Body
	if err := s.db.Save(&existing).Error; err != nil {
		return nil, mapErr(err)
	}
	return &existing, nil
}

func (s *DatabaseStore) ListWebsiteSettings() ([]*models.WebsiteSetting, error) {
	var settings []*models.WebsiteSetting
	if err := s.db.Order("key asc").Find(&settings).Error; err != nil {
		return nil, mapErr(err)
	}
	return settings, nil
}

func (s *DatabaseStore) UpsertWebsiteSetting(key, value string) (*models.WebsiteSetting, error) {
	var setting models.WebsiteSetting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.WebsiteSetting{Key: key, Value: value}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, mapErr(err)
		}
		return &setting, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	setting.Value = value
	if err := s.db.Save(&setting).Error; err != nil {
		return nil, mapErr(err)
	}
	return &setting, nil
}
