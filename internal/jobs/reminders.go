package jobs

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Kallolx/appointment-backend/internal/models"
	"github.com/Kallolx/appointment-backend/internal/storage"
)

// ReminderSender delivers a reminder message to a phone number.
type ReminderSender interface {
	SendWhatsAppMessage(to string, message string) (string, error)
}

// ReminderJob sends WhatsApp reminders for tomorrow's appointments every
// evening at 6 PM local time.
type ReminderJob struct {
	store  storage.Store
	sender ReminderSender
	stop   chan struct{}
	once   sync.Once
}

// NewReminderJob creates a new reminder job scheduler
func NewReminderJob(store storage.Store, sender ReminderSender) *ReminderJob {
	return &ReminderJob{
		store:  store,
		sender: sender,
		stop:   make(chan struct{}),
	}
}

// Start begins the daily reminder loop.
func (r *ReminderJob) Start() {
	log.Println("Starting appointment reminder job...")
	go r.run()
}

// Stop halts the reminder loop, interrupting any pending wait.
func (r *ReminderJob) Stop() {
	r.once.Do(func() {
		log.Println("Stopping appointment reminder job...")
		close(r.stop)
	})
}

func (r *ReminderJob) run() {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		duration := time.Until(nextRunAt(time.Now()))
		log.Printf("Next appointment reminders scheduled in %v", duration)
		timer.Reset(duration)

		select {
		case <-timer.C:
			r.sendReminders()
		case <-r.stop:
			return
		}
	}
}

// nextRunAt returns the next 6 PM after now in now's location.
func nextRunAt(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// sendReminders notifies every user with a pending or confirmed appointment
// tomorrow. Delivery failures are logged per appointment and never abort the
// run.
func (r *ReminderJob) sendReminders() {
	tomorrow := time.Now().Add(24 * time.Hour).Format("2006-01-02")
	log.Printf("Sending reminders for appointments on %s...", tomorrow)

	appointments, err := r.store.GetAppointmentsOnDate(tomorrow, []string{
		models.AppointmentStatusPending,
		models.AppointmentStatusConfirmed,
	})
	if err != nil {
		log.Printf("Error getting appointments for reminders: %v", err)
		return
	}

	sent := 0
	for _, appointment := range appointments {
		user, err := r.store.GetUser(appointment.UserID)
		if err != nil {
			log.Printf("Skipping reminder for appointment %d: %v", appointment.ID, err)
			continue
		}

		message := fmt.Sprintf(
			"Reminder: your %s appointment is tomorrow (%s) at %s. Reply to this message if you need to reschedule.",
			appointment.Service, appointment.AppointmentDate, appointment.AppointmentTime)

		if _, err := r.sender.SendWhatsAppMessage(user.Phone, message); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		sent++
	}

	log.Printf("Appointment reminders sent: %d/%d", sent, len(appointments))
}
