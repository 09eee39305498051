package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/mkamau56/tutorhub/database"
	"github.com/mkamau56/tutorhub/models"
	"github.com/mkamau56/tutorhub/notifications"
)

// SendSessionReminders emails both parties of sessions starting in
// about an hour. The window matches the cron cadence so each session
// is picked up once.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcoming []models.Session
	err := database.DB.
		Preload("Student").
		Preload("Tutor").
		Preload("Subject").
		Where("status = ? AND date_time BETWEEN ? AND ?", models.SessionScheduled, lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}

	for _, session := range upcoming {
		emailSubject := "Reminder: Your Session Starts in 1 Hour!"

		link := ""
		if session.MeetingLink != nil {
			link = fmt.Sprintf("<p><b>Meeting Link:</b> <a href='%s'>Join Session</a></p>", *session.MeetingLink)
		}
		emailBody := fmt.Sprintf(
			"<h1>Session Reminder</h1><p>Hi there,</p><p>This is a friendly reminder that your %s session is scheduled to start in one hour at %s.</p>%s",
			session.Subject.Name,
			session.DateTime.Format(time.Kitchen),
			link,
		)

		go notifications.SendEmail(session.Student.DisplayName(), session.Student.Email, emailSubject, emailBody)
		go notifications.SendEmail(session.Tutor.DisplayName(), session.Tutor.Email, emailSubject, emailBody)
	}
}
