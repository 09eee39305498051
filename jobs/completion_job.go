package jobs

import (
	"log"
	"time"

	"github.com/mkamau56/tutorhub/database"
	"github.com/mkamau56/tutorhub/models"
)

// CompleteElapsedSessions sweeps scheduled sessions whose start time
// passed more than an hour ago and marks them completed.
func CompleteElapsedSessions() {
	log.Println("Running job: CompleteElapsedSessions...")

	cutoff := time.Now().Add(-1 * time.Hour)

	var elapsed []models.Session
	err := database.DB.
		Where("status = ? AND date_time < ?", models.SessionScheduled, cutoff).
		Find(&elapsed).Error
	if err != nil {
		log.Printf("Error checking for elapsed sessions: %v", err)
		return
	}

	if len(elapsed) == 0 {
		return
	}

	completed := 0
	for i := range elapsed {
		session := &elapsed[i]
		if err := session.Complete(time.Now()); err != nil {
			log.Printf("Skipping session %s: %v", session.ID, err)
			continue
		}
		if err := database.DB.Save(session).Error; err != nil {
			log.Printf("Failed to save session %s: %v", session.ID, err)
			continue
		}
		completed++
	}

	log.Printf("Marked %d session(s) as completed.", completed)
}
