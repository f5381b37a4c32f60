package email

import (
	"fmt"
	"log"
)

// SendMatchDigest emails a user the characters who joined since the last
// digest run.
func (s *EmailService) SendMatchDigest(userEmail string, newNames []string) error {
	if len(newNames) == 0 {
		return nil
	}

	subject := fmt.Sprintf("💘 %d new singles on Cupid", len(newNames))
	htmlBody := MatchDigestTemplate(newNames)

	if err := s.SendEmail(userEmail, subject, htmlBody); err != nil {
		log.Printf("❌ Failed to send match digest: %v", err)
		return err
	}

	log.Printf("📧 Match digest sent to: %s", userEmail)
	return nil
}
