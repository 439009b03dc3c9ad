package services

import (
	"fmt"
	"log"
	"os"
)

// SMSProvider delivers one-time codes out of band.
type SMSProvider interface {
	SendOTP(phone, code string) error
}

// FileSMSService is a demo SMS provider that writes the last issued code to a
// local file instead of calling a gateway. It stands in for a real provider in
// development and on hosts without SMS credentials.
type FileSMSService struct {
	Path string
}

// NewFileSMSService creates a FileSMSService writing to the given path.
func NewFileSMSService(path string) *FileSMSService {
	return &FileSMSService{Path: path}
}

// SendOTP logs the code and records it in the outbox file. The file holds only
// the most recent message; each send overwrites the previous one.
func (s *FileSMSService) SendOTP(phone, code string) error {
	message := fmt.Sprintf("[DEMO SMS] Code %s for %s", code, phone)
	log.Println(message)

	if err := os.WriteFile(s.Path, []byte(message+"\n"), 0o644); err != nil {
		log.Printf("[SMS] Failed to write outbox file: %v", err)
	}
	return nil
}
