package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// ListingNotification contains listing data for Telegram notification.
type ListingNotification struct {
	ID          uint
	Title       string
	Price       float64
	SellerName  string
	SellerPhone string
	Brand       string
	Category    string
}

// FormatPrice formats price with thousand separators.
func FormatPrice(amount float64) string {
	intAmount := int64(amount)
	str := fmt.Sprintf("%d", intAmount)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// NotifyNewListing sends notification about a new listing to the admin chat.
func (s *TelegramService) NotifyNewListing(listing ListingNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	brand := listing.Brand
	if brand == "" {
		brand = "—"
	}
	category := listing.Category
	if category == "" {
		category = "—"
	}

	message := fmt.Sprintf(`<b>🆕 NEW LISTING #%d</b>
<b>📦 Title:</b> %s
<b>💰 Price:</b> %s
<b>🏷 Brand:</b> %s / %s
<b>👤 Seller:</b> %s
<b>📞 Phone:</b> %s`,
		listing.ID,
		listing.Title,
		FormatPrice(listing.Price),
		brand,
		category,
		listing.SellerName,
		listing.SellerPhone,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
