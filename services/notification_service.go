// services/notification_service.go
package services

import (
	"log"
	"os"
	"strings"
	"time"

	"weddingops-backend/models"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// NotificationService persists every dispatch attempt and pushes the message
// out via Twilio when the recipient has a phone number. Dispatch is
// best-effort: failures are logged, never returned to the state machine that
// triggered them.
type NotificationService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotificationService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

type NotificationInput struct {
	Message       string
	Type          string
	RecipientID   uuid.UUID
	RecipientRole string
}

// Send records the notification and attempts delivery. It never fails the
// caller.
func (s *NotificationService) Send(input NotificationInput) {
	notification := models.Notification{
		RecipientID:   input.RecipientID,
		RecipientRole: input.RecipientRole,
		Type:          input.Type,
		Message:       input.Message,
		Status:        "sent",
		Channel:       "none",
		SentAt:        time.Now(),
	}

	var recipient models.User
	if err := s.db.First(&recipient, "id = ?", input.RecipientID).Error; err != nil {
		log.Printf("Notification: recipient %s not found: %v", input.RecipientID, err)
		notification.Status = "failed"
		notification.ErrorMessage = err.Error()
	} else if recipient.Phone != "" {
		channel, errMsg := s.deliver(recipient.Phone, input.Message)
		notification.Channel = channel
		if errMsg != "" {
			notification.Status = "failed"
			notification.ErrorMessage = errMsg
		}
	}

	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("Notification: failed to log notification for %s: %v", input.RecipientID, err)
	}
}

// NotifyAdmins fans the message out to every active admin account. Admins are
// queried at call time; there is no cached admin list.
func (s *NotificationService) NotifyAdmins(message, notificationType string) {
	var admins []models.User
	if err := s.db.Where("role = ? AND is_active = ?", models.RoleAdmin, true).
		Find(&admins).Error; err != nil {
		log.Printf("Notification: failed to fetch admins: %v", err)
		return
	}

	for _, admin := range admins {
		s.Send(NotificationInput{
			Message:       message,
			Type:          notificationType,
			RecipientID:   admin.ID,
			RecipientRole: models.RoleAdmin,
		})
	}
}

// NotifyLeadOwner sends to the staff user owning the lead, if any.
func (s *NotificationService) NotifyLeadOwner(lead models.Lead, message, notificationType string) {
	if lead.CreatedByUserID == nil {
		return
	}
	s.Send(NotificationInput{
		Message:       message,
		Type:          notificationType,
		RecipientID:   *lead.CreatedByUserID,
		RecipientRole: models.RoleStaff,
	})
}

func (s *NotificationService) deliver(phone, message string) (channel, errMsg string) {
	// WhatsApp for E.164 numbers, plain SMS otherwise.
	channel = "sms"
	to := phone
	if strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Notification: failed to send message to %s: %v", phone, err)
		return channel, err.Error()
	}
	if resp.Sid != nil {
		log.Printf("Notification: message sent to %s, SID: %s", phone, *resp.Sid)
	} else {
		log.Printf("Notification: message sent to %s, but no SID returned", phone)
	}
	return channel, ""
}
