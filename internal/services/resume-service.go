package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/LumosAcademy/payment_service/internal/domain"
	"github.com/LumosAcademy/payment_service/internal/dto"
	"github.com/LumosAcademy/payment_service/internal/interfaces"
	"github.com/LumosAcademy/payment_service/internal/repository"
	"gorm.io/gorm"
)

type ResumeService interface {
	ApprovePayment(requestID, adminID uint, adminNotes string) (*dto.ResumeDecisionData, error)
	RejectPayment(requestID, adminID uint, adminNotes string) (*dto.ResumeDecisionData, error)
	Deliver(requestID uint, resumeURL string) (*dto.ResumeDecisionData, error)
}

type resumeService struct {
	requests        repository.ResumeRepository
	users           repository.UserRepository
	catalog         repository.CatalogRepository
	chat            repository.ChatRepository
	notifier        NotificationService
	producer        interfaces.ProducerHandler
	instructorEmail string
}

func NewResumeService(
	requests repository.ResumeRepository,
	users repository.UserRepository,
	catalog repository.CatalogRepository,
	chat repository.ChatRepository,
	notifier NotificationService,
	producer interfaces.ProducerHandler,
	instructorEmail string,
) ResumeService {
	return &resumeService{
		requests:        requests,
		users:           users,
		catalog:         catalog,
		chat:            chat,
		notifier:        notifier,
		producer:        producer,
		instructorEmail: instructorEmail,
	}
}

func (s *resumeService) ApprovePayment(requestID, adminID uint, adminNotes string) (*dto.ResumeDecisionData, error) {
	req, err := s.loadPending(requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	notes := strings.TrimSpace(adminNotes)

	if err := s.requests.ApprovePayment(requestID, adminID, notes, now); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, errors.New("resume request has already been reviewed")
		}
		log.Printf("approve resume payment %d error: %v", requestID, err)
		return nil, errors.New("failed to update resume request")
	}

	data := &dto.ResumeDecisionData{
		RequestID:     req.ID,
		PaymentStatus: string(domain.ResumePaymentPaid),
		Status:        string(domain.ResumeStatusInProgress),
	}

	requester := s.resolveRequester(req, data)
	if requester != nil {
		s.openServiceChannel(req, requester, data)
	} else {
		data.Warning = "no account matched the requester email; chat channel was not opened"
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "open_chat_channel", Status: dto.StepSkipped, Error: "requester has no account"})
	}

	if err := s.notifier.SendResumeApproved(req.Email, req.FullName, req.TargetRole, req.Price, notes); err != nil {
		log.Printf("send resume approval email for request %d error: %v", req.ID, err)
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "send_email", Status: dto.StepFailed, Error: err.Error()})
	} else {
		data.EmailSent = true
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "send_email", Status: dto.StepOK})
	}

	data.Steps = append(data.Steps, s.publishResumeEvent(req, domain.ResumePaymentPaid, domain.ResumeStatusInProgress, now))
	return data, nil
}

func (s *resumeService) RejectPayment(requestID, adminID uint, adminNotes string) (*dto.ResumeDecisionData, error) {
	notes := strings.TrimSpace(adminNotes)
	if notes == "" {
		return nil, errors.New("admin notes are required to reject a resume request")
	}

	req, err := s.loadPending(requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	if err := s.requests.RejectPayment(requestID, adminID, notes, now); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, errors.New("resume request has already been reviewed")
		}
		log.Printf("reject resume payment %d error: %v", requestID, err)
		return nil, errors.New("failed to update resume request")
	}

	data := &dto.ResumeDecisionData{
		RequestID:     req.ID,
		PaymentStatus: string(domain.ResumePaymentRejected),
		Status:        string(domain.ResumeStatusRejected),
	}

	if err := s.notifier.SendResumeRejected(req.Email, req.FullName, notes); err != nil {
		log.Printf("send resume rejection email for request %d error: %v", req.ID, err)
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "send_email", Status: dto.StepFailed, Error: err.Error()})
	} else {
		data.EmailSent = true
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "send_email", Status: dto.StepOK})
	}

	data.Steps = append(data.Steps, s.publishResumeEvent(req, domain.ResumePaymentRejected, domain.ResumeStatusRejected, now))
	return data, nil
}

func (s *resumeService) Deliver(requestID uint, resumeURL string) (*dto.ResumeDecisionData, error) {
	url := strings.TrimSpace(resumeURL)
	if url == "" {
		return nil, errors.New("resume URL is required")
	}

	req, err := s.requests.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("resume request not found")
		}
		log.Printf("load resume request %d error: %v", requestID, err)
		return nil, errors.New("failed to load resume request")
	}
	if req.Status != domain.ResumeStatusInProgress {
		return nil, errors.New("resume request is not in progress")
	}

	now := time.Now()
	if err := s.requests.Deliver(requestID, url, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("resume request is not in progress")
		}
		log.Printf("deliver resume for request %d error: %v", requestID, err)
		return nil, errors.New("failed to update resume request")
	}

	data := &dto.ResumeDecisionData{
		RequestID:     req.ID,
		PaymentStatus: string(req.PaymentStatus),
		Status:        string(domain.ResumeStatusCompleted),
	}

	if err := s.notifier.SendResumeDelivered(req.Email, req.FullName, url); err != nil {
		log.Printf("send resume delivery email for request %d error: %v", req.ID, err)
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "send_email", Status: dto.StepFailed, Error: err.Error()})
	} else {
		data.EmailSent = true
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "send_email", Status: dto.StepOK})
	}

	return data, nil
}

func (s *resumeService) loadPending(requestID uint) (*domain.ResumeRequest, error) {
	req, err := s.requests.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("resume request not found")
		}
		log.Printf("load resume request %d error: %v", requestID, err)
		return nil, errors.New("failed to load resume request")
	}
	if req.PaymentStatus != domain.ResumePaymentPending {
		return nil, errors.New("resume request has already been reviewed")
	}
	return req, nil
}

// resolveRequester matches the public request to a registered account, first
// by the stored link, then by email. A match found by email is written back so
// later lookups are direct.
func (s *resumeService) resolveRequester(req *domain.ResumeRequest, data *dto.ResumeDecisionData) *domain.User {
	if req.UserID != nil {
		user, err := s.users.FindUserById(*req.UserID)
		if err == nil {
			return user
		}
		log.Printf("load linked account %d for resume request %d error: %v", *req.UserID, req.ID, err)
	}

	user, err := s.users.FindUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("match requester email for resume request %d error: %v", req.ID, err)
		}
		return nil
	}

	if err := s.requests.SetUserID(req.ID, user.ID); err != nil {
		log.Printf("link account %d to resume request %d error: %v", user.ID, req.ID, err)
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "link_account", Status: dto.StepFailed, Error: err.Error()})
	} else {
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "link_account", Status: dto.StepOK})
	}
	return user
}

// openServiceChannel puts the requester and the resume instructor in a private
// room under the hidden service course.
func (s *resumeService) openServiceChannel(req *domain.ResumeRequest, requester *domain.User, data *dto.ResumeDecisionData) {
	instructor := s.findInstructor()
	if instructor == nil {
		log.Printf("no resume instructor available for request %d", req.ID)
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "open_chat_channel", Status: dto.StepSkipped, Error: "no instructor account available"})
		return
	}

	course, err := s.catalog.EnsureServiceCourse(instructor.ID)
	if err != nil {
		log.Printf("ensure service course for resume request %d error: %v", req.ID, err)
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "open_chat_channel", Status: dto.StepFailed, Error: err.Error()})
		return
	}

	if _, err := s.chat.GetOrCreateRoom(course.ID, requester.ID, instructor.ID); err != nil {
		log.Printf("open chat channel for resume request %d error: %v", req.ID, err)
		data.Steps = append(data.Steps, dto.StepOutcome{Name: "open_chat_channel", Status: dto.StepFailed, Error: err.Error()})
		return
	}
	data.Steps = append(data.Steps, dto.StepOutcome{Name: "open_chat_channel", Status: dto.StepOK})
}

func (s *resumeService) findInstructor() *domain.User {
	if s.instructorEmail != "" {
		user, err := s.users.FindUserByEmail(s.instructorEmail)
		if err == nil {
			return user
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("load resume instructor %s error: %v", s.instructorEmail, err)
		}
	}

	admin, err := s.users.FirstAdmin()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("load fallback admin error: %v", err)
		}
		return nil
	}
	return admin
}

func (s *resumeService) publishResumeEvent(req *domain.ResumeRequest, payment domain.ResumePaymentStatus, status domain.ResumeStatus, at time.Time) dto.StepOutcome {
	if s.producer == nil {
		return dto.StepOutcome{Name: "publish_event", Status: dto.StepSkipped}
	}

	payload, err := json.Marshal(dto.ResumePaymentEvent{
		RequestID:     req.ID,
		Email:         req.Email,
		PaymentStatus: string(payment),
		Status:        string(status),
		DecidedAt:     at.Format(time.RFC3339),
	})
	if err == nil {
		err = s.producer.PublishMessage([]byte("resume.payment_decided"), payload)
	}
	if err != nil {
		log.Printf("publish resume payment event for request %d error: %v", req.ID, err)
		return dto.StepOutcome{Name: "publish_event", Status: dto.StepFailed, Error: err.Error()}
	}
	return dto.StepOutcome{Name: "publish_event", Status: dto.StepOK}
}
