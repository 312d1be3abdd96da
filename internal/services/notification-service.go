package services

import (
	"github.com/LumosAcademy/payment_service/internal/domain"
	"github.com/LumosAcademy/payment_service/internal/interfaces"
	"github.com/LumosAcademy/payment_service/internal/services/emailtmpl"
)

// NotificationService renders and sends the decision emails. It does not
// retry; the sender's error is returned unchanged and the caller decides
// whether it matters.
type NotificationService interface {
	SendProofApproved(to, name string, itemType domain.ItemType, itemNames []string, amount float64, adminNotes string) error
	SendProofRejected(to, name string, itemType domain.ItemType, itemNames []string, amount float64, reason string) error
	SendResumeApproved(to, name, targetRole string, price float64, adminNotes string) error
	SendResumeRejected(to, name, reason string) error
	SendResumeDelivered(to, name, resumeURL string) error
}

type notificationService struct {
	mailer  interfaces.Mailer
	baseURL string
}

func NewNotificationService(mailer interfaces.Mailer, siteBaseURL string) NotificationService {
	return &notificationService{
		mailer:  mailer,
		baseURL: siteBaseURL,
	}
}

func (n *notificationService) SendProofApproved(to, name string, itemType domain.ItemType, itemNames []string, amount float64, adminNotes string) error {
	html, err := emailtmpl.PaymentApprovedHTML(emailtmpl.PaymentApprovedData{
		Name:          name,
		ItemTypeLabel: itemTypeLabel(itemType, len(itemNames)),
		ItemNames:     itemNames,
		Amount:        amount,
		AdminNotes:    adminNotes,
		AccessURL:     n.baseURL + accessPath(itemType),
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(to, "Your payment has been approved", html)
}

func (n *notificationService) SendProofRejected(to, name string, itemType domain.ItemType, itemNames []string, amount float64, reason string) error {
	html, err := emailtmpl.PaymentRejectedHTML(emailtmpl.PaymentRejectedData{
		Name:          name,
		ItemTypeLabel: itemTypeLabel(itemType, len(itemNames)),
		ItemNames:     itemNames,
		Amount:        amount,
		Reason:        reason,
		ResubmitURL:   n.baseURL + "/payment/resubmit",
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(to, "Your payment was rejected", html)
}

func (n *notificationService) SendResumeApproved(to, name, targetRole string, price float64, adminNotes string) error {
	html, err := emailtmpl.ResumeApprovedHTML(emailtmpl.ResumeApprovedData{
		Name:       name,
		TargetRole: targetRole,
		Price:      price,
		AdminNotes: adminNotes,
		ChatURL:    n.baseURL + "/chat",
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(to, "Resume service payment approved", html)
}

func (n *notificationService) SendResumeRejected(to, name, reason string) error {
	html, err := emailtmpl.ResumeRejectedHTML(emailtmpl.ResumeRejectedData{
		Name:        name,
		Reason:      reason,
		ResubmitURL: n.baseURL + "/resume-service",
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(to, "Resume service payment rejected", html)
}

func (n *notificationService) SendResumeDelivered(to, name, resumeURL string) error {
	html, err := emailtmpl.ResumeDeliveredHTML(emailtmpl.ResumeDeliveredData{
		Name:      name,
		ResumeURL: resumeURL,
	})
	if err != nil {
		return err
	}
	return n.mailer.Send(to, "Your resume is ready", html)
}

func itemTypeLabel(t domain.ItemType, count int) string {
	switch t {
	case domain.ItemTypeCourse:
		if count == 1 {
			return "course"
		}
		return "courses"
	case domain.ItemTypeDocument:
		if count == 1 {
			return "document"
		}
		return "documents"
	case domain.ItemTypeBundle:
		if count == 1 {
			return "bundle"
		}
		return "bundles"
	default:
		return "items"
	}
}

func accessPath(t domain.ItemType) string {
	switch t {
	case domain.ItemTypeCourse:
		return "/my-courses"
	case domain.ItemTypeDocument:
		return "/my-documents"
	case domain.ItemTypeBundle:
		return "/my-bundles"
	default:
		return "/"
	}
}
