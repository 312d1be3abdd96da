package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/LumosAcademy/payment_service/internal/clients/slipcheck"
	"github.com/LumosAcademy/payment_service/internal/domain"
	"github.com/LumosAcademy/payment_service/internal/dto"
	"github.com/LumosAcademy/payment_service/internal/interfaces"
	"github.com/LumosAcademy/payment_service/internal/repository"
	"github.com/LumosAcademy/payment_service/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	slipMaxWidth   = 1200
	slipJPGQuality = 85

	proofListMaxLimit     = 100
	proofListDefaultLimit = 20
)

type ProofService interface {
	SubmitProof(ctx context.Context, userID uint, input dto.SubmitProofInput) (*dto.SubmitProofResponse, error)
	ListProofs(page, limit int, status string) (*dto.ProofListResponse, error)

	// DecideProof transitions a pending proof to approved or rejected. The
	// transition itself is the only step whose failure fails the call; the
	// entitlement grants and notifications that follow an approval are
	// best-effort and reported per step.
	DecideProof(proofID, adminID uint, status, adminNotes string) (*dto.DecisionData, error)
}

type proofService struct {
	proofs       repository.ProofRepository
	users        repository.UserRepository
	catalog      repository.CatalogRepository
	entitlements repository.EntitlementRepository
	chat         repository.ChatRepository
	notifier     NotificationService
	producer     interfaces.ProducerHandler
	uploader     interfaces.Uploader
	slipCheck    *slipcheck.Client
}

func NewProofService(
	proofs repository.ProofRepository,
	users repository.UserRepository,
	catalog repository.CatalogRepository,
	entitlements repository.EntitlementRepository,
	chat repository.ChatRepository,
	notifier NotificationService,
	producer interfaces.ProducerHandler,
	uploader interfaces.Uploader,
	slipCheck *slipcheck.Client,
) ProofService {
	return &proofService{
		proofs:       proofs,
		users:        users,
		catalog:      catalog,
		entitlements: entitlements,
		chat:         chat,
		notifier:     notifier,
		producer:     producer,
		uploader:     uploader,
		slipCheck:    slipCheck,
	}
}

func (s *proofService) SubmitProof(ctx context.Context, userID uint, input dto.SubmitProofInput) (*dto.SubmitProofResponse, error) {
	if userID == 0 {
		return nil, errors.New("invalid user_id")
	}

	itemType := domain.ItemType(strings.TrimSpace(strings.ToLower(input.ItemType)))
	switch itemType {
	case domain.ItemTypeCourse, domain.ItemTypeDocument, domain.ItemTypeBundle:
	default:
		return nil, errors.New("invalid item type")
	}

	if len(input.ItemIDs) == 0 {
		return nil, errors.New("at least one item is required")
	}
	if input.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if strings.TrimSpace(input.SlipFilename) == "" || len(input.SlipBytes) == 0 {
		return nil, errors.New("payment slip is required")
	}

	if err := s.checkItemsExist(itemType, input.ItemIDs); err != nil {
		return nil, err
	}

	slip, err := utils.NormalizeSlipImage(input.SlipBytes, slipMaxWidth, slipJPGQuality)
	if err != nil {
		return nil, fmt.Errorf("normalize slip failed: %w", err)
	}

	reference := uuid.NewString()

	slipURL, err := s.uploader.UploadBytes(ctx, "payments/slips", reference+".jpg", slip)
	if err != nil {
		return nil, fmt.Errorf("upload slip failed: %w", err)
	}

	mime := "image/jpeg"
	size := int64(len(slip))

	proof := &domain.PaymentProof{
		Reference:    reference,
		PurchaserID:  userID,
		ItemType:     itemType,
		Amount:       input.Amount,
		SlipURL:      slipURL,
		SlipFilename: input.SlipFilename,
		SlipMimeType: &mime,
		SlipSize:     &size,
		Status:       domain.ProofStatusPending,
	}
	if note := strings.TrimSpace(input.StudentNote); note != "" {
		proof.StudentNote = &note
	}
	for _, id := range input.ItemIDs {
		proof.Items = append(proof.Items, domain.ProofItem{ItemID: id})
	}

	// automated slip check is advisory; its failure must never block submission
	if s.slipCheck != nil {
		res, checkErr := s.slipCheck.VerifySlip(ctx, proof.SlipFilename, bytes.NewReader(slip), input.Amount)
		if res != nil {
			score := res.Confidence
			proof.SlipCheckScore = &score
		}
		if checkErr != nil {
			msg := checkErr.Error()
			proof.SlipCheckError = &msg
		}
	}

	if err := s.proofs.CreateProof(proof); err != nil {
		log.Printf("create payment proof error: %v", err)
		return nil, errors.New("failed to save payment proof")
	}

	return &dto.SubmitProofResponse{
		ProofID:   proof.ID,
		Reference: proof.Reference,
		Status:    string(proof.Status),
	}, nil
}

func (s *proofService) checkItemsExist(itemType domain.ItemType, ids []uint) error {
	var found int
	switch itemType {
	case domain.ItemTypeCourse:
		courses, err := s.catalog.FindCoursesByIDs(ids)
		if err != nil {
			return err
		}
		found = len(courses)
	case domain.ItemTypeDocument:
		docs, err := s.catalog.FindDocumentsByIDs(ids)
		if err != nil {
			return err
		}
		found = len(docs)
	case domain.ItemTypeBundle:
		bundles, err := s.catalog.FindBundlesByIDs(ids)
		if err != nil {
			return err
		}
		found = len(bundles)
	}
	if found != len(ids) {
		return errors.New("one or more items do not exist")
	}
	return nil
}

func (s *proofService) ListProofs(page, limit int, status string) (*dto.ProofListResponse, error) {
	if page < 1 {
		return nil, errors.New("page must be >= 1")
	}
	if limit < 1 {
		limit = proofListDefaultLimit
	}
	if limit > proofListMaxLimit {
		limit = proofListMaxLimit
	}

	var filter domain.ProofStatus
	switch strings.TrimSpace(strings.ToLower(status)) {
	case "", "all":
		filter = ""
	case string(domain.ProofStatusPending):
		filter = domain.ProofStatusPending
	case string(domain.ProofStatusApproved):
		filter = domain.ProofStatusApproved
	case string(domain.ProofStatusRejected):
		filter = domain.ProofStatusRejected
	default:
		return nil, errors.New("invalid status filter")
	}

	proofs, total, err := s.proofs.List(filter, limit, (page-1)*limit)
	if err != nil {
		log.Printf("list payment proofs error: %v", err)
		return nil, errors.New("failed to list payment proofs")
	}

	out := make([]dto.ProofListItem, 0, len(proofs))
	for _, p := range proofs {
		item := dto.ProofListItem{
			ProofID:     p.ID,
			Reference:   p.Reference,
			ItemType:    string(p.ItemType),
			Items:       s.itemSummaries(&p),
			Amount:      p.Amount,
			SlipURL:     p.SlipURL,
			StudentNote: p.StudentNote,
			Status:      string(p.Status),
			AdminNotes:  p.AdminNotes,
			SubmittedAt: p.CreatedAt,
			ReviewedAt:  p.ReviewedAt,
		}
		if p.Purchaser != nil {
			item.Purchaser = userSummary(p.Purchaser)
		}
		if p.Reviewer != nil {
			rs := userSummary(p.Reviewer)
			item.Reviewer = &rs
		}
		out = append(out, item)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &dto.ProofListResponse{
		Proofs: out,
		Pagination: dto.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// itemSummaries resolves the purchased items of one proof; a lookup failure
// degrades that proof's list to empty instead of failing the whole page.
func (s *proofService) itemSummaries(p *domain.PaymentProof) []dto.ItemSummary {
	ids := p.ItemIDs()
	summaries := make([]dto.ItemSummary, 0, len(ids))

	switch p.ItemType {
	case domain.ItemTypeCourse:
		courses, err := s.catalog.FindCoursesByIDs(ids)
		if err != nil {
			log.Printf("resolve course summaries for proof %d error: %v", p.ID, err)
			return summaries
		}
		for _, c := range courses {
			summaries = append(summaries, dto.ItemSummary{ID: c.ID, Title: c.Title, Price: c.Price, ThumbnailURL: c.ThumbnailURL})
		}
	case domain.ItemTypeDocument:
		docs, err := s.catalog.FindDocumentsByIDs(ids)
		if err != nil {
			log.Printf("resolve document summaries for proof %d error: %v", p.ID, err)
			return summaries
		}
		for _, d := range docs {
			summaries = append(summaries, dto.ItemSummary{ID: d.ID, Title: d.Title, Price: d.Price, ThumbnailURL: d.ThumbnailURL})
		}
	case domain.ItemTypeBundle:
		bundles, err := s.catalog.FindBundlesByIDs(ids)
		if err != nil {
			log.Printf("resolve bundle summaries for proof %d error: %v", p.ID, err)
			return summaries
		}
		for _, b := range bundles {
			summaries = append(summaries, dto.ItemSummary{ID: b.ID, Title: b.Title, Price: b.Price, ThumbnailURL: b.ThumbnailURL})
		}
	}
	return summaries
}

func (s *proofService) DecideProof(proofID, adminID uint, status, adminNotes string) (*dto.DecisionData, error) {
	target := domain.ProofStatus(strings.TrimSpace(strings.ToLower(status)))
	if target != domain.ProofStatusApproved && target != domain.ProofStatusRejected {
		return nil, errors.New("status must be approved or rejected")
	}

	notes := strings.TrimSpace(adminNotes)
	if target == domain.ProofStatusRejected && notes == "" {
		return nil, errors.New("admin notes are required to reject a payment proof")
	}

	proof, err := s.proofs.FindByID(proofID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("payment proof not found")
		}
		log.Printf("load payment proof %d error: %v", proofID, err)
		return nil, errors.New("failed to load payment proof")
	}
	if proof.Status != domain.ProofStatusPending {
		return nil, errors.New("payment proof has already been reviewed")
	}

	now := time.Now()

	// the one authoritative write: pending -> approved|rejected, exactly once
	if target == domain.ProofStatusApproved {
		err = s.proofs.Approve(proofID, adminID, notes, now)
	} else {
		err = s.proofs.Reject(proofID, adminID, notes, now)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, errors.New("payment proof has already been reviewed")
		}
		log.Printf("decide payment proof %d error: %v", proofID, err)
		return nil, errors.New("failed to update payment proof")
	}

	var steps []dto.StepOutcome

	if target == domain.ProofStatusApproved {
		steps = s.grantEntitlements(proof)
	}

	titles, titleStep := s.resolveItemTitles(proof)
	steps = append(steps, titleStep)

	steps = append(steps, s.sendDecisionEmail(proof, target, titles, notes))
	steps = append(steps, s.publishDecision(proof, target, now))

	return &dto.DecisionData{
		ProofID:    proof.ID,
		Status:     string(target),
		ReviewedAt: now,
		Steps:      steps,
	}, nil
}

// grantEntitlements runs the per-item grants after an approval. A failed item
// is logged and recorded but never stops the remaining items.
func (s *proofService) grantEntitlements(proof *domain.PaymentProof) []dto.StepOutcome {
	var steps []dto.StepOutcome

	var courseByID map[uint]domain.Course
	if proof.ItemType == domain.ItemTypeCourse {
		courses, err := s.catalog.FindCoursesByIDs(proof.ItemIDs())
		if err != nil {
			log.Printf("load courses for proof %d error: %v", proof.ID, err)
		}
		courseByID = make(map[uint]domain.Course, len(courses))
		for _, c := range courses {
			courseByID[c.ID] = c
		}
	}

	for _, itemID := range proof.ItemIDs() {
		switch proof.ItemType {
		case domain.ItemTypeCourse:
			steps = append(steps, s.grantCourse(proof, itemID, courseByID)...)
		case domain.ItemTypeDocument:
			steps = append(steps, s.grantStep(
				fmt.Sprintf("grant_document_%d", itemID),
				s.entitlements.AddDocumentPurchase(proof.PurchaserID, itemID),
			))
		case domain.ItemTypeBundle:
			steps = append(steps, s.grantStep(
				fmt.Sprintf("grant_bundle_%d", itemID),
				s.entitlements.AddBundlePurchase(proof.PurchaserID, itemID),
			))
		}
	}
	return steps
}

func (s *proofService) grantCourse(proof *domain.PaymentProof, courseID uint, courseByID map[uint]domain.Course) []dto.StepOutcome {
	var steps []dto.StepOutcome

	enroll := s.grantStep(
		fmt.Sprintf("enroll_course_%d", courseID),
		s.entitlements.AddEnrollment(proof.PurchaserID, courseID),
	)
	steps = append(steps, enroll)
	if enroll.Status == dto.StepFailed {
		// no membership or room without the enrollment itself
		return steps
	}

	steps = append(steps, s.grantStep(
		fmt.Sprintf("group_chat_course_%d", courseID),
		s.chat.AddGroupMember(courseID, proof.PurchaserID),
	))

	course, ok := courseByID[courseID]
	if !ok || course.CourseType != domain.CourseTypeRegular {
		return steps
	}

	_, err := s.chat.GetOrCreateRoom(courseID, proof.PurchaserID, course.InstructorID)
	steps = append(steps, s.grantStep(fmt.Sprintf("private_room_course_%d", courseID), err))
	return steps
}

func (s *proofService) grantStep(name string, err error) dto.StepOutcome {
	if err != nil {
		log.Printf("proof side effect %s error: %v", name, err)
		return dto.StepOutcome{Name: name, Status: dto.StepFailed, Error: err.Error()}
	}
	return dto.StepOutcome{Name: name, Status: dto.StepOK}
}

func (s *proofService) resolveItemTitles(proof *domain.PaymentProof) ([]string, dto.StepOutcome) {
	summaries := s.itemSummaries(proof)
	if len(summaries) == 0 && len(proof.Items) > 0 {
		return nil, dto.StepOutcome{Name: "resolve_item_titles", Status: dto.StepFailed, Error: "item lookup failed"}
	}
	titles := make([]string, 0, len(summaries))
	for _, it := range summaries {
		titles = append(titles, it.Title)
	}
	return titles, dto.StepOutcome{Name: "resolve_item_titles", Status: dto.StepOK}
}

func (s *proofService) sendDecisionEmail(proof *domain.PaymentProof, target domain.ProofStatus, titles []string, notes string) dto.StepOutcome {
	if proof.Purchaser == nil {
		return dto.StepOutcome{Name: "send_email", Status: dto.StepSkipped, Error: "purchaser account missing"}
	}

	var err error
	if target == domain.ProofStatusApproved {
		err = s.notifier.SendProofApproved(proof.Purchaser.Email, proof.Purchaser.DisplayName, proof.ItemType, titles, proof.Amount, notes)
	} else {
		err = s.notifier.SendProofRejected(proof.Purchaser.Email, proof.Purchaser.DisplayName, proof.ItemType, titles, proof.Amount, notes)
	}
	if err != nil {
		log.Printf("send decision email for proof %d error: %v", proof.ID, err)
		return dto.StepOutcome{Name: "send_email", Status: dto.StepFailed, Error: err.Error()}
	}
	return dto.StepOutcome{Name: "send_email", Status: dto.StepOK}
}

func (s *proofService) publishDecision(proof *domain.PaymentProof, target domain.ProofStatus, at time.Time) dto.StepOutcome {
	if s.producer == nil {
		return dto.StepOutcome{Name: "publish_event", Status: dto.StepSkipped}
	}

	payload, err := json.Marshal(dto.ProofDecidedEvent{
		ProofID:     proof.ID,
		Reference:   proof.Reference,
		PurchaserID: proof.PurchaserID,
		ItemType:    string(proof.ItemType),
		Status:      string(target),
		DecidedAt:   at.Format(time.RFC3339),
	})
	if err == nil {
		err = s.producer.PublishMessage([]byte("payment.proof_decided"), payload)
	}
	if err != nil {
		log.Printf("publish proof decision event for proof %d error: %v", proof.ID, err)
		return dto.StepOutcome{Name: "publish_event", Status: dto.StepFailed, Error: err.Error()}
	}
	return dto.StepOutcome{Name: "publish_event", Status: dto.StepOK}
}

func userSummary(u *domain.User) dto.UserSummary {
	return dto.UserSummary{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
	}
}
