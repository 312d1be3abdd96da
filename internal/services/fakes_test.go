package services

import (
	"context"
	"errors"
	"time"

	"github.com/LumosAcademy/payment_service/internal/domain"
	"github.com/LumosAcademy/payment_service/internal/repository"
	"gorm.io/gorm"
)

var errDBDown = errors.New("db down")

// --- proof repository -------------------------------------------------------

type fakeProofRepo struct {
	proofs map[uint]*domain.PaymentProof
	nextID uint
}

func newFakeProofRepo() *fakeProofRepo {
	return &fakeProofRepo{proofs: map[uint]*domain.PaymentProof{}, nextID: 1}
}

func (r *fakeProofRepo) CreateProof(p *domain.PaymentProof) error {
	p.ID = r.nextID
	r.nextID++
	if p.Status == "" {
		p.Status = domain.ProofStatusPending
	}
	p.CreatedAt = time.Now()
	r.proofs[p.ID] = p
	return nil
}

func (r *fakeProofRepo) FindByID(id uint) (*domain.PaymentProof, error) {
	p, ok := r.proofs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProofRepo) List(status domain.ProofStatus, limit, offset int) ([]domain.PaymentProof, int64, error) {
	var all []domain.PaymentProof
	for _, p := range r.proofs {
		if status != "" && p.Status != status {
			continue
		}
		all = append(all, *p)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeProofRepo) Approve(id, adminID uint, notes string, at time.Time) error {
	return r.decide(id, domain.ProofStatusApproved, adminID, notes, at)
}

func (r *fakeProofRepo) Reject(id, adminID uint, notes string, at time.Time) error {
	return r.decide(id, domain.ProofStatusRejected, adminID, notes, at)
}

func (r *fakeProofRepo) decide(id uint, to domain.ProofStatus, adminID uint, notes string, at time.Time) error {
	p, ok := r.proofs[id]
	if !ok || p.Status != domain.ProofStatusPending {
		return repository.ErrNotPending
	}
	p.Status = to
	p.AdminNotes = &notes
	p.ReviewedBy = &adminID
	p.ReviewedAt = &at
	return nil
}

// --- user repository --------------------------------------------------------

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) add(u domain.User) *domain.User {
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	} else if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = &u
	return &u
}

func (r *fakeUserRepo) CreateUser(u *domain.User) (*domain.User, error) {
	return r.add(*u), nil
}

func (r *fakeUserRepo) FindUserById(id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) SaveUser(u *domain.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FirstAdmin() (*domain.User, error) {
	var first *domain.User
	for _, u := range r.users {
		if u.Role != domain.RoleAdmin {
			continue
		}
		if first == nil || u.ID < first.ID {
			first = u
		}
	}
	if first == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return first, nil
}

// --- catalog repository -----------------------------------------------------

type fakeCatalogRepo struct {
	courses   map[uint]domain.Course
	documents map[uint]domain.Document
	bundles   map[uint]domain.Bundle

	serviceCourse *domain.Course
	lookupErr     error
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		courses:   map[uint]domain.Course{},
		documents: map[uint]domain.Document{},
		bundles:   map[uint]domain.Bundle{},
	}
}

func (r *fakeCatalogRepo) FindCoursesByIDs(ids []uint) ([]domain.Course, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	var out []domain.Course
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) FindDocumentsByIDs(ids []uint) ([]domain.Document, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	var out []domain.Document
	for _, id := range ids {
		if d, ok := r.documents[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) FindBundlesByIDs(ids []uint) ([]domain.Bundle, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	var out []domain.Bundle
	for _, id := range ids {
		if b, ok := r.bundles[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) EnsureServiceCourse(instructorID uint) (*domain.Course, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	if r.serviceCourse == nil {
		r.serviceCourse = &domain.Course{
			ID:           9000,
			Title:        "Resume Writing Service",
			CourseType:   domain.CourseTypeSpecial,
			InstructorID: instructorID,
			IsService:    true,
		}
	}
	return r.serviceCourse, nil
}

// --- entitlement repository -------------------------------------------------

type grantKey struct{ userID, itemID uint }

type fakeEntitlementRepo struct {
	enrollments map[grantKey]int
	documents   map[grantKey]int
	bundles     map[grantKey]int

	failEnrollFor uint // course id whose enrollment should fail
}

func newFakeEntitlementRepo() *fakeEntitlementRepo {
	return &fakeEntitlementRepo{
		enrollments: map[grantKey]int{},
		documents:   map[grantKey]int{},
		bundles:     map[grantKey]int{},
	}
}

func (r *fakeEntitlementRepo) AddEnrollment(userID, courseID uint) error {
	if r.failEnrollFor != 0 && courseID == r.failEnrollFor {
		return errDBDown
	}
	r.enrollments[grantKey{userID, courseID}]++
	return nil
}

func (r *fakeEntitlementRepo) AddDocumentPurchase(userID, documentID uint) error {
	r.documents[grantKey{userID, documentID}]++
	return nil
}

func (r *fakeEntitlementRepo) AddBundlePurchase(userID, bundleID uint) error {
	r.bundles[grantKey{userID, bundleID}]++
	return nil
}

// --- chat repository --------------------------------------------------------

type roomKey struct{ courseID, studentID, instructorID uint }

type fakeChatRepo struct {
	rooms   map[roomKey]*domain.ChatRoom
	members map[grantKey]int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		rooms:   map[roomKey]*domain.ChatRoom{},
		members: map[grantKey]int{},
	}
}

func (r *fakeChatRepo) GetOrCreateRoom(courseID, studentID, instructorID uint) (*domain.ChatRoom, error) {
	key := roomKey{courseID, studentID, instructorID}
	if room, ok := r.rooms[key]; ok {
		return room, nil
	}
	room := &domain.ChatRoom{CourseID: courseID, StudentID: studentID, InstructorID: instructorID}
	r.rooms[key] = room
	return room, nil
}

func (r *fakeChatRepo) AddGroupMember(courseID, userID uint) error {
	r.members[grantKey{userID, courseID}]++
	return nil
}

// --- resume repository ------------------------------------------------------

type fakeResumeRepo struct {
	requests map[uint]*domain.ResumeRequest
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{requests: map[uint]*domain.ResumeRequest{}}
}

func (r *fakeResumeRepo) Create(req *domain.ResumeRequest) error {
	r.requests[req.ID] = req
	return nil
}

func (r *fakeResumeRepo) FindByID(id uint) (*domain.ResumeRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeResumeRepo) ApprovePayment(id, adminID uint, notes string, at time.Time) error {
	req, ok := r.requests[id]
	if !ok || req.PaymentStatus != domain.ResumePaymentPending {
		return repository.ErrNotPending
	}
	req.PaymentStatus = domain.ResumePaymentPaid
	req.Status = domain.ResumeStatusInProgress
	req.AdminNotes = &notes
	req.ApprovedAt = &at
	req.ApprovedBy = &adminID
	return nil
}

func (r *fakeResumeRepo) RejectPayment(id, adminID uint, notes string, at time.Time) error {
	req, ok := r.requests[id]
	if !ok || req.PaymentStatus != domain.ResumePaymentPending {
		return repository.ErrNotPending
	}
	req.PaymentStatus = domain.ResumePaymentRejected
	req.Status = domain.ResumeStatusRejected
	req.AdminNotes = &notes
	req.RejectedAt = &at
	req.RejectedBy = &adminID
	return nil
}

func (r *fakeResumeRepo) SetUserID(id, userID uint) error {
	req, ok := r.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	req.UserID = &userID
	return nil
}

func (r *fakeResumeRepo) Deliver(id uint, resumeURL string, at time.Time) error {
	req, ok := r.requests[id]
	if !ok || req.Status != domain.ResumeStatusInProgress {
		return gorm.ErrRecordNotFound
	}
	req.Status = domain.ResumeStatusCompleted
	req.ResumeURL = &resumeURL
	req.DeliveredAt = &at
	return nil
}

// --- notifier / producer / uploader -----------------------------------------

type sentMail struct {
	kind string
	to   string
}

type fakeNotifier struct {
	sent    []sentMail
	sendErr error
}

func (n *fakeNotifier) SendProofApproved(to, name string, itemType domain.ItemType, itemNames []string, amount float64, adminNotes string) error {
	return n.record("proof_approved", to)
}

func (n *fakeNotifier) SendProofRejected(to, name string, itemType domain.ItemType, itemNames []string, amount float64, reason string) error {
	return n.record("proof_rejected", to)
}

func (n *fakeNotifier) SendResumeApproved(to, name, targetRole string, price float64, adminNotes string) error {
	return n.record("resume_approved", to)
}

func (n *fakeNotifier) SendResumeRejected(to, name, reason string) error {
	return n.record("resume_rejected", to)
}

func (n *fakeNotifier) SendResumeDelivered(to, name, resumeURL string) error {
	return n.record("resume_delivered", to)
}

func (n *fakeNotifier) record(kind, to string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, sentMail{kind: kind, to: to})
	return nil
}

type publishedMsg struct {
	key   string
	value []byte
}

type fakeProducer struct {
	published  []publishedMsg
	publishErr error
}

func (p *fakeProducer) PublishMessage(key, value []byte) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.published = append(p.published, publishedMsg{key: string(key), value: value})
	return nil
}

type fakeUploader struct {
	uploads int
}

func (u *fakeUploader) UploadBytes(_ context.Context, folder, filename string, _ []byte) (string, error) {
	u.uploads++
	return "https://cdn.example.com/" + folder + "/" + filename, nil
}
