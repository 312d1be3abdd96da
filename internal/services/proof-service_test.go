package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/LumosAcademy/payment_service/internal/domain"
	"github.com/LumosAcademy/payment_service/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type proofFixture struct {
	svc          ProofService
	proofs       *fakeProofRepo
	users        *fakeUserRepo
	catalog      *fakeCatalogRepo
	entitlements *fakeEntitlementRepo
	chat         *fakeChatRepo
	notifier     *fakeNotifier
	producer     *fakeProducer
	uploader     *fakeUploader
}

func newProofFixture() *proofFixture {
	f := &proofFixture{
		proofs:       newFakeProofRepo(),
		users:        newFakeUserRepo(),
		catalog:      newFakeCatalogRepo(),
		entitlements: newFakeEntitlementRepo(),
		chat:         newFakeChatRepo(),
		notifier:     &fakeNotifier{},
		producer:     &fakeProducer{},
		uploader:     &fakeUploader{},
	}
	f.svc = NewProofService(f.proofs, f.users, f.catalog, f.entitlements, f.chat, f.notifier, f.producer, f.uploader, nil)
	return f
}

func (f *proofFixture) addPendingProof(purchaser *domain.User, itemType domain.ItemType, amount float64, itemIDs ...uint) *domain.PaymentProof {
	p := &domain.PaymentProof{
		Reference:   "ref-" + string(itemType),
		PurchaserID: purchaser.ID,
		Purchaser:   purchaser,
		ItemType:    itemType,
		Amount:      amount,
		SlipURL:     "https://cdn.example.com/slip.jpg",
		Status:      domain.ProofStatusPending,
	}
	for _, id := range itemIDs {
		p.Items = append(p.Items, domain.ProofItem{ItemID: id})
	}
	_ = f.proofs.CreateProof(p)
	return p
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func stepByName(steps []dto.StepOutcome, name string) *dto.StepOutcome {
	for i := range steps {
		if steps[i].Name == name {
			return &steps[i]
		}
	}
	return nil
}

func TestDecideProofApproveGrantsCourseAccess(t *testing.T) {
	f := newProofFixture()
	student := f.users.add(domain.User{Email: "student@example.com", DisplayName: "Student", Role: domain.RoleStudent})
	f.catalog.courses[1] = domain.Course{ID: 1, Title: "Go Basics", CourseType: domain.CourseTypeRegular, InstructorID: 7}
	f.catalog.courses[2] = domain.Course{ID: 2, Title: "Live Workshop", CourseType: domain.CourseTypeSpecial, InstructorID: 7}
	proof := f.addPendingProof(student, domain.ItemTypeCourse, 1500, 1, 2)

	data, err := f.svc.DecideProof(proof.ID, 99, "approved", "")
	require.NoError(t, err)
	assert.Equal(t, "approved", data.Status)

	assert.Equal(t, 1, f.entitlements.enrollments[grantKey{student.ID, 1}])
	assert.Equal(t, 1, f.entitlements.enrollments[grantKey{student.ID, 2}])
	assert.Equal(t, 1, f.chat.members[grantKey{student.ID, 1}])
	assert.Equal(t, 1, f.chat.members[grantKey{student.ID, 2}])

	// a private room only for the regular course
	assert.Len(t, f.chat.rooms, 1)
	_, ok := f.chat.rooms[roomKey{1, student.ID, 7}]
	assert.True(t, ok)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "proof_approved", f.notifier.sent[0].kind)
	assert.Equal(t, "student@example.com", f.notifier.sent[0].to)

	require.Len(t, f.producer.published, 1)
	assert.Equal(t, "payment.proof_decided", f.producer.published[0].key)

	for _, name := range []string{"enroll_course_1", "enroll_course_2", "send_email", "publish_event"} {
		step := stepByName(data.Steps, name)
		require.NotNil(t, step, name)
		assert.Equal(t, dto.StepOK, step.Status, name)
	}
}

func TestDecideProofApproveGrantsDocuments(t *testing.T) {
	f := newProofFixture()
	student := f.users.add(domain.User{Email: "student@example.com", Role: domain.RoleStudent})
	f.catalog.documents[5] = domain.Document{ID: 5, Title: "Cheatsheet"}
	proof := f.addPendingProof(student, domain.ItemTypeDocument, 99, 5)

	_, err := f.svc.DecideProof(proof.ID, 99, "approved", "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.entitlements.documents[grantKey{student.ID, 5}])
	assert.Empty(t, f.chat.rooms)
}

func TestDecideProofSecondDecisionFails(t *testing.T) {
	f := newProofFixture()
	student := f.users.add(domain.User{Email: "student@example.com", Role: domain.RoleStudent})
	f.catalog.courses[1] = domain.Course{ID: 1, Title: "Go Basics", CourseType: domain.CourseTypeRegular, InstructorID: 7}
	proof := f.addPendingProof(student, domain.ItemTypeCourse, 500, 1)

	_, err := f.svc.DecideProof(proof.ID, 99, "approved", "")
	require.NoError(t, err)

	_, err = f.svc.DecideProof(proof.ID, 99, "approved", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already been reviewed")

	// the first decision's grants are not repeated
	assert.Equal(t, 1, f.entitlements.enrollments[grantKey{student.ID, 1}])
	assert.Len(t, f.notifier.sent, 1)
	assert.Len(t, f.producer.published, 1)
}

func TestDecideProofRejectRequiresNotes(t *testing.T) {
	f := newProofFixture()
	student := f.users.add(domain.User{Email: "student@example.com", Role: domain.RoleStudent})
	proof := f.addPendingProof(student, domain.ItemTypeCourse, 500, 1)

	_, err := f.svc.DecideProof(proof.ID, 99, "rejected", "   ")
	require.Error(t, err)

	stored, _ := f.proofs.FindByID(proof.ID)
	assert.Equal(t, domain.ProofStatusPending, stored.Status)
}

func TestDecideProofRejectGrantsNothing(t *testing.T) {
	f := newProofFixture()
	student := f.users.add(domain.User{Email: "student@example.com", Role: domain.RoleStudent})
	f.catalog.courses[1] = domain.Course{ID: 1, Title: "Go Basics", CourseType: domain.CourseTypeRegular, InstructorID: 7}
	proof := f.addPendingProof(student, domain.ItemTypeCourse, 500, 1)

	data, err := f.svc.DecideProof(proof.ID, 99, "rejected", "blurry slip")
	require.NoError(t, err)
	assert.Equal(t, "rejected", data.Status)

	assert.Empty(t, f.entitlements.enrollments)
	assert.Empty(t, f.chat.members)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "proof_rejected", f.notifier.sent[0].kind)
}

func TestDecideProofGrantFailureDoesNotAbortOthers(t *testing.T) {
	f := newProofFixture()
	student := f.users.add(domain.User{Email: "student@example.com", Role: domain.RoleStudent})
	f.catalog.courses[1] = domain.Course{ID: 1, Title: "A", CourseType: domain.CourseTypeSpecial, InstructorID: 7}
	f.catalog.courses[2] = domain.Course{ID: 2, Title: "B", CourseType: domain.CourseTypeSpecial, InstructorID: 7}
	f.entitlements.failEnrollFor = 1
	proof := f.addPendingProof(student, domain.ItemTypeCourse, 900, 1, 2)

	data, err := f.svc.DecideProof(proof.ID, 99, "approved", "")
	require.NoError(t, err)

	failed := stepByName(data.Steps, "enroll_course_1")
	require.NotNil(t, failed)
	assert.Equal(t, dto.StepFailed, failed.Status)
	assert.NotEmpty(t, failed.Error)

	assert.Equal(t, 0, f.entitlements.enrollments[grantKey{student.ID, 1}])
	assert.Equal(t, 1, f.entitlements.enrollments[grantKey{student.ID, 2}])
	assert.Len(t, f.notifier.sent, 1)
}

func TestDecideProofEmailFailureTolerated(t *testing.T) {
	f := newProofFixture()
	student := f.users.add(domain.User{Email: "student@example.com", Role: domain.RoleStudent})
	f.catalog.documents[3] = domain.Document{ID: 3, Title: "Notes"}
	f.notifier.sendErr = errDBDown
	proof := f.addPendingProof(student, domain.ItemTypeDocument, 59, 3)

	data, err := f.svc.DecideProof(proof.ID, 99, "approved", "")
	require.NoError(t, err)

	emailStep := stepByName(data.Steps, "send_email")
	require.NotNil(t, emailStep)
	assert.Equal(t, dto.StepFailed, emailStep.Status)

	// the grant and the event are unaffected
	assert.Equal(t, 1, f.entitlements.documents[grantKey{student.ID, 3}])
	assert.Len(t, f.producer.published, 1)
}

func TestDecideProofValidation(t *testing.T) {
	f := newProofFixture()

	_, err := f.svc.DecideProof(1, 99, "maybe", "")
	require.Error(t, err)

	_, err = f.svc.DecideProof(404, 99, "approved", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListProofsFiltersAndPaginates(t *testing.T) {
	f := newProofFixture()
	student := f.users.add(domain.User{Email: "student@example.com", Role: domain.RoleStudent})
	f.catalog.documents[3] = domain.Document{ID: 3, Title: "Notes"}

	f.addPendingProof(student, domain.ItemTypeDocument, 10, 3)
	f.addPendingProof(student, domain.ItemTypeDocument, 20, 3)
	approved := f.addPendingProof(student, domain.ItemTypeDocument, 30, 3)
	_, err := f.svc.DecideProof(approved.ID, 99, "approved", "")
	require.NoError(t, err)

	resp, err := f.svc.ListProofs(1, 10, "pending")
	require.NoError(t, err)
	assert.Len(t, resp.Proofs, 2)
	assert.EqualValues(t, 2, resp.Pagination.Total)
	assert.Equal(t, 1, resp.Pagination.TotalPages)

	resp, err = f.svc.ListProofs(1, 1, "all")
	require.NoError(t, err)
	assert.Len(t, resp.Proofs, 1)
	assert.EqualValues(t, 3, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)

	// limit above the cap is clamped, not rejected
	resp, err = f.svc.ListProofs(1, 1000, "all")
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Pagination.Limit)

	_, err = f.svc.ListProofs(0, 10, "all")
	require.Error(t, err)

	_, err = f.svc.ListProofs(1, 10, "weird")
	require.Error(t, err)
}

func TestListProofsItemLookupDegrades(t *testing.T) {
	f := newProofFixture()
	student := f.users.add(domain.User{Email: "student@example.com", Role: domain.RoleStudent})
	f.addPendingProof(student, domain.ItemTypeCourse, 10, 1)
	f.catalog.lookupErr = errDBDown

	resp, err := f.svc.ListProofs(1, 10, "all")
	require.NoError(t, err)
	require.Len(t, resp.Proofs, 1)
	assert.Empty(t, resp.Proofs[0].Items)
}

func TestSubmitProof(t *testing.T) {
	f := newProofFixture()
	f.catalog.courses[1] = domain.Course{ID: 1, Title: "Go Basics", CourseType: domain.CourseTypeRegular, InstructorID: 7}

	resp, err := f.svc.SubmitProof(context.Background(), 4, dto.SubmitProofInput{
		ItemType:     "course",
		ItemIDs:      []uint{1},
		Amount:       1500,
		StudentNote:  "paid via mobile banking",
		SlipFilename: "slip.png",
		SlipMimeType: "image/png",
		SlipBytes:    pngBytes(t),
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, 1, f.uploader.uploads)

	stored, err := f.proofs.FindByID(resp.ProofID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, stored.ItemIDs())
	require.NotNil(t, stored.StudentNote)
	assert.Equal(t, "paid via mobile banking", *stored.StudentNote)
}

func TestSubmitProofValidation(t *testing.T) {
	f := newProofFixture()
	f.catalog.courses[1] = domain.Course{ID: 1, Title: "Go Basics"}
	slip := pngBytes(t)

	cases := []struct {
		name  string
		input dto.SubmitProofInput
	}{
		{"bad item type", dto.SubmitProofInput{ItemType: "car", ItemIDs: []uint{1}, Amount: 10, SlipFilename: "s.png", SlipBytes: slip}},
		{"no items", dto.SubmitProofInput{ItemType: "course", Amount: 10, SlipFilename: "s.png", SlipBytes: slip}},
		{"zero amount", dto.SubmitProofInput{ItemType: "course", ItemIDs: []uint{1}, SlipFilename: "s.png", SlipBytes: slip}},
		{"missing slip", dto.SubmitProofInput{ItemType: "course", ItemIDs: []uint{1}, Amount: 10}},
		{"unknown item", dto.SubmitProofInput{ItemType: "course", ItemIDs: []uint{42}, Amount: 10, SlipFilename: "s.png", SlipBytes: slip}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SubmitProof(context.Background(), 4, tc.input)
			require.Error(t, err)
		})
	}
	assert.Equal(t, 0, f.uploader.uploads)
}
