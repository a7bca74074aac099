package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"orgcomply/internal/appeal"
	"orgcomply/internal/config"
	"orgcomply/internal/deadline"
	"orgcomply/internal/domain"
	"orgcomply/internal/port"
	"orgcomply/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:        "ap-southeast-1",
		Bucket:        "test-bucket",
		MaxFileSizeMB: 10,
		PresignExpiry: 3600,
	}
}

// createMultipartFile builds a fake multipart file header and content.
func createMultipartFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)

	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	file, err := form.File["file"][0].Open()
	require.NoError(t, err)
	return file, form.File["file"][0]
}

func pdfContent() []byte {
	return []byte("%PDF-1.4 appeal letter content long enough for content type detection")
}

func newAppealFixture() (AppealService, *mocks.MockEventRepo, *mocks.MockSubmissionRepo, *mocks.MockNotificationRepo, *mocks.MockNotifier, *mocks.MockObjectStorage) {
	eventRepo := new(mocks.MockEventRepo)
	subRepo := new(mocks.MockSubmissionRepo)
	notifRepo := new(mocks.MockNotificationRepo)
	notifier := new(mocks.MockNotifier)
	storage := new(mocks.MockObjectStorage)
	policy := deadline.Policy{AccomplishmentDays: 3, LiquidationDays: 5, RearmOnAppealRejection: true}
	synth := deadline.NewSynthesizer(policy, testHierarchy)
	machine := appeal.NewMachine(testHierarchy, true)
	cfg := testS3Config()
	svc := NewAppealService(eventRepo, subRepo, notifRepo, notifier, storage, machine, synth, &cfg)
	return svc, eventRepo, subRepo, notifRepo, notifier, storage
}

func appealEvent() *domain.Event {
	end := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Event{
		ID:                    uuid.New(),
		Title:                 "Sports Fest",
		EndDate:               &end,
		TargetOrganization:    "LSG-Engineering",
		RequireAccomplishment: true,
	}
}

func TestSubmitAppeal_Success(t *testing.T) {
	svc, eventRepo, subRepo, notifRepo, notifier, storage := newAppealFixture()
	e := appealEvent()
	file, header := createMultipartFile(t, "appeal.pdf", pdfContent())
	defer file.Close()

	eventRepo.On("GetByID", mock.Anything, e.ID).Return(e, nil)
	subRepo.On("ListVisibleTo", mock.Anything, "LSG-Engineering").Return([]domain.SubmissionRecord{}, nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/appeal.pdf"}, nil)
	subRepo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.SubmissionRecord")).Return(int64(1), nil)
	notifRepo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(int64(1), nil)
	notifier.On("Notify", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)

	record, err := svc.SubmitAppeal(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"}, SubmitAppealInput{
		EventID: e.ID,
		Kind:    domain.ReportAccomplishment,
		File:    file,
		Header:  header,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.KindLetterOfAppeal, record.Kind)
	assert.Equal(t, domain.StatusPending, record.Status)
	assert.Equal(t, "USG", record.SubmittedTo)
	assert.Equal(t, "https://test-bucket.s3.amazonaws.com/appeal.pdf", record.AttachmentURL)
	assert.True(t, strings.HasPrefix(record.AttachmentKey, "orgs/LSG-Engineering/appeals/"))
	require.NotNil(t, record.EventID)
	assert.Equal(t, e.ID, *record.EventID)
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitAppeal_MissingAttachment(t *testing.T) {
	svc, _, _, _, _, _ := newAppealFixture()

	_, err := svc.SubmitAppeal(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"}, SubmitAppealInput{
		EventID: uuid.New(),
		Kind:    domain.ReportAccomplishment,
	})
	assert.ErrorIs(t, err, domain.ErrAttachmentRequired)
}

func TestSubmitAppeal_UnsupportedContentType(t *testing.T) {
	svc, eventRepo, subRepo, _, _, storage := newAppealFixture()
	e := appealEvent()
	file, header := createMultipartFile(t, "appeal.txt", []byte("plain text, not an accepted document type"))
	defer file.Close()

	eventRepo.On("GetByID", mock.Anything, e.ID).Return(e, nil)
	subRepo.On("ListVisibleTo", mock.Anything, "LSG-Engineering").Return([]domain.SubmissionRecord{}, nil)

	_, err := svc.SubmitAppeal(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"}, SubmitAppealInput{
		EventID: e.ID,
		Kind:    domain.ReportAccomplishment,
		File:    file,
		Header:  header,
	})
	assert.ErrorIs(t, err, domain.ErrAttachmentRequired)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestSubmitAppeal_SatisfiedDeadline(t *testing.T) {
	svc, eventRepo, subRepo, _, _, _ := newAppealFixture()
	e := appealEvent()
	file, header := createMultipartFile(t, "appeal.pdf", pdfContent())
	defer file.Close()

	eventRepo.On("GetByID", mock.Anything, e.ID).Return(e, nil)
	subRepo.On("ListVisibleTo", mock.Anything, "LSG-Engineering").Return([]domain.SubmissionRecord{{
		ID:            1,
		Organization:  "LSG-Engineering",
		Kind:          domain.KindAccomplishment,
		ActivityTitle: "Sports Fest",
		Status:        domain.StatusApproved,
		SubmittedTo:   "USG",
	}}, nil)

	// The approved report suppressed the marker: nothing left to appeal.
	_, err := svc.SubmitAppeal(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"}, SubmitAppealInput{
		EventID: e.ID,
		Kind:    domain.ReportAccomplishment,
		File:    file,
		Header:  header,
	})
	assert.ErrorIs(t, err, domain.ErrDeadlineSatisfied)
}

func TestSubmitAppeal_UploadFailureAbortsBeforeInsert(t *testing.T) {
	svc, eventRepo, subRepo, _, _, storage := newAppealFixture()
	e := appealEvent()
	file, header := createMultipartFile(t, "appeal.pdf", pdfContent())
	defer file.Close()

	eventRepo.On("GetByID", mock.Anything, e.ID).Return(e, nil)
	subRepo.On("ListVisibleTo", mock.Anything, "LSG-Engineering").Return([]domain.SubmissionRecord{}, nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(nil, errors.New("s3 unavailable"))

	_, err := svc.SubmitAppeal(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"}, SubmitAppealInput{
		EventID: e.ID,
		Kind:    domain.ReportAccomplishment,
		File:    file,
		Header:  header,
	})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	subRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmitAppeal_InsertFailureCompensatesUpload(t *testing.T) {
	svc, eventRepo, subRepo, _, _, storage := newAppealFixture()
	e := appealEvent()
	file, header := createMultipartFile(t, "appeal.pdf", pdfContent())
	defer file.Close()

	eventRepo.On("GetByID", mock.Anything, e.ID).Return(e, nil)
	subRepo.On("ListVisibleTo", mock.Anything, "LSG-Engineering").Return([]domain.SubmissionRecord{}, nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "https://test-bucket.s3.amazonaws.com/appeal.pdf"}, nil)
	subRepo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.SubmissionRecord")).
		Return(int64(0), errors.New("db down"))
	storage.On("Delete", mock.Anything, "test-bucket", mock.AnythingOfType("string")).Return(nil)

	_, err := svc.SubmitAppeal(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"}, SubmitAppealInput{
		EventID: e.ID,
		Kind:    domain.ReportAccomplishment,
		File:    file,
		Header:  header,
	})
	require.Error(t, err)
	storage.AssertCalled(t, "Delete", mock.Anything, "test-bucket", mock.AnythingOfType("string"))
}

func TestStateFor(t *testing.T) {
	svc, eventRepo, subRepo, _, _, _ := newAppealFixture()
	e := appealEvent()

	eventRepo.On("GetByID", mock.Anything, e.ID).Return(e, nil)
	subRepo.On("ListVisibleTo", mock.Anything, "LSG-Engineering").Return([]domain.SubmissionRecord{{
		ID:            1,
		Organization:  "LSG-Engineering",
		Kind:          domain.KindLetterOfAppeal,
		ActivityTitle: "Sports Fest",
		Status:        domain.StatusPending,
		SubmittedTo:   "USG",
		EventID:       &e.ID,
	}}, nil)

	state, err := svc.StateFor(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"}, e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppealOwnPending, state)
}

func TestAttachmentLink(t *testing.T) {
	appealRecord := &domain.SubmissionRecord{
		ID:            7,
		Organization:  "LSG-Engineering",
		Kind:          domain.KindLetterOfAppeal,
		ActivityTitle: "Sports Fest",
		Status:        domain.StatusPending,
		SubmittedTo:   "USG",
		AttachmentKey: "orgs/LSG-Engineering/appeals/abc/appeal.pdf",
	}

	t.Run("filer and reviewer get a link", func(t *testing.T) {
		for _, org := range []string{"LSG-Engineering", "USG"} {
			svc, _, subRepo, _, _, storage := newAppealFixture()
			subRepo.On("GetByID", mock.Anything, int64(7)).Return(appealRecord, nil)
			storage.On("GetPresignedURL", mock.Anything, "test-bucket", appealRecord.AttachmentKey, int64(3600)).
				Return("https://test-bucket.s3.amazonaws.com/signed", nil)

			url, err := svc.AttachmentLink(context.Background(), domain.OrgContext{Organization: org}, 7)
			require.NoError(t, err, "org %s", org)
			assert.Equal(t, "https://test-bucket.s3.amazonaws.com/signed", url)
		}
	})

	t.Run("unrelated org is forbidden", func(t *testing.T) {
		svc, _, subRepo, _, _, storage := newAppealFixture()
		subRepo.On("GetByID", mock.Anything, int64(7)).Return(appealRecord, nil)

		_, err := svc.AttachmentLink(context.Background(), domain.OrgContext{Organization: "OSAS"}, 7)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		storage.AssertNotCalled(t, "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-appeal record has no document", func(t *testing.T) {
		svc, _, subRepo, _, _, _ := newAppealFixture()
		subRepo.On("GetByID", mock.Anything, int64(8)).Return(&domain.SubmissionRecord{
			ID:           8,
			Organization: "LSG-Engineering",
			Kind:         domain.KindAccomplishment,
			SubmittedTo:  "USG",
		}, nil)

		_, err := svc.AttachmentLink(context.Background(), domain.OrgContext{Organization: "LSG-Engineering"}, 8)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
