package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Repository / 外部サービス mocks (Email向け：衝突回避)
// =====================

type EmailRepoMock struct{ mock.Mock }

func (m *EmailRepoMock) Create(ctx context.Context, rec model.EmailRecord) (model.EmailRecord, error) {
	args := m.Called(ctx, rec)
	created, _ := args.Get(0).(model.EmailRecord)
	return created, args.Error(1)
}

func (m *EmailRepoMock) FindByID(ctx context.Context, id int64) (model.EmailRecord, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(model.EmailRecord)
	return rec, args.Error(1)
}

func (m *EmailRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.EmailRecord, error) {
	args := m.Called(ctx, orderID)
	recs, _ := args.Get(0).([]model.EmailRecord)
	return recs, args.Error(1)
}

func (m *EmailRepoMock) Update(ctx context.Context, rec model.EmailRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

type EmailOrderRepoMock struct{ mock.Mock }

func (m *EmailOrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *EmailOrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	panic("not used in EmailUsecase tests")
}

func (m *EmailOrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	panic("not used in EmailUsecase tests")
}

func (m *EmailOrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	panic("not used in EmailUsecase tests")
}

type EmailOrderProductRepoMock struct{ mock.Mock }

func (m *EmailOrderProductRepoMock) CreateBulk(ctx context.Context, orderID int64, rows []model.OrderProduct) error {
	panic("not used in EmailUsecase tests")
}

func (m *EmailOrderProductRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderProduct, error) {
	args := m.Called(ctx, orderID)
	rows, _ := args.Get(0).([]model.OrderProduct)
	return rows, args.Error(1)
}

type GeneratorMock struct{ mock.Mock }

func (m *GeneratorMock) GenerateBody(ctx context.Context, in GenerationInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

type MailerMock struct{ mock.Mock }

func (m *MailerMock) Send(ctx context.Context, to string, subject string, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func emailFixtures(t *testing.T) (*EmailRepoMock, *EmailOrderRepoMock, *EmailOrderProductRepoMock, *MailerMock) {
	t.Helper()
	return new(EmailRepoMock), new(EmailOrderRepoMock), new(EmailOrderProductRepoMock), new(MailerMock)
}

func TestEmailSend_UsesGeneratedBody(t *testing.T) {
	emailRepo, orderRepo, opRepo, mailer := emailFixtures(t)
	generator := new(GeneratorMock)
	now := time.Date(2026, 5, 12, 8, 0, 0, 0, time.UTC)

	orderRepo.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{ID: 9, Reference: "CMD-abc"}, nil)
	opRepo.On("ListByOrderID", mock.Anything, int64(9)).
		Return([]model.OrderProduct{{ProductID: 10, Quantity: 2}, {ProductID: 20, Quantity: 3}}, nil)
	generator.On("GenerateBody", mock.Anything, GenerationInput{
		OrderReference: "CMD-abc",
		Recipient:      "magasin@example.fr",
		ProductCount:   2,
		TotalQuantity:  5,
	}).Return("corps généré", nil)
	mailer.On("Send", mock.Anything, "magasin@example.fr", "Commande CMD-abc", "corps généré").Return(nil)
	emailRepo.On("Create", mock.Anything, mock.MatchedBy(func(rec model.EmailRecord) bool {
		return rec.OrderID == 9 &&
			rec.Tag == model.EmailTagInitial &&
			rec.ReplyStatus == model.EmailReplyWaiting &&
			rec.Body == "corps généré" &&
			rec.NextFollowupAt != nil &&
			rec.NextFollowupAt.Equal(now.Add(7*24*time.Hour))
	})).Return(model.EmailRecord{ID: 1, OrderID: 9, Tag: model.EmailTagInitial}, nil)

	uc := NewEmailUsecase(emailRepo, orderRepo, opRepo, generator, mailer, &fixedClock{t: now})

	rec, err := uc.Send(context.Background(), SendEmailInput{OrderID: 9, Recipient: "magasin@example.fr"})

	assert.NoError(t, err)
	assert.Equal(t, model.EmailTagInitial, rec.Tag)
	mailer.AssertExpectations(t)
	emailRepo.AssertExpectations(t)
}

func TestEmailSend_GeneratorFailureFallsBackToTemplate(t *testing.T) {
	emailRepo, orderRepo, opRepo, mailer := emailFixtures(t)
	generator := new(GeneratorMock)

	orderRepo.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{ID: 9, Reference: "CMD-abc"}, nil)
	opRepo.On("ListByOrderID", mock.Anything, int64(9)).
		Return([]model.OrderProduct{{ProductID: 10, Quantity: 2}}, nil)
	generator.On("GenerateBody", mock.Anything, mock.Anything).
		Return("", errors.New("service down"))

	var sentBody string
	mailer.On("Send", mock.Anything, "magasin@example.fr", "Commande CMD-abc", mock.Anything).
		Run(func(args mock.Arguments) { sentBody = args.String(3) }).
		Return(nil)
	emailRepo.On("Create", mock.Anything, mock.Anything).
		Return(model.EmailRecord{ID: 1}, nil)

	uc := NewEmailUsecase(emailRepo, orderRepo, opRepo, generator, mailer, &fixedClock{t: time.Now()})

	_, err := uc.Send(context.Background(), SendEmailInput{OrderID: 9, Recipient: "magasin@example.fr"})

	assert.NoError(t, err)
	assert.Equal(t, FallbackBody(GenerationInput{
		OrderReference: "CMD-abc",
		Recipient:      "magasin@example.fr",
		ProductCount:   1,
		TotalQuantity:  2,
	}), sentBody)
	assert.True(t, strings.Contains(sentBody, "CMD-abc"))
}

func TestEmailSend_NilGeneratorUsesTemplate(t *testing.T) {
	emailRepo, orderRepo, opRepo, mailer := emailFixtures(t)

	orderRepo.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{ID: 9, Reference: "CMD-abc"}, nil)
	opRepo.On("ListByOrderID", mock.Anything, int64(9)).
		Return([]model.OrderProduct{}, nil)
	mailer.On("Send", mock.Anything, "magasin@example.fr", "Commande CMD-abc",
		mock.MatchedBy(func(body string) bool { return strings.Contains(body, "CMD-abc") })).
		Return(nil)
	emailRepo.On("Create", mock.Anything, mock.Anything).
		Return(model.EmailRecord{ID: 1}, nil)

	uc := NewEmailUsecase(emailRepo, orderRepo, opRepo, nil, mailer, &fixedClock{t: time.Now()})

	_, err := uc.Send(context.Background(), SendEmailInput{OrderID: 9, Recipient: "magasin@example.fr"})

	assert.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestEmailSend_DeliveryFailureDoesNotCreateRecord(t *testing.T) {
	emailRepo, orderRepo, opRepo, mailer := emailFixtures(t)

	orderRepo.On("FindByID", mock.Anything, int64(9)).
		Return(model.Order{ID: 9, Reference: "CMD-abc"}, nil)
	opRepo.On("ListByOrderID", mock.Anything, int64(9)).
		Return([]model.OrderProduct{}, nil)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp relay down"))

	uc := NewEmailUsecase(emailRepo, orderRepo, opRepo, nil, mailer, &fixedClock{t: time.Now()})

	_, err := uc.Send(context.Background(), SendEmailInput{OrderID: 9, Recipient: "magasin@example.fr"})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Status)
	emailRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEmailRelance_CreatesNewRecordWithNextTag(t *testing.T) {
	emailRepo, orderRepo, opRepo, mailer := emailFixtures(t)
	now := time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

	prev := model.EmailRecord{
		ID: 4, OrderID: 9, Recipient: "magasin@example.fr",
		Subject: "Commande CMD-abc", Body: "corps initial",
		Tag: model.EmailTagRelance1, ReplyStatus: model.EmailReplyWaiting,
	}
	emailRepo.On("FindByID", mock.Anything, int64(4)).Return(prev, nil)

	// 本文は元の行からそのまま
	mailer.On("Send", mock.Anything, "magasin@example.fr", "Commande CMD-abc", "corps initial").Return(nil)

	emailRepo.On("Create", mock.Anything, mock.MatchedBy(func(rec model.EmailRecord) bool {
		return rec.ID == 0 &&
			rec.OrderID == 9 &&
			rec.Tag == model.EmailTagRelance2 &&
			rec.Body == "corps initial" &&
			rec.ReplyStatus == model.EmailReplyWaiting &&
			rec.NextFollowupAt != nil &&
			rec.NextFollowupAt.Equal(now.Add(7*24*time.Hour))
	})).Return(model.EmailRecord{ID: 5, Tag: model.EmailTagRelance2}, nil)

	uc := NewEmailUsecase(emailRepo, orderRepo, opRepo, nil, mailer, &fixedClock{t: now})

	rec, err := uc.Relance(context.Background(), 4)

	assert.NoError(t, err)
	assert.Equal(t, model.EmailTagRelance2, rec.Tag)
	emailRepo.AssertExpectations(t)
	// 元の行は変更しない
	emailRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEmailRelance_NoMoreAfterThird(t *testing.T) {
	emailRepo, orderRepo, opRepo, mailer := emailFixtures(t)

	emailRepo.On("FindByID", mock.Anything, int64(4)).
		Return(model.EmailRecord{ID: 4, Tag: model.EmailTagRelance3}, nil)

	uc := NewEmailUsecase(emailRepo, orderRepo, opRepo, nil, mailer, &fixedClock{t: time.Now()})

	_, err := uc.Relance(context.Background(), 4)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "no more relance", he.Message)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEmailRecordReply_ClearsFollowup(t *testing.T) {
	emailRepo, orderRepo, opRepo, mailer := emailFixtures(t)

	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	emailRepo.On("FindByID", mock.Anything, int64(4)).
		Return(model.EmailRecord{ID: 4, Tag: model.EmailTagInitial, ReplyStatus: model.EmailReplyWaiting, NextFollowupAt: &due}, nil)
	emailRepo.On("Update", mock.Anything, mock.MatchedBy(func(rec model.EmailRecord) bool {
		return rec.ReplyStatus == model.EmailReplyConfirmed &&
			rec.ReplyNote == "confirmé par téléphone" &&
			rec.NextFollowupAt == nil
	})).Return(nil)

	uc := NewEmailUsecase(emailRepo, orderRepo, opRepo, nil, mailer, &fixedClock{t: time.Now()})

	rec, err := uc.RecordReply(context.Background(), 4, RecordReplyInput{
		Status: "confirme",
		Note:   "confirmé par téléphone",
	})

	assert.NoError(t, err)
	assert.Equal(t, model.EmailReplyConfirmed, rec.ReplyStatus)
	assert.Nil(t, rec.NextFollowupAt)
	emailRepo.AssertExpectations(t)
}

func TestEmailRecordReply_InvalidStatus(t *testing.T) {
	emailRepo, orderRepo, opRepo, mailer := emailFixtures(t)

	uc := NewEmailUsecase(emailRepo, orderRepo, opRepo, nil, mailer, &fixedClock{t: time.Now()})

	_, err := uc.RecordReply(context.Background(), 4, RecordReplyInput{Status: "repondu"})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}
