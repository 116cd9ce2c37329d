package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 文面生成サービスへ渡す入力
type GenerationInput struct {
	OrderReference string
	Recipient      string
	ProductCount   int
	TotalQuantity  int64
}

// 外部の文面生成サービス。best-effortで、失敗は許容する
type BodyGenerator interface {
	GenerateBody(ctx context.Context, in GenerationInput) (string, error)
}

// 外部の配信サービス
type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// EmailUsecaseは注文ごとの送信/返信トラッキング台帳。
// generatorはnil可：無い/落ちている場合はローカルテンプレートに落とす
type EmailUsecase struct {
	emailRepo        repo.EmailRepository
	orderRepo        repo.OrderRepository
	orderProductRepo repo.OrderProductRepository
	generator        BodyGenerator
	mailer           Mailer
	clock            Clock
}

// DI
func NewEmailUsecase(
	emailRepo repo.EmailRepository,
	orderRepo repo.OrderRepository,
	orderProductRepo repo.OrderProductRepository,
	generator BodyGenerator,
	mailer Mailer,
	clock Clock,
) *EmailUsecase {
	return &EmailUsecase{
		emailRepo:        emailRepo,
		orderRepo:        orderRepo,
		orderProductRepo: orderProductRepo,
		generator:        generator,
		mailer:           mailer,
		clock:            clock,
	}
}

// 返信が無い場合に次のrelanceを促すまでの間隔
const followupInterval = 7 * 24 * time.Hour

// 生成サービスと同じ契約の決定的なローカルテンプレート
func FallbackBody(in GenerationInput) string {
	return fmt.Sprintf(
		"Bonjour,\n\nVeuillez trouver la commande %s (%d produits, %d pièces au total).\n"+
			"Merci de confirmer la bonne réception de cette commande.\n\nCordialement",
		in.OrderReference, in.ProductCount, in.TotalQuantity,
	)
}

type SendEmailInput struct {
	OrderID   int64
	Recipient string
}

// Sendは文面を用意して配信し、成功したら監査行(initial/en_attente)を残す
func (u *EmailUsecase) Send(ctx context.Context, in SendEmailInput) (model.EmailRecord, error) {
	if in.OrderID <= 0 {
		return model.EmailRecord{}, NewHTTPError(http.StatusBadRequest, "invalid order_id")
	}
	recipient := strings.TrimSpace(in.Recipient)
	if recipient == "" {
		return model.EmailRecord{}, NewHTTPError(http.StatusBadRequest, "recipient is required")
	}

	o, err := u.orderRepo.FindByID(ctx, in.OrderID)
	if err == repo.ErrNotFound {
		return model.EmailRecord{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.EmailRecord{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rows, err := u.orderProductRepo.ListByOrderID(ctx, in.OrderID)
	if err != nil {
		return model.EmailRecord{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	var totalQty int64
	for _, row := range rows {
		totalQty += row.Quantity
	}

	gin := GenerationInput{
		OrderReference: o.Reference,
		Recipient:      recipient,
		ProductCount:   len(rows),
		TotalQuantity:  totalQty,
	}

	body := ""
	if u.generator != nil {
		body, err = u.generator.GenerateBody(ctx, gin)
		if err != nil {
			// 生成失敗はフローを止めない
			config.LogError(config.GetLogger(), "email", "Send", "generation fallback", err)
			body = ""
		}
	}
	if body == "" {
		body = FallbackBody(gin)
	}

	subject := fmt.Sprintf("Commande %s", o.Reference)

	if err := u.mailer.Send(ctx, recipient, subject, body); err != nil {
		return model.EmailRecord{}, NewHTTPError(http.StatusBadGateway, "delivery failed")
	}

	now := u.clock.Now()
	followup := now.Add(followupInterval)

	rec, err := u.emailRepo.Create(ctx, model.EmailRecord{
		OrderID:        in.OrderID,
		Recipient:      recipient,
		Subject:        subject,
		Body:           body,
		Tag:            model.EmailTagInitial,
		ReplyStatus:    model.EmailReplyWaiting,
		NextFollowupAt: &followup,
		CreatedAt:      now,
	})
	if err != nil {
		return model.EmailRecord{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rec, nil
}

type RecordReplyInput struct {
	Status string
	Note   string
}

// 返信の手動記録。保留中のフォローアップ予定は消す
func (u *EmailUsecase) RecordReply(ctx context.Context, emailID int64, in RecordReplyInput) (model.EmailRecord, error) {
	if emailID <= 0 {
		return model.EmailRecord{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	switch model.EmailReplyStatus(in.Status) {
	case model.EmailReplyWaiting, model.EmailReplyConfirmed, model.EmailReplyRefused, model.EmailReplyIgnored:
	default:
		return model.EmailRecord{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	rec, err := u.emailRepo.FindByID(ctx, emailID)
	if err == repo.ErrNotFound {
		return model.EmailRecord{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.EmailRecord{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	rec.ReplyStatus = model.EmailReplyStatus(in.Status)
	rec.ReplyNote = in.Note
	rec.NextFollowupAt = nil

	if err := u.emailRepo.Update(ctx, rec); err != nil {
		return model.EmailRecord{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rec, nil
}

// Relanceは段階タグを上げた新しい行を作る。
// 本文は元の行からそのままコピーし、元の行は変更しない
func (u *EmailUsecase) Relance(ctx context.Context, emailID int64) (model.EmailRecord, error) {
	if emailID <= 0 {
		return model.EmailRecord{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	prev, err := u.emailRepo.FindByID(ctx, emailID)
	if err == repo.ErrNotFound {
		return model.EmailRecord{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.EmailRecord{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	nextTag, ok := model.NextEmailTag(prev.Tag)
	if !ok {
		return model.EmailRecord{}, NewHTTPError(http.StatusBadRequest, "no more relance")
	}

	if err := u.mailer.Send(ctx, prev.Recipient, prev.Subject, prev.Body); err != nil {
		return model.EmailRecord{}, NewHTTPError(http.StatusBadGateway, "delivery failed")
	}

	now := u.clock.Now()
	followup := now.Add(followupInterval)

	rec, err := u.emailRepo.Create(ctx, model.EmailRecord{
		OrderID:        prev.OrderID,
		Recipient:      prev.Recipient,
		Subject:        prev.Subject,
		Body:           prev.Body,
		Tag:            nextTag,
		ReplyStatus:    model.EmailReplyWaiting,
		NextFollowupAt: &followup,
		CreatedAt:      now,
	})
	if err != nil {
		return model.EmailRecord{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return rec, nil
}

func (u *EmailUsecase) ListByOrder(ctx context.Context, orderID int64) ([]model.EmailRecord, error) {
	if orderID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid order_id")
	}

	recs, err := u.emailRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return recs, nil
}
