package model

import "time"

// 送信メールの段階タグ。relanceは新しい行を作る（元の行は変更しない）
type EmailTag string

const (
	EmailTagInitial  EmailTag = "initial"
	EmailTagRelance1 EmailTag = "relance_1"
	EmailTagRelance2 EmailTag = "relance_2"
	EmailTagRelance3 EmailTag = "relance_3"
)

type EmailReplyStatus string

const (
	EmailReplyWaiting   EmailReplyStatus = "en_attente"
	EmailReplyConfirmed EmailReplyStatus = "confirme"
	EmailReplyRefused   EmailReplyStatus = "refuse"
	EmailReplyIgnored   EmailReplyStatus = "ignore"
)

// 送信済みメールの監査行
type EmailRecord struct {
	ID             int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID        int64            `gorm:"not null;index" json:"order_id"`
	Recipient      string           `gorm:"type:varchar(255);not null" json:"recipient"`
	Subject        string           `gorm:"type:varchar(500);not null" json:"subject"`
	Body           string           `gorm:"type:text;not null" json:"body"`
	Tag            EmailTag         `gorm:"type:varchar(20);not null" json:"tag"`
	ReplyStatus    EmailReplyStatus `gorm:"type:varchar(20);not null;default:'en_attente'" json:"reply_status"`
	ReplyNote      string           `gorm:"type:text" json:"reply_note"`
	NextFollowupAt *time.Time       `json:"next_followup_at"`
	CreatedAt      time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (EmailRecord) TableName() string { return "emails_sent" }

// 次の段階タグを返す。relance_3の次は無い
func NextEmailTag(t EmailTag) (EmailTag, bool) {
	switch t {
	case EmailTagInitial:
		return EmailTagRelance1, true
	case EmailTagRelance1:
		return EmailTagRelance2, true
	case EmailTagRelance2:
		return EmailTagRelance3, true
	default:
		return "", false
	}
}
