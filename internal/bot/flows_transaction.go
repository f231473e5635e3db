package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/syklonAK/hesabdari/internal/domain"
)

func (h *Handler) startTransactionFlow(chatID, userID int64, isIncome bool) {
	sess := h.sessions.get(userID)
	*sess = session{state: stateAwaitAmount, isIncome: isIncome}

	prompt := "💸 لطفا مبلغ هزینه را وارد کنید:"
	if isIncome {
		prompt = "💰 لطفا مبلغ درآمد را وارد کنید:"
	}
	h.replyWithKeyboard(chatID, prompt, cancelKeyboard())
}

func (h *Handler) onAmount(chatID int64, sess *session, text string) {
	amount, err := parseAmount(text)
	if err != nil {
		h.replyWithKeyboard(chatID, "❌ لطفا یک عدد معتبر وارد کنید:", cancelKeyboard())
		return
	}

	sess.amount = amount
	sess.state = stateAwaitDescription
	h.replyWithKeyboard(chatID, "📝 لطفا توضیحات این تراکنش را وارد کنید:", cancelKeyboard())
}

func (h *Handler) onDescription(chatID int64, sess *session, text string) {
	sess.description = text
	// snapshot now: the date shown here must match the receipt
	sess.recordedAt = time.Now()
	sess.state = stateAwaitConfirm

	confirmation := fmt.Sprintf(
		"لطفا %s زیر را تایید کنید:\n\nمبلغ: %s\nتوضیحات: %s\nتاریخ شمسی: %s\n\nآیا صحیح است؟ (بله/خیر)",
		transactionKind(sess.isIncome),
		formatToman(sess.amount),
		sess.description,
		solarDate(sess.recordedAt),
	)
	h.replyWithKeyboard(chatID, confirmation, confirmKeyboard())
}

func (h *Handler) onConfirm(ctx context.Context, chatID, userID int64, sess *session, text string) {
	if !isAffirmative(text) {
		h.sessions.reset(userID)
		h.reply(chatID, "تراکنش لغو شد.")
		h.showMainMenu(chatID)
		return
	}

	created, err := h.transactions.Create(ctx, domain.Transaction{
		Amount:      sess.amount,
		Description: sess.description,
		IsIncome:    sess.isIncome,
		RecordedAt:  sess.recordedAt,
		UserID:      userID,
	})
	h.sessions.reset(userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("save transaction")
		h.reply(chatID, "❌ خطایی در ثبت تراکنش رخ داد.")
		h.showMainMenu(chatID)
		return
	}

	h.reply(chatID, fmt.Sprintf(
		"✅ %s با موفقیت ثبت شد!\nشناسه: %d\nمبلغ: %s\nتوضیحات: %s\nتاریخ شمسی: %s",
		transactionKind(created.IsIncome),
		created.ID,
		formatToman(created.Amount),
		created.Description,
		solarDate(created.RecordedAt),
	))
	h.showMainMenu(chatID)
}

func transactionKind(isIncome bool) string {
	if isIncome {
		return "درآمد"
	}
	return "هزینه"
}

var errNonPositiveAmount = errors.New("amount must be positive")

// parseAmount accepts comma-grouped input ("50,000") and requires a
// strictly positive value.
func parseAmount(text string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if amount.Sign() <= 0 {
		return decimal.Decimal{}, errNonPositiveAmount
	}
	return amount, nil
}
