package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/syklonAK/hesabdari/internal/domain"
	"github.com/syklonAK/hesabdari/internal/repo"
)

func (h *Handler) startDebtFlow(chatID, userID int64) {
	sess := h.sessions.get(userID)
	*sess = session{state: stateAwaitDebtorName}
	h.replyWithKeyboard(chatID, "👤 لطفا نام بدهکار را وارد کنید:", cancelKeyboard())
}

func (h *Handler) startDebtDeletion(chatID, userID int64) {
	sess := h.sessions.get(userID)
	*sess = session{state: stateAwaitDebtDeletionCode}
	h.replyWithKeyboard(chatID, "🔑 لطفا شناسه بدهی را وارد کنید:", cancelKeyboard())
}

// onDebtorName stores the name and eagerly assigns a code so the user
// sees it up front. Nothing is persisted until confirmation, so an
// abandoned code simply goes back into the pool.
func (h *Handler) onDebtorName(ctx context.Context, chatID, userID int64, sess *session, text string) {
	existing, err := h.debts.Codes(ctx)
	if err != nil {
		h.log.WithError(err).Error("load debtor codes")
		h.failDebtFlow(chatID, userID)
		return
	}
	code, err := h.codes.Generate(existing)
	if err != nil {
		h.log.WithError(err).Error("generate debtor code")
		h.failDebtFlow(chatID, userID)
		return
	}

	sess.debtorName = text
	sess.debtorCode = code
	sess.state = stateAwaitDebtAmount
	h.replyWithKeyboard(chatID, fmt.Sprintf(
		"👤 نام بدهکار: %s\n🔑 شناسه بدهکار: %s\n\n💰 لطفا مبلغ بدهی را وارد کنید:",
		sess.debtorName, sess.debtorCode,
	), cancelKeyboard())
}

func (h *Handler) onDebtAmount(chatID int64, sess *session, text string) {
	amount, err := parseAmount(text)
	if err != nil {
		h.replyWithKeyboard(chatID, "❌ لطفا یک عدد معتبر وارد کنید:", cancelKeyboard())
		return
	}

	sess.debtAmount = amount
	sess.state = stateAwaitDebtDescription
	h.replyWithKeyboard(chatID, "📝 لطفا توضیحات بدهی را وارد کنید (اختیاری):", skipKeyboard())
}

func (h *Handler) onDebtDescription(chatID int64, sess *session, text string) {
	if !isSkip(text) {
		desc := text
		sess.debtDescription = &desc
	}
	sess.recordedAt = time.Now()
	sess.state = stateAwaitDebtConfirm

	confirmation := fmt.Sprintf(
		"لطفا اطلاعات بدهی زیر را تایید کنید:\n\nنام بدهکار: %s\nشناسه بدهکار: %s\nمبلغ: %s\nتوضیحات: %s\nتاریخ شمسی: %s\n\nآیا صحیح است؟ (بله/خیر)",
		sess.debtorName,
		sess.debtorCode,
		formatToman(sess.debtAmount),
		orPlaceholder(sess.debtDescription),
		solarDate(sess.recordedAt),
	)
	h.replyWithKeyboard(chatID, confirmation, confirmKeyboard())
}

func (h *Handler) onDebtConfirm(ctx context.Context, chatID, userID int64, sess *session, text string) {
	if !isAffirmative(text) {
		h.sessions.reset(userID)
		h.reply(chatID, "ثبت بدهی لغو شد.")
		h.showDebtorsMenu(chatID)
		return
	}

	created, err := h.createDebtWithRetry(ctx, domain.Debt{
		DebtorCode:  sess.debtorCode,
		DebtorName:  sess.debtorName,
		Amount:      sess.debtAmount,
		Description: sess.debtDescription,
		RecordedAt:  sess.recordedAt,
		UserID:      userID,
	})
	h.sessions.reset(userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("save debt")
		h.reply(chatID, "❌ خطایی در ثبت بدهی رخ داد.")
		h.showDebtorsMenu(chatID)
		return
	}

	h.reply(chatID, fmt.Sprintf(
		"✅ بدهی با موفقیت ثبت شد!\n\nشناسه بدهکار: %s\nنام بدهکار: %s\nمبلغ: %s\nتاریخ: %s\nتوضیحات: %s",
		created.DebtorCode,
		created.DebtorName,
		formatToman(created.Amount),
		solarDate(created.RecordedAt),
		orPlaceholder(created.Description),
	))
	h.showDebtorsMenu(chatID)
}

// createDebtWithRetry regenerates the code when a concurrent flow took
// it between the snapshot and the insert. The store's uniqueness
// constraint is the authority; the pre-check only keeps retries rare.
func (h *Handler) createDebtWithRetry(ctx context.Context, d domain.Debt) (domain.Debt, error) {
	const attempts = 3
	for i := 0; i < attempts; i++ {
		created, err := h.debts.Create(ctx, d)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repo.ErrDuplicateCode) {
			return domain.Debt{}, err
		}

		existing, err := h.debts.Codes(ctx)
		if err != nil {
			return domain.Debt{}, err
		}
		code, err := h.codes.Generate(existing)
		if err != nil {
			return domain.Debt{}, err
		}
		d.DebtorCode = code
	}
	return domain.Debt{}, repo.ErrDuplicateCode
}

func (h *Handler) onDebtDeletionCode(ctx context.Context, chatID, userID int64, text string) {
	code := strings.TrimSpace(text)
	deleted, err := h.debts.DeleteByCode(ctx, userID, code)
	h.sessions.reset(userID)

	switch {
	case errors.Is(err, repo.ErrNotFound):
		h.reply(chatID, "❌ بدهی با این شناسه یافت نشد.")
	case err != nil:
		h.log.WithError(err).WithField("user_id", userID).Error("delete debt")
		h.reply(chatID, "❌ خطایی در حذف بدهی رخ داد.")
	default:
		h.reply(chatID, fmt.Sprintf(
			"✅ بدهی با موفقیت حذف شد!\n\nشناسه بدهکار: %s\nنام بدهکار: %s\nمبلغ: %s\nتاریخ: %s",
			deleted.DebtorCode,
			deleted.DebtorName,
			formatToman(deleted.Amount),
			solarDate(deleted.RecordedAt),
		))
	}
	h.showDebtorsMenu(chatID)
}

func (h *Handler) failDebtFlow(chatID, userID int64) {
	h.sessions.reset(userID)
	h.reply(chatID, "❌ خطایی در ثبت بدهی رخ داد.")
	h.showDebtorsMenu(chatID)
}

func orPlaceholder(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}
