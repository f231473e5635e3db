package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/syklonAK/hesabdari/internal/domain"
	"github.com/syklonAK/hesabdari/internal/repo"
)

// handleCommand routes slash commands. A command always wins over an
// active flow.
func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, text string) {
	fields := strings.Fields(text)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "/start":
		h.sessions.reset(userID)
		h.sendWelcome(chatID)
	case "/cancel":
		sess := h.sessions.get(userID)
		h.cancelFlow(chatID, userID, sess.state)
	case "/edit_tr":
		h.editTransaction(ctx, chatID, userID, args)
	case "/del_tr":
		h.deleteTransaction(ctx, chatID, userID, args)
	case "/del_all_tr":
		h.deleteAllTransactions(ctx, chatID, userID)
	case "/debt_list":
		h.sendDebtList(ctx, chatID, userID)
	default:
		h.showMainMenu(chatID)
	}
}

func (h *Handler) sendWelcome(chatID int64) {
	welcome := "👋 به ربات حسابداری شخصی خوش آمدید!\n\n" +
		"📝 دستورات موجود:\n\n" +
		"💰 ثبت درآمد:\n" +
		"دکمه '💰 ثبت درآمد' را بزنید\n" +
		"سپس مبلغ و توضیحات را وارد کنید\n\n" +
		"💸 ثبت هزینه:\n" +
		"دکمه '💸 ثبت هزینه' را بزنید\n" +
		"سپس مبلغ و توضیحات را وارد کنید\n\n" +
		"📊 گزارش مالی:\n" +
		"دکمه '📊 گزارش مالی' را بزنید\n" +
		"نمایش کل درآمد، هزینه و موجودی\n\n" +
		"✏️ ویرایش:\n" +
		"دکمه '✏️ ویرایش' را بزنید\n" +
		"برای ویرایش یا حذف تراکنش‌ها\n\n" +
		"👥 بدهکاران:\n" +
		"دکمه '👥 بدهکاران' را بزنید\n" +
		"برای مدیریت بدهی‌ها\n\n" +
		"📌 نکات:\n" +
		"- مبالغ به تومان وارد شوند\n" +
		"- برای تایید از 'بله' یا 'yes' استفاده کنید\n" +
		"- هر تراکنش دارای یک شناسه منحصر به فرد است\n" +
		"- تاریخ شمسی به صورت خودکار ثبت می‌شود"
	h.replyWithKeyboard(chatID, welcome, mainMenuKeyboard())
}

// editTransaction looks up the target and offers field choices. The
// update path itself was never built; the choices lead back to the
// edit menu.
func (h *Handler) editTransaction(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.reply(chatID, "❌ لطفا شناسه تراکنش را وارد کنید.\nمثال: /edit_tr 123")
		h.showEditMenu(chatID)
		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.reply(chatID, "❌ شناسه تراکنش باید یک عدد باشد.")
		h.showEditMenu(chatID)
		return
	}

	t, err := h.transactions.FindByID(ctx, userID, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		h.reply(chatID, "❌ تراکنش با این شناسه یافت نشد.")
		h.showEditMenu(chatID)
	case err != nil:
		h.log.WithError(err).WithField("user_id", userID).Error("find transaction")
		h.reply(chatID, "❌ خطایی در دریافت تراکنش رخ داد.")
		h.showEditMenu(chatID)
	default:
		h.replyWithKeyboard(chatID, fmt.Sprintf(
			"چه بخشی از تراکنش زیر را می‌خواهید ویرایش کنید؟\n\n%s\nتاریخ شمسی: %s",
			formatTransactionLine(t),
			solarDate(t.RecordedAt),
		), editFieldsKeyboard())
	}
}

func (h *Handler) deleteTransaction(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) == 0 {
		h.reply(chatID, "❌ لطفا شناسه تراکنش را وارد کنید.\nمثال: /del_tr 123")
		h.showEditMenu(chatID)
		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.reply(chatID, "❌ شناسه تراکنش باید یک عدد باشد.")
		h.showEditMenu(chatID)
		return
	}

	deleted, err := h.transactions.DeleteByID(ctx, userID, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		h.reply(chatID, "❌ تراکنش با این شناسه یافت نشد.")
	case err != nil:
		h.log.WithError(err).WithField("user_id", userID).Error("delete transaction")
		h.reply(chatID, "❌ خطایی در حذف تراکنش رخ داد.")
	default:
		h.reply(chatID, fmt.Sprintf("✅ تراکنش با موفقیت حذف شد.\n%s", formatTransactionLine(deleted)))
	}
	h.showEditMenu(chatID)
}

func (h *Handler) deleteAllTransactions(ctx context.Context, chatID, userID int64) {
	count, err := h.transactions.DeleteAll(ctx, userID)
	switch {
	case err != nil:
		h.log.WithError(err).WithField("user_id", userID).Error("delete all transactions")
		h.reply(chatID, "❌ خطایی در حذف تراکنش‌ها رخ داد.")
	case count == 0:
		h.reply(chatID, "❌ هیچ تراکنشی برای حذف وجود ندارد.")
	default:
		h.reply(chatID, fmt.Sprintf("✅ %d تراکنش با موفقیت حذف شد.", count))
	}
	h.showEditMenu(chatID)
}

func (h *Handler) sendSummary(ctx context.Context, chatID, userID int64) {
	transactions, err := h.transactions.ListByOwner(ctx, userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("list transactions")
		h.reply(chatID, "❌ خطایی در دریافت گزارش رخ داد.")
		h.showMainMenu(chatID)
		return
	}
	if len(transactions) == 0 {
		h.reply(chatID, "هنوز تراکنشی ثبت نشده است.")
		h.showMainMenu(chatID)
		return
	}

	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	for _, t := range transactions {
		if t.IsIncome {
			totalIncome = totalIncome.Add(t.Amount)
		} else {
			totalExpenses = totalExpenses.Add(t.Amount)
		}
	}
	balance := totalIncome.Sub(totalExpenses)

	recent := make([]domain.Transaction, len(transactions))
	copy(recent, transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].RecordedAt.After(recent[j].RecordedAt)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}

	var b strings.Builder
	b.WriteString("📊 خلاصه مالی\n\n")
	fmt.Fprintf(&b, "کل درآمد: %s\n", formatToman(totalIncome))
	fmt.Fprintf(&b, "کل هزینه: %s\n", formatToman(totalExpenses))
	fmt.Fprintf(&b, "موجودی: %s\n\n", formatToman(balance))
	b.WriteString("تراکنش‌های اخیر:\n")
	for _, t := range recent {
		fmt.Fprintf(&b, "%s\nتاریخ شمسی: %s\n\n", formatTransactionLine(t), solarDate(t.RecordedAt))
	}

	h.reply(chatID, b.String())
	h.showMainMenu(chatID)
}

func (h *Handler) sendDebtList(ctx context.Context, chatID, userID int64) {
	debts, err := h.debts.ListByOwner(ctx, userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("list debts")
		h.reply(chatID, "❌ خطایی در دریافت لیست بدهی‌ها رخ داد.")
		h.showDebtorsMenu(chatID)
		return
	}
	if len(debts) == 0 {
		h.reply(chatID, "هیچ بدهی ثبت نشده است.")
		h.showDebtorsMenu(chatID)
		return
	}

	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Amount)
	}

	var b strings.Builder
	b.WriteString("📋 لیست بدهی‌ها\n\n")
	fmt.Fprintf(&b, "کل بدهی: %s\n\n", formatToman(total))
	for i, d := range debts {
		fmt.Fprintf(&b,
			"نام بدهکار: %s\nشناسه بدهکار: %s\nمبلغ: %s\nتاریخ: %s\nتوضیحات: %s\n",
			d.DebtorName,
			d.DebtorCode,
			formatToman(d.Amount),
			solarDate(d.RecordedAt),
			orPlaceholder(d.Description),
		)
		if i < len(debts)-1 {
			b.WriteString("➖➖➖➖➖➖➖➖➖➖\n")
		}
	}

	h.reply(chatID, b.String())
	h.showDebtorsMenu(chatID)
}

func formatTransactionLine(t domain.Transaction) string {
	glyph := "💸"
	if t.IsIncome {
		glyph = "💰"
	}
	return fmt.Sprintf("شناسه: %d\n%s %s - %s", t.ID, glyph, formatToman(t.Amount), t.Description)
}
