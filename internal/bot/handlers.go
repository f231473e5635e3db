package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/syklonAK/hesabdari/internal/config"
	"github.com/syklonAK/hesabdari/internal/debtid"
	"github.com/syklonAK/hesabdari/internal/domain"
)

// TransactionStore is the slice of the transaction ledger the handler
// needs. Every operation is scoped by the owning user.
type TransactionStore interface {
	Create(ctx context.Context, t domain.Transaction) (domain.Transaction, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.Transaction, error)
	FindByID(ctx context.Context, userID, id int64) (domain.Transaction, error)
	DeleteByID(ctx context.Context, userID, id int64) (domain.Transaction, error)
	DeleteAll(ctx context.Context, userID int64) (int64, error)
}

// DebtStore is the debt ledger as seen by the handler. Codes returns
// the global code snapshot the generator pre-checks against.
type DebtStore interface {
	Create(ctx context.Context, d domain.Debt) (domain.Debt, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.Debt, error)
	Codes(ctx context.Context) (map[string]struct{}, error)
	DeleteByCode(ctx context.Context, userID int64, code string) (domain.Debt, error)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handler struct {
	api sender
	cfg config.Config
	log *logrus.Logger

	transactions TransactionStore
	debts        DebtStore

	codes    *debtid.Generator
	sessions *sessions
}

func NewHandler(api sender, cfg config.Config, log *logrus.Logger, t TransactionStore, d DebtStore, g *debtid.Generator) *Handler {
	return &Handler{
		api:          api,
		cfg:          cfg,
		log:          log,
		transactions: t,
		debts:        d,
		codes:        g,
		sessions:     newSessions(),
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}

	msg := upd.Message
	// private chats only
	if msg.Chat == nil || !msg.Chat.IsPrivate() || msg.From == nil {
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID

	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, chatID, userID, text)
		return
	}

	sess := h.sessions.get(userID)
	if sess.state != stateIdle {
		h.advance(ctx, chatID, userID, sess, text)
		return
	}

	h.handleMenuLabel(ctx, chatID, userID, text)
}

// advance feeds a message to the active flow. Cancel tokens and fresh
// flow-starting labels win over the current state.
func (h *Handler) advance(ctx context.Context, chatID, userID int64, sess *session, text string) {
	if isCancel(text) {
		h.cancelFlow(chatID, userID, sess.state)
		return
	}

	switch text {
	case btnIncome:
		h.sessions.reset(userID)
		h.startTransactionFlow(chatID, userID, true)
		return
	case btnExpense:
		h.sessions.reset(userID)
		h.startTransactionFlow(chatID, userID, false)
		return
	case btnAddDebt:
		h.sessions.reset(userID)
		h.startDebtFlow(chatID, userID)
		return
	case btnDeleteDebt:
		h.sessions.reset(userID)
		h.startDebtDeletion(chatID, userID)
		return
	}

	switch sess.state {
	case stateAwaitAmount:
		h.onAmount(chatID, sess, text)
	case stateAwaitDescription:
		h.onDescription(chatID, sess, text)
	case stateAwaitConfirm:
		h.onConfirm(ctx, chatID, userID, sess, text)
	case stateAwaitDebtorName:
		h.onDebtorName(ctx, chatID, userID, sess, text)
	case stateAwaitDebtAmount:
		h.onDebtAmount(chatID, sess, text)
	case stateAwaitDebtDescription:
		h.onDebtDescription(chatID, sess, text)
	case stateAwaitDebtConfirm:
		h.onDebtConfirm(ctx, chatID, userID, sess, text)
	case stateAwaitDebtDeletionCode:
		h.onDebtDeletionCode(ctx, chatID, userID, text)
	default:
		h.sessions.reset(userID)
		h.showMainMenu(chatID)
	}
}

func (h *Handler) handleMenuLabel(ctx context.Context, chatID, userID int64, text string) {
	switch text {
	case btnIncome:
		h.startTransactionFlow(chatID, userID, true)
	case btnExpense:
		h.startTransactionFlow(chatID, userID, false)
	case btnSummary:
		h.sendSummary(ctx, chatID, userID)
	case btnEditMenu:
		h.showEditMenu(chatID)
	case btnDebtorsMenu:
		h.showDebtorsMenu(chatID)
	case btnAddDebt:
		h.startDebtFlow(chatID, userID)
	case btnDeleteDebt:
		h.startDebtDeletion(chatID, userID)
	case btnDebtList:
		h.sendDebtList(ctx, chatID, userID)
	case btnEditTransaction:
		h.reply(chatID, "✏️ برای ویرایش تراکنش از دستور /edit_tr استفاده کنید.\nمثال: /edit_tr 123")
		h.showEditMenu(chatID)
	case btnDeleteTransaction:
		h.reply(chatID, "🗑 برای حذف تراکنش از دستور /del_tr استفاده کنید.\nمثال: /del_tr 123")
		h.showEditMenu(chatID)
	case btnDeleteAll:
		h.deleteAllTransactions(ctx, chatID, userID)
	case btnFieldAmount, btnFieldDescription:
		// the edit flow never got its update path
		h.reply(chatID, "✏️ ویرایش این بخش هنوز در دسترس نیست.")
		h.showEditMenu(chatID)
	case btnBackToMenu:
		h.showMainMenu(chatID)
	default:
		h.showMainMenu(chatID)
	}
}

func (h *Handler) cancelFlow(chatID, userID int64, st state) {
	h.sessions.reset(userID)
	h.reply(chatID, "❌ عملیات لغو شد.")
	if inDebtFlow(st) {
		h.showDebtorsMenu(chatID)
		return
	}
	h.showMainMenu(chatID)
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		h.log.WithError(err).Error("send message")
	}
}

func (h *Handler) replyWithKeyboard(chatID int64, text string, kb tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := h.api.Send(msg); err != nil {
		h.log.WithError(err).Error("send message")
	}
}

func (h *Handler) showMainMenu(chatID int64) {
	h.replyWithKeyboard(chatID, "لطفا یکی از گزینه‌های زیر را انتخاب کنید:", mainMenuKeyboard())
}

func (h *Handler) showEditMenu(chatID int64) {
	h.replyWithKeyboard(chatID, "لطفا عملیات مورد نظر را انتخاب کنید:", editMenuKeyboard())
}

func (h *Handler) showDebtorsMenu(chatID int64) {
	h.replyWithKeyboard(chatID, "لطفا عملیات مورد نظر را انتخاب کنید:", debtorsMenuKeyboard())
}
