package bot

import (
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syklonAK/hesabdari/internal/config"
	"github.com/syklonAK/hesabdari/internal/debtid"
	"github.com/syklonAK/hesabdari/internal/domain"
	"github.com/syklonAK/hesabdari/internal/repo"
)

const testUserID int64 = 11

type fakeSender struct{ sent []tgbotapi.MessageConfig }

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) joined() string {
	texts := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		texts = append(texts, m.Text)
	}
	return strings.Join(texts, "\n===\n")
}

func (f *fakeSender) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Text
}

func (f *fakeSender) clear() { f.sent = nil }

type fakeTransactions struct {
	nextID    int64
	items     []domain.Transaction
	createErr error
}

func (f *fakeTransactions) Create(_ context.Context, t domain.Transaction) (domain.Transaction, error) {
	if f.createErr != nil {
		return domain.Transaction{}, f.createErr
	}
	f.nextID++
	t.ID = f.nextID
	f.items = append(f.items, t)
	return t, nil
}

func (f *fakeTransactions) ListByOwner(_ context.Context, userID int64) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, t := range f.items {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactions) FindByID(_ context.Context, userID, id int64) (domain.Transaction, error) {
	for _, t := range f.items {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return domain.Transaction{}, repo.ErrNotFound
}

func (f *fakeTransactions) DeleteByID(_ context.Context, userID, id int64) (domain.Transaction, error) {
	for i, t := range f.items {
		if t.ID == id && t.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return t, nil
		}
	}
	return domain.Transaction{}, repo.ErrNotFound
}

func (f *fakeTransactions) DeleteAll(_ context.Context, userID int64) (int64, error) {
	kept := f.items[:0:0]
	var deleted int64
	for _, t := range f.items {
		if t.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	f.items = kept
	return deleted, nil
}

type fakeDebts struct {
	items map[string]domain.Debt
	// failCreates makes the next N creates report a taken code, as a
	// concurrent insert would.
	failCreates int
}

func newFakeDebts() *fakeDebts { return &fakeDebts{items: map[string]domain.Debt{}} }

func (f *fakeDebts) Create(_ context.Context, d domain.Debt) (domain.Debt, error) {
	if f.failCreates > 0 {
		f.failCreates--
		return domain.Debt{}, repo.ErrDuplicateCode
	}
	if _, taken := f.items[d.DebtorCode]; taken {
		return domain.Debt{}, repo.ErrDuplicateCode
	}
	f.items[d.DebtorCode] = d
	return d, nil
}

func (f *fakeDebts) ListByOwner(_ context.Context, userID int64) ([]domain.Debt, error) {
	var out []domain.Debt
	for _, d := range f.items {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDebts) Codes(_ context.Context) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(f.items))
	for code := range f.items {
		out[code] = struct{}{}
	}
	return out, nil
}

func (f *fakeDebts) DeleteByCode(_ context.Context, userID int64, code string) (domain.Debt, error) {
	d, ok := f.items[code]
	if !ok || d.UserID != userID {
		return domain.Debt{}, repo.ErrNotFound
	}
	delete(f.items, code)
	return d, nil
}

func newTestHandler(t *testing.T) (*Handler, *fakeSender, *fakeTransactions, *fakeDebts) {
	t.Helper()
	s := &fakeSender{}
	ft := &fakeTransactions{}
	fd := newFakeDebts()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewHandler(s, config.Config{}, logger, ft, fd, debtid.New(rand.New(rand.NewSource(1))))
	return h, s, ft, fd
}

func send(h *Handler, texts ...string) {
	for _, text := range texts {
		h.HandleUpdate(context.Background(), userMessage(text))
	}
}

func userMessage(text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			From: &tgbotapi.User{ID: testUserID},
			Chat: &tgbotapi.Chat{ID: testUserID, Type: "private"},
		},
	}
}

func TestRecordIncomeFlow(t *testing.T) {
	h, s, ft, _ := newTestHandler(t)

	send(h, btnIncome, "50000", "salary", "بله")

	require.Len(t, ft.items, 1)
	saved := ft.items[0]
	assert.True(t, saved.Amount.Equal(decimal.NewFromInt(50000)))
	assert.True(t, saved.IsIncome)
	assert.Equal(t, "salary", saved.Description)
	assert.Equal(t, testUserID, saved.UserID)
	assert.Contains(t, s.joined(), "✅ درآمد با موفقیت ثبت شد!")

	s.clear()
	send(h, btnSummary)
	summary := s.joined()
	assert.Contains(t, summary, "کل درآمد: 50,000 تومان")
	assert.Contains(t, summary, "کل هزینه: 0 تومان")
	assert.Contains(t, summary, "موجودی: 50,000 تومان")
	assert.Contains(t, summary, "salary")
}

func TestRecordDebtFlow(t *testing.T) {
	h, s, _, fd := newTestHandler(t)

	send(h, btnAddDebt, "Alice")
	code := h.sessions.get(testUserID).debtorCode
	require.Regexp(t, debtid.Pattern, code)
	assert.Contains(t, s.last(), code)

	send(h, "10000", btnSkip, "yes")

	require.Len(t, fd.items, 1)
	saved, ok := fd.items[code]
	require.True(t, ok)
	assert.Equal(t, "Alice", saved.DebtorName)
	assert.True(t, saved.Amount.Equal(decimal.NewFromInt(10000)))
	assert.Nil(t, saved.Description)
	assert.Equal(t, testUserID, saved.UserID)

	s.clear()
	send(h, btnDebtList)
	list := s.joined()
	assert.Contains(t, list, "کل بدهی: 10,000 تومان")
	assert.Contains(t, list, "Alice")
	assert.Contains(t, list, code)
	assert.Contains(t, list, "توضیحات: -")
}

func TestDeleteMissingTransaction(t *testing.T) {
	h, s, ft, _ := newTestHandler(t)

	send(h, "/del_tr 999")

	assert.Empty(t, ft.items)
	assert.Contains(t, s.joined(), "❌ تراکنش با این شناسه یافت نشد.")
	// edit menu redisplayed
	assert.Equal(t, "لطفا عملیات مورد نظر را انتخاب کنید:", s.last())
}

func TestDeleteTransactionArgumentErrors(t *testing.T) {
	h, s, _, _ := newTestHandler(t)

	send(h, "/del_tr")
	assert.Contains(t, s.joined(), "لطفا شناسه تراکنش را وارد کنید")

	s.clear()
	send(h, "/del_tr abc")
	assert.Contains(t, s.joined(), "شناسه تراکنش باید یک عدد باشد")
	assert.Equal(t, stateIdle, h.sessions.get(testUserID).state)
}

func TestInvalidAmountReprompts(t *testing.T) {
	h, s, _, _ := newTestHandler(t)

	send(h, btnExpense, "abc")
	assert.Equal(t, stateAwaitAmount, h.sessions.get(testUserID).state)
	assert.Contains(t, s.last(), "❌ لطفا یک عدد معتبر وارد کنید:")

	send(h, "20000")
	assert.Equal(t, stateAwaitDescription, h.sessions.get(testUserID).state)
}

func TestCancellationResetsScratch(t *testing.T) {
	h, s, ft, _ := newTestHandler(t)

	// cancel mid-flow, token case-insensitive
	send(h, btnIncome, "50000", "CANCEL")
	assert.Equal(t, stateIdle, h.sessions.get(testUserID).state)
	assert.Contains(t, s.joined(), "❌ عملیات لغو شد.")

	// a fresh flow sees none of the discarded scratch
	s.clear()
	send(h, btnExpense, "700", "tea", "y")
	require.Len(t, ft.items, 1)
	assert.True(t, ft.items[0].Amount.Equal(decimal.NewFromInt(700)))
	assert.False(t, ft.items[0].IsIncome)
	assert.Equal(t, "tea", ft.items[0].Description)
}

func TestCancellationFromDebtFlowShowsDebtorsMenu(t *testing.T) {
	h, s, _, fd := newTestHandler(t)

	send(h, btnAddDebt, "Bob", "لغو")
	assert.Equal(t, stateIdle, h.sessions.get(testUserID).state)
	assert.Empty(t, fd.items)
	assert.Contains(t, s.joined(), "❌ عملیات لغو شد.")
}

func TestNegativeBalance(t *testing.T) {
	h, s, ft, _ := newTestHandler(t)

	now := time.Now()
	ft.items = []domain.Transaction{
		{ID: 1, Amount: decimal.NewFromInt(10000), Description: "x", RecordedAt: now, UserID: testUserID},
		{ID: 2, Amount: decimal.NewFromInt(20000), Description: "y", RecordedAt: now.Add(time.Minute), UserID: testUserID},
	}
	ft.nextID = 2

	send(h, btnSummary)
	summary := s.joined()
	assert.Contains(t, summary, "کل درآمد: 0 تومان")
	assert.Contains(t, summary, "کل هزینه: 30,000 تومان")
	assert.Contains(t, summary, "موجودی: -30,000 تومان")
}

func TestSummaryShowsFiveMostRecent(t *testing.T) {
	h, s, ft, _ := newTestHandler(t)

	base := time.Now()
	for i := 0; i < 7; i++ {
		ft.items = append(ft.items, domain.Transaction{
			ID:          int64(i + 1),
			Amount:      decimal.NewFromInt(int64(1000 * (i + 1))),
			Description: "t",
			IsIncome:    true,
			RecordedAt:  base.Add(time.Duration(i) * time.Hour),
			UserID:      testUserID,
		})
	}
	ft.nextID = 7

	send(h, btnSummary)
	summary := s.joined()
	// the two oldest entries are not listed
	assert.NotContains(t, summary, "شناسه: 1\n")
	assert.NotContains(t, summary, "شناسه: 2\n")
	assert.Contains(t, summary, "شناسه: 7\n")
	// most recent first
	assert.Less(t, strings.Index(summary, "شناسه: 7\n"), strings.Index(summary, "شناسه: 3\n"))
}

func TestDebtCreateRetriesOnTakenCode(t *testing.T) {
	h, s, _, fd := newTestHandler(t)
	fd.failCreates = 1

	send(h, btnAddDebt, "Alice", "10000", "skip", "بله")

	require.Len(t, fd.items, 1)
	assert.Contains(t, s.joined(), "✅ بدهی با موفقیت ثبت شد!")
	for code := range fd.items {
		assert.Regexp(t, debtid.Pattern, code)
	}
}

func TestDeleteDebtByCode(t *testing.T) {
	h, s, _, fd := newTestHandler(t)
	fd.items["b47"] = domain.Debt{
		DebtorCode: "b47",
		DebtorName: "Alice",
		Amount:     decimal.NewFromInt(10000),
		RecordedAt: time.Now(),
		UserID:     testUserID,
	}

	send(h, btnDeleteDebt, "  b47  ")

	assert.Empty(t, fd.items)
	assert.Contains(t, s.joined(), "✅ بدهی با موفقیت حذف شد!")
	assert.Equal(t, stateIdle, h.sessions.get(testUserID).state)
}

func TestDeleteDebtOwnedBySomeoneElse(t *testing.T) {
	h, s, _, fd := newTestHandler(t)
	fd.items["c55"] = domain.Debt{
		DebtorCode: "c55",
		DebtorName: "Other",
		Amount:     decimal.NewFromInt(500),
		RecordedAt: time.Now(),
		UserID:     testUserID + 1,
	}

	send(h, btnDeleteDebt, "c55")

	// no distinction between missing and foreign records
	assert.Contains(t, s.joined(), "❌ بدهی با این شناسه یافت نشد.")
	assert.Len(t, fd.items, 1)
}

func TestFlowStartLabelInterruptsActiveFlow(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	send(h, btnIncome, btnAddDebt)
	sess := h.sessions.get(testUserID)
	assert.Equal(t, stateAwaitDebtorName, sess.state)
	assert.False(t, sess.isIncome)
}

func TestUnknownTextShowsMainMenu(t *testing.T) {
	h, s, _, _ := newTestHandler(t)

	send(h, "whatever")
	assert.Equal(t, "لطفا یکی از گزینه‌های زیر را انتخاب کنید:", s.last())
	assert.Equal(t, stateIdle, h.sessions.get(testUserID).state)
}

func TestStartResetsActiveFlow(t *testing.T) {
	h, s, _, _ := newTestHandler(t)

	send(h, btnIncome, "/start")
	assert.Equal(t, stateIdle, h.sessions.get(testUserID).state)
	assert.Contains(t, s.joined(), "خوش آمدید")
}

func TestPersistenceFaultTerminatesFlow(t *testing.T) {
	h, s, ft, _ := newTestHandler(t)
	ft.createErr = context.DeadlineExceeded

	send(h, btnIncome, "50000", "salary", "بله")

	assert.Empty(t, ft.items)
	assert.Contains(t, s.joined(), "❌ خطایی در ثبت تراکنش رخ داد.")
	assert.Equal(t, stateIdle, h.sessions.get(testUserID).state)
	// back at the main menu, not stuck in the flow
	assert.Equal(t, "لطفا یکی از گزینه‌های زیر را انتخاب کنید:", s.last())
}

func TestGroupMessagesIgnored(t *testing.T) {
	h, s, _, _ := newTestHandler(t)

	upd := userMessage(btnIncome)
	upd.Message.Chat.Type = "group"
	h.HandleUpdate(context.Background(), upd)

	assert.Empty(t, s.sent)
	assert.Equal(t, stateIdle, h.sessions.get(testUserID).state)
}
