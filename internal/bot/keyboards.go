package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Menu buttons are plain text: Telegram sends the label back as an
// ordinary message, so these literals double as the dispatch
// vocabulary.
const (
	btnIncome      = "💰 ثبت درآمد"
	btnExpense     = "💸 ثبت هزینه"
	btnSummary     = "📊 گزارش مالی"
	btnEditMenu    = "✏️ ویرایش"
	btnDebtorsMenu = "👥 بدهکاران"

	btnEditTransaction   = "✏️ ویرایش تراکنش"
	btnDeleteTransaction = "🗑️ حذف تراکنش"
	btnDeleteAll         = "🗑️ حذف همه"
	btnBackToMenu        = "🔙 بازگشت به منو"

	btnAddDebt    = "➕ ثبت بدهی"
	btnDeleteDebt = "🗑️ حذف بدهی"
	btnDebtList   = "📋 لیست بدهی‌ها"

	btnCancel = "❌ لغو"
	btnYes    = "✅ بله"
	btnNo     = "❌ خیر"
	btnSkip   = "⏭️ رد کردن"

	btnFieldAmount      = "مبلغ"
	btnFieldDescription = "توضیحات"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnIncome),
			tgbotapi.NewKeyboardButton(btnExpense),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSummary),
			tgbotapi.NewKeyboardButton(btnEditMenu),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDebtorsMenu),
		),
	)
}

func editMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnEditTransaction),
			tgbotapi.NewKeyboardButton(btnDeleteTransaction),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDeleteAll),
			tgbotapi.NewKeyboardButton(btnBackToMenu),
		),
	)
}

func debtorsMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAddDebt),
			tgbotapi.NewKeyboardButton(btnDeleteDebt),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDebtList),
			tgbotapi.NewKeyboardButton(btnBackToMenu),
		),
	)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnYes),
			tgbotapi.NewKeyboardButton(btnNo),
		),
	)
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
			tgbotapi.NewKeyboardButton(btnSkip),
		),
	)
}

func editFieldsKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnFieldAmount),
			tgbotapi.NewKeyboardButton(btnFieldDescription),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBackToMenu),
		),
	)
}
