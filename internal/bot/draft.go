package bot

import (
	"strings"
	"time"

	"orderly/internal/domain"
)

// Step is the point a conversation has reached.
type Step int

const (
	AwaitLanguage Step = iota
	AwaitCategory
	AwaitProduct
	AwaitName
	AwaitPhone
	AwaitAddress
	AwaitQuantity
	AwaitSize
	Committed
)

var stepNames = [...]string{
	"await_language", "await_category", "await_product", "await_name", "await_phone",
	"await_address", "await_quantity", "await_size", "committed",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// selection reports whether the step is answered by picking an offered option.
func (s Step) selection() bool { return s <= AwaitProduct }

// Draft accumulates one user's order. Fields are written only by the step
// that owns them, so every field before the current step is set.
type Draft struct {
	step     Step
	lang     domain.Language
	category domain.Category
	product  string
	name     string
	phone    string
	address  string
	quantity string
	size     string
	offered  []Option
	touched  time.Time
}

func newDraft(now time.Time) *Draft {
	return &Draft{step: AwaitLanguage, offered: languageOptions(), touched: now}
}

func (d *Draft) offers(token string) bool {
	for _, o := range d.offered {
		if o.Token == token {
			return true
		}
	}
	return false
}

// afterQuantity is the only branch in the flow: clothing needs a size.
func (d *Draft) afterQuantity() Step {
	if d.category == domain.CategoryClothing {
		return AwaitSize
	}
	return Committed
}

func (d *Draft) order() domain.NewOrder {
	o := domain.NewOrder{
		Category:     d.category,
		Product:      d.product,
		CustomerName: d.name,
		Phone:        d.phone,
		Address:      d.address,
		Quantity:     d.quantity,
		Language:     d.lang,
	}
	if d.category == domain.CategoryClothing {
		o.Size = d.size
	}
	return o
}

// prompt is what the user should see for the draft's current step.
func (d *Draft) prompt() Reply {
	switch d.step {
	case AwaitLanguage:
		return Reply{Text: text(txtChooseLanguage, d.lang), Options: d.offered}
	case AwaitCategory:
		return Reply{Text: text(txtChooseCategory, d.lang), Options: d.offered}
	case AwaitProduct:
		return Reply{Text: text(txtChooseProduct, d.lang), Options: d.offered}
	case AwaitName:
		return Reply{Text: text(txtAskName, d.lang)}
	case AwaitPhone:
		return Reply{Text: text(txtAskPhone, d.lang)}
	case AwaitAddress:
		return Reply{Text: text(txtAskAddress, d.lang)}
	case AwaitQuantity:
		return Reply{Text: text(txtAskQuantity, d.lang)}
	case AwaitSize:
		return Reply{Text: text(txtAskSize, d.lang)}
	}
	return Reply{}
}

// maxTextRunes caps free-text answers.
const maxTextRunes = 256

func cleanText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > maxTextRunes {
		return "", false
	}
	return s, true
}
