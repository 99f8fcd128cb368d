package bot

import "orderly/internal/domain"

type product struct {
	Name  string // stored on the order
	Label string // shown on the button
}

var catalog = map[domain.Category][]product{
	domain.CategoryFood: {
		{Name: "Pizza", Label: "🍕 Pizza"},
		{Name: "Burger", Label: "🍔 Burger"},
		{Name: "Salad", Label: "🥗 Salad"},
	},
	domain.CategoryClothing: {
		{Name: "T-Shirt", Label: "👕 T-Shirt"},
		{Name: "Jeans", Label: "👖 Jeans"},
		{Name: "Jacket", Label: "🧥 Jacket"},
	},
}

const (
	langPrefix    = "lang_"
	catPrefix     = "cat_"
	productPrefix = "prod_"
)

type textKey int

const (
	txtChooseLanguage textKey = iota
	txtChooseCategory
	txtChooseProduct
	txtAskName
	txtAskPhone
	txtAskAddress
	txtAskQuantity
	txtAskSize
	txtConfirm
	txtFailure
	txtSendStart
)

var texts = map[textKey]map[domain.Language]string{
	txtChooseCategory: {domain.LangArabic: "اختر نوع النشاط:", domain.LangEnglish: "Choose business type:"},
	txtChooseProduct:  {domain.LangArabic: "اختر المنتج:", domain.LangEnglish: "Choose product:"},
	txtAskName:        {domain.LangArabic: "اكتب اسمك:", domain.LangEnglish: "Enter your name:"},
	txtAskPhone:       {domain.LangArabic: "اكتب رقم الهاتف:", domain.LangEnglish: "Enter phone number:"},
	txtAskAddress:     {domain.LangArabic: "اكتب العنوان:", domain.LangEnglish: "Enter address:"},
	txtAskQuantity:    {domain.LangArabic: "اكتب الكمية:", domain.LangEnglish: "Enter quantity:"},
	txtAskSize:        {domain.LangArabic: "اكتب المقاس:", domain.LangEnglish: "Enter size:"},
	txtConfirm: {
		domain.LangArabic:  "✅ تم استلام طلبك، سنتواصل معك قريبًا",
		domain.LangEnglish: "✅ Order received, we will contact you soon",
	},
	txtFailure: {
		domain.LangArabic:  "❌ تعذر حفظ طلبك، يرجى المحاولة مرة أخرى عبر /start",
		domain.LangEnglish: "❌ We could not save your order, please try again with /start",
	},
}

// shown before a language is known
const (
	bilingualChooseLanguage = "اختر اللغة / Choose language:"
	bilingualSendStart      = "أرسل /start للبدء / Send /start to begin"
)

var categoryLabels = map[domain.Category]map[domain.Language]string{
	domain.CategoryFood:     {domain.LangArabic: "🍔 طعام", domain.LangEnglish: "🍔 Food"},
	domain.CategoryClothing: {domain.LangArabic: "👕 ملابس", domain.LangEnglish: "👕 Clothing"},
}

func text(k textKey, lang domain.Language) string {
	if k == txtChooseLanguage {
		return bilingualChooseLanguage
	}
	if k == txtSendStart {
		return bilingualSendStart
	}
	return texts[k][lang]
}

func languageOptions() []Option {
	return []Option{
		{Token: langPrefix + string(domain.LangArabic), Label: "🇸🇦 العربية"},
		{Token: langPrefix + string(domain.LangEnglish), Label: "🇺🇸 English"},
	}
}

func categoryOptions(lang domain.Language) []Option {
	out := make([]Option, 0, 2)
	for _, c := range []domain.Category{domain.CategoryFood, domain.CategoryClothing} {
		out = append(out, Option{Token: catPrefix + string(c), Label: categoryLabels[c][lang]})
	}
	return out
}

func productOptions(c domain.Category) []Option {
	items := catalog[c]
	out := make([]Option, 0, len(items))
	for _, p := range items {
		out = append(out, Option{Token: productPrefix + p.Name, Label: p.Label})
	}
	return out
}

func productByToken(c domain.Category, token string) (product, bool) {
	for _, p := range catalog[c] {
		if productPrefix+p.Name == token {
			return p, true
		}
	}
	return product{}, false
}
