package queue

// MaskReferralCode частично скрывает код неактивной заявки, чтобы зрители
// не могли использовать чужой код раньше своей очереди.
// Короткие коды (до 6 символов) показывают последние 3 символа, длинные — последние 6.
// Длина и срез считаются в символах: код из не-ASCII символов остаётся корректным UTF-8.
func MaskReferralCode(code string) string {
	runes := []rune(code)
	if len(runes) <= 3 {
		return "***" + code
	}
	if len(runes) <= 6 {
		return "***" + string(runes[len(runes)-3:])
	}
	return "***" + string(runes[len(runes)-6:])
}
