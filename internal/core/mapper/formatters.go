package mapper

import (
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RatingWidth - ширина полоски звёзд в процентах: рейтинг округляется до целой звезды.
func RatingWidth(rating float64) int {
	return int(math.Round(rating)) * 20
}

// CapitalizeFirst делает заглавной только первую руну, остальное не трогает.
func CapitalizeFirst(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	caser := cases.Upper(language.Und)

	// Преобразуем только первую руну
	firstRuneUpper := []rune(caser.String(string(runes[0])))
	if len(firstRuneUpper) != 1 {
		// например, "ß" -> "SS": оставляем как есть
		return s
	}
	runes[0] = firstRuneUpper[0]

	return string(runes)
}
