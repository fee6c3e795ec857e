package utils

import "strings"

var regexSpecials = `\.+*?()|[]{}^$`

// EscapeRegex neutraliza metacaracteres para buscas com $regex montadas a
// partir de texto do usuário.
func EscapeRegex(input string) string {
	var builder strings.Builder
	for _, char := range input {
		if strings.ContainsRune(regexSpecials, char) {
			builder.WriteRune('\\')
		}
		builder.WriteRune(char)
	}
	return builder.String()
}
