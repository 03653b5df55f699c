package lingo

import (
	"strings"

	"golang.org/x/text/language"
)

// LanguageNames maps language codes to human-readable names for prompts.
// Base codes name the language; locale codes name the regional variant.
var LanguageNames = map[string]string{
	"ar": "Arabic",
	"bg": "Bulgarian",
	"bn": "Bengali",
	"ca": "Catalan",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"et": "Estonian",
	"fa": "Persian",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hr": "Croatian",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"lt": "Lithuanian",
	"lv": "Latvian",
	"ms": "Malay",
	"nb": "Norwegian Bokmål",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"sr": "Serbian",
	"sv": "Swedish",
	"sw": "Swahili",
	"th": "Thai",
	"tl": "Tagalog",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"ur": "Urdu",
	"vi": "Vietnamese",
	"zh": "Chinese",

	"en_US": "English (United States)",
	"en_GB": "English (United Kingdom)",
	"es_ES": "Spanish (Spain)",
	"es_MX": "Spanish (Mexico)",
	"fr_FR": "French (France)",
	"fr_CA": "French (Canada)",
	"pt_BR": "Portuguese (Brazil)",
	"pt_PT": "Portuguese (Portugal)",
	"zh_CN": "Chinese (Simplified)",
	"zh_TW": "Chinese (Traditional)",
	"zh_Hans": "Chinese (Simplified)",
	"zh_Hant": "Chinese (Traditional)",
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// GetLanguageName returns the human-readable name for a language code.
// Codes are matched as given, then canonicalised ("pt-br" and "pt_BR" are the
// same), then by base language. Unknown codes are returned unchanged.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[langCode]; ok {
		return name
	}

	tag, err := language.Parse(NormalizeLocale(langCode, "-"))
	if err != nil {
		return langCode
	}

	if name, ok := LanguageNames[NormalizeLocale(tag.String(), "_")]; ok {
		return name
	}

	base, conf := tag.Base()
	if conf == language.No {
		return langCode
	}
	if name, ok := LanguageNames[base.String()]; ok {
		return name
	}
	return langCode
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(langCode string) string {
	parts := strings.FieldsFunc(langCode, isLocaleSeparator)
	if len(parts) > 0 && RTLLanguages[strings.ToLower(parts[0])] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(langCode string) bool {
	return GetDirection(langCode) == "rtl"
}

// NormalizeLocale rewrites locale separators to sep (e.g., "es-ES" → "es_ES").
func NormalizeLocale(langCode, sep string) string {
	return strings.Join(strings.FieldsFunc(langCode, isLocaleSeparator), sep)
}

func isLocaleSeparator(r rune) bool {
	return r == '-' || r == '_'
}
