package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "no_branch":
			return "どの変換規則にも一致しません"
		case "decode_failed":
			return "デコードに失敗しました"
		case "invalid_enum":
			return "列挙値に含まれていません"
		case "required":
			return "必須フィールドが不足しています"
		case "hook_failed":
			return "フックが失敗しました"
		case "encode_failed":
			return "エンコードに失敗しました"
		case "unresolved_ref":
			return "スキーマ参照が未解決です"
		case "validation":
			return "検証エラー"
		case "duplicate_key":
			return "キーが重複しています"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "no_branch":
			return "no decode branch matched"
		case "decode_failed":
			return "decode failed"
		case "invalid_enum":
			return "value is not a member of the enum"
		case "required":
			return "required field missing"
		case "hook_failed":
			return "hook failed"
		case "encode_failed":
			return "encode failed"
		case "unresolved_ref":
			return "unresolved schema reference"
		case "validation":
			return "validation failed"
		case "duplicate_key":
			return "duplicate key"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
