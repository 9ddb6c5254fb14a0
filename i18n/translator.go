package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "tag" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "empty_schema":
			return "スキーマにタグがありません"
		case "invalid_tag":
			return "タグ名が不正です"
		case "reserved_tag":
			return "予約済みのタグ名です"
		case "duplicate_tag":
			return "タグが重複しています"
		case "invalid_config":
			return "設定が不正です"
		case "merged_opaque":
			return "マージ表現には構造化ペイロードが必要です"
		case "payload_type":
			return "ペイロードの型が不正です"
		case "payload_decode":
			return "ペイロードを復元できません"
		case "patch_field":
			return "パッチに未知のフィールドがあります"
		case "nil_handler":
			return "ハンドラが nil です"
		case "unknown_tag":
			return "未知のタグです"
		case "duplicate_case":
			return "ケースが重複しています"
		case "non_exhaustive":
			return "ケースが網羅されていません"
		case "discriminator_missing":
			return "判別子がありません"
		case "discriminator_unknown":
			return "判別子の値が未知です"
		case "cast_mismatch":
			return "キャストできません"
		case "duplicate_key":
			return "キーが重複しています"
		case "invalid_schema_file":
			return "スキーマファイルが不正です"
		}
	default: // "en"
		switch code {
		case "empty_schema":
			return "schema has no tags"
		case "invalid_tag":
			return "invalid tag name"
		case "reserved_tag":
			return "tag name is reserved"
		case "duplicate_tag":
			return "duplicate tag"
		case "invalid_config":
			return "invalid configuration"
		case "merged_opaque":
			return "merged representation requires a structured payload"
		case "payload_type":
			return "payload type mismatch"
		case "payload_decode":
			return "payload cannot be decoded"
		case "patch_field":
			return "patch field unknown to payload"
		case "nil_handler":
			return "case handler is nil"
		case "unknown_tag":
			return "unknown tag"
		case "duplicate_case":
			return "duplicate case"
		case "non_exhaustive":
			return "cases are not exhaustive"
		case "discriminator_missing":
			return "discriminator missing"
		case "discriminator_unknown":
			return "unknown discriminator"
		case "cast_mismatch":
			return "cast mismatch"
		case "duplicate_key":
			return "duplicate object key"
		case "invalid_schema_file":
			return "invalid schema file"
		}
	}
	return code
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
