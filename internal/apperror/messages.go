package apperror

import (
	"fmt"

	"golang.org/x/text/language"
)

// Message codes
const (
	CodeInvalidInput            = "invalid_input"
	CodeInvalidConfirmationCode = "invalid_confirmation_code"
	CodeInvalidToken            = "invalid_token"
	CodeScoreOutOfRange         = "score_out_of_range"
	CodeDuplicateReview         = "duplicate_review"
	CodeEmailTaken              = "email_taken"
	CodeUsernameTaken           = "username_taken"
	CodeReservedUsername        = "reserved_username"
	CodeSlugTaken               = "slug_taken"
	CodeUnknownSlug             = "unknown_slug"
	CodeInvalidRole             = "invalid_role"
	CodeTitleNotFound           = "title_not_found"
	CodeReviewNotFound          = "review_not_found"
	CodeCommentNotFound         = "comment_not_found"
	CodeUserNotFound            = "user_not_found"
	CodeCategoryNotFound        = "category_not_found"
	CodeGenreNotFound           = "genre_not_found"
	CodePermissionDenied        = "permission_denied"
	CodeMethodNotAllowed        = "method_not_allowed"
	CodeInternal                = "internal_error"
)

var supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(supported)

var catalog = map[language.Base]map[string]string{
	base(language.English): {
		CodeInvalidInput:            "invalid input",
		CodeInvalidConfirmationCode: "invalid confirmation code",
		CodeInvalidToken:            "invalid token",
		CodeScoreOutOfRange:         "score must be between %d and %d",
		CodeDuplicateReview:         "you have already reviewed this title",
		CodeEmailTaken:              "email already bound to another account",
		CodeUsernameTaken:           "username already bound to another account",
		CodeReservedUsername:        "username %q is reserved",
		CodeSlugTaken:               "slug %q already exists",
		CodeUnknownSlug:             "object with slug %q does not exist",
		CodeInvalidRole:             "role must be one of user, moderator, admin",
		CodeTitleNotFound:           "title not found",
		CodeReviewNotFound:          "review not found",
		CodeCommentNotFound:         "comment not found",
		CodeUserNotFound:            "user not found",
		CodeCategoryNotFound:        "category not found",
		CodeGenreNotFound:           "genre not found",
		CodePermissionDenied:        "you do not have permission to perform this action",
		CodeMethodNotAllowed:        "method not allowed",
		CodeInternal:                "internal server error",
	},
	base(language.Russian): {
		CodeInvalidInput:            "некорректные данные",
		CodeInvalidConfirmationCode: "Неверный код подтверждения",
		CodeInvalidToken:            "недействительный токен",
		CodeScoreOutOfRange:         "Оценка должна быть между %d и %d.",
		CodeDuplicateReview:         "вы уже оставили отзыв на это произведение",
		CodeEmailTaken:              "email уже привязан к другому аккаунту",
		CodeUsernameTaken:           "имя пользователя уже привязано к другому аккаунту",
		CodeReservedUsername:        "имя пользователя %q зарезервировано",
		CodeSlugTaken:               "slug %q уже существует",
		CodeUnknownSlug:             "объект со slug %q не существует",
		CodeInvalidRole:             "роль должна быть одной из: user, moderator, admin",
		CodeTitleNotFound:           "произведение не найдено",
		CodeReviewNotFound:          "отзыв не найден",
		CodeCommentNotFound:         "комментарий не найден",
		CodeUserNotFound:            "пользователь не найден",
		CodeCategoryNotFound:        "категория не найдена",
		CodeGenreNotFound:           "жанр не найден",
		CodePermissionDenied:        "у вас недостаточно прав для выполнения данного действия",
		CodeMethodNotAllowed:        "метод не разрешён",
		CodeInternal:                "внутренняя ошибка сервера",
	},
}

func base(tag language.Tag) language.Base {
	b, _ := tag.Base()
	return b
}

// MatchLanguage picks the best supported language for an Accept-Language header.
// Empty or unparsable headers resolve to English.
func MatchLanguage(acceptLanguage string) language.Tag {
	tag, _ := language.MatchStrings(matcher, acceptLanguage)
	return tag
}

// Localize renders code in the language of tag, falling back to English and
// finally to the code itself.
func Localize(tag language.Tag, code string, args ...any) string {
	tmpl, ok := catalog[base(tag)][code]
	if !ok {
		tmpl, ok = catalog[base(language.English)][code]
	}
	if !ok {
		return code
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
