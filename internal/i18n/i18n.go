// Package i18n translates user-facing messages. Italian is the default,
// English is served to clients that ask for it.
package i18n

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const ctxKey = "i18n.lang"

// Message keys.
const (
	MsgBadRequest        = "bad_request"
	MsgValidation        = "validation_failed"
	MsgDuplicate         = "duplicate"
	MsgUnauthenticated   = "unauthenticated"
	MsgWrongCredentials  = "wrong_credentials"
	MsgForbiddenRole     = "forbidden_role"
	MsgForbiddenAdmin    = "forbidden_admin"
	MsgNotFound          = "not_found"
	MsgInternal          = "internal"
	MsgDeleted           = "deleted"
	MsgAssociationDelete = "association_deleted"
	MsgHealthy           = "healthy"
)

var supported = []language.Tag{language.Italian, language.English}

var (
	cat     = newCatalog()
	matcher = language.NewMatcher(supported)
	def     = language.Italian
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Italian))

	set := func(key, it, en string) {
		_ = b.SetString(language.Italian, key, it)
		_ = b.SetString(language.English, key, en)
	}

	set(MsgBadRequest, "richiesta non valida", "invalid request")
	set(MsgValidation, "dati non validi", "validation failed")
	set(MsgDuplicate, "%s già esistente", "%s already exists")
	set(MsgUnauthenticated, "autenticazione richiesta", "authentication required")
	set(MsgWrongCredentials, "email o password errati", "wrong email or password")
	set(MsgForbiddenRole, "operazione non consentita per il tuo ruolo", "operation not allowed for your role")
	set(MsgForbiddenAdmin, "sono richiesti privilegi di amministratore", "administrator privileges required")
	set(MsgNotFound, "%s non trovato", "%s not found")
	set(MsgInternal, "errore interno del server", "internal server error")
	set(MsgDeleted, "%s eliminato", "%s deleted")
	set(MsgAssociationDelete, "associazione eliminata: %d membri aggiornati, %d affidamenti di lotti rimossi", "association deleted: %d members updated, %d plot assignments removed")
	set(MsgHealthy, "servizio attivo", "service is up")

	return b
}

// SetDefault changes the language used when Accept-Language matches nothing.
func SetDefault(lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		return
	}
	_, idx, _ := matcher.Match(tag)
	def = supported[idx]
}

// Match picks the supported tag closest to an Accept-Language header value.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return def
	}

	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return def
	}

	return supported[idx]
}

// Localize stores the request language on the gin context.
func Localize() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(ctxKey, Match(ctx.GetHeader("Accept-Language")))
		ctx.Next()
	}
}

func Lang(ctx *gin.Context) language.Tag {
	if v, ok := ctx.Get(ctxKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}

	return def
}

// Sprintf translates key into tag.
func Sprintf(tag language.Tag, key string, args ...any) string {
	return message.NewPrinter(tag, message.Catalog(cat)).Sprintf(key, args...)
}

// T translates key into the language of the request.
func T(ctx *gin.Context, key string, args ...any) string {
	return Sprintf(Lang(ctx), key, args...)
}
