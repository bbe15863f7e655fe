// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package applet

import (
	"strings"

	golocale "github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// DetectLocale returns the user's locale in POSIX form (e.g. "de_DE"), or ""
// when it cannot be determined.
func DetectLocale() string {
	l, err := golocale.GetLocale()
	if err != nil {
		return ""
	}
	return NormalizeLocale(l)
}

// NormalizeLocale converts a BCP 47 tag ("pt-BR") into the POSIX form used by
// descriptor keys ("pt_BR"). POSIX input is returned unchanged, minus the
// "C" and "POSIX" pseudo-locales which mean untranslated.
func NormalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	switch s {
	case "", "C", "POSIX", "C.UTF-8":
		return ""
	}
	if strings.ContainsAny(s, "_.@") {
		return s
	}

	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	base, _ := tag.Base()
	result := base.String()
	if region, conf := tag.Region(); conf == language.Exact {
		result += "_" + region.String()
	}
	return result
}

// LanguageTag maps a POSIX locale onto a language tag for collation and
// message lookup. Unparseable or empty locales map to language.Und.
func LanguageTag(posix string) language.Tag {
	lang, country, _ := splitLocale(posix)
	if lang == "" {
		return language.Und
	}
	s := lang
	if country != "" {
		s += "-" + country
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und
	}
	return tag
}

// localeVariants lists the key suffixes tried for a locale, most specific
// first: lang_COUNTRY@MODIFIER, lang_COUNTRY, lang@MODIFIER, lang.
func localeVariants(locale string) []string {
	lang, country, modifier := splitLocale(locale)
	if lang == "" {
		return nil
	}

	var variants []string
	if country != "" && modifier != "" {
		variants = append(variants, lang+"_"+country+"@"+modifier)
	}
	if country != "" {
		variants = append(variants, lang+"_"+country)
	}
	if modifier != "" {
		variants = append(variants, lang+"@"+modifier)
	}
	return append(variants, lang)
}

// splitLocale breaks lang_COUNTRY.ENCODING@MODIFIER into its parts. The
// encoding is dropped.
func splitLocale(locale string) (lang, country, modifier string) {
	rest := locale
	if i := strings.IndexByte(rest, '@'); i >= 0 {
		modifier = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '.'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '_'); i >= 0 {
		country = rest[i+1:]
		rest = rest[:i]
	}
	lang = rest
	return lang, country, modifier
}
