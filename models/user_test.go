package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizedTextGet(t *testing.T) {
	text := LocalizedText{"en": "Massage", "de": "Massage-Therapie", "ru": "Массаж"}

	assert.Equal(t, "Massage-Therapie", text.Get("de"))
	assert.Equal(t, "Массаж", text.Get("ru"))
	// Unknown languages fall back to English.
	assert.Equal(t, "Massage", text.Get("fr"))
}

func TestLocalizedTextFallbacks(t *testing.T) {
	assert.Equal(t, "", LocalizedText(nil).Get("en"))
	assert.Equal(t, "", LocalizedText{}.Get("en"))

	// No English either: any non-empty translation wins.
	onlyRussian := LocalizedText{"ru": "Массаж"}
	assert.Equal(t, "Массаж", onlyRussian.Get("fr"))

	// Empty values are skipped.
	withEmpty := LocalizedText{"de": "", "en": "Massage"}
	assert.Equal(t, "Massage", withEmpty.Get("de"))
}

func TestUserHasRole(t *testing.T) {
	u := &User{Roles: []string{RoleClient, RoleTherapist}}
	assert.True(t, u.HasRole(RoleTherapist))
	assert.True(t, u.HasRole(RoleClient))
	assert.False(t, u.HasRole(RoleManager))
}
