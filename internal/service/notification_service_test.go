package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/pkg/config"
)

func TestWhatsAppLink(t *testing.T) {
	service := NewNotificationService(config.NotificationsConfig{
		WhatsAppNumber: "+33 6 12 34 56 78",
	}, nil)

	link := service.WhatsAppLink("Bonjour, je suis Sonia. Je souhaite des informations.")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "https", parsed.Scheme)
	assert.Equal(t, "wa.me", parsed.Host)
	assert.Equal(t, "/33612345678", parsed.Path)
	assert.Equal(t, "Bonjour, je suis Sonia. Je souhaite des informations.", parsed.Query().Get("text"))
}

func TestWhatsAppLinkNoNumberConfigured(t *testing.T) {
	service := NewNotificationService(config.NotificationsConfig{}, nil)

	assert.Empty(t, service.WhatsAppLink("Bonjour"))
}

func TestWhatsAppLinkEncodesSpecialCharacters(t *testing.T) {
	service := NewNotificationService(config.NotificationsConfig{
		WhatsAppNumber: "33612345678",
	}, nil)

	link := service.WhatsAppLink("Cours d'essai & infos: 50% ?")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Cours d'essai & infos: 50% ?", parsed.Query().Get("text"))
}
