package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/forecast-fusion/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	n := domain.Notification{
		ID:      "note-1",
		Kind:    domain.NotificationRain,
		Title:   "Rain expected",
		Message: "Rain starting in 4 minutes (peak 2.1 mm/hr)",
		Epoch:   1714552200,
	}

	msg, err := serializeToMessage(n)
	require.NoError(t, err)

	assert.Equal(t, []byte("note-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"kind":"rain"`)
	assert.Contains(t, string(msg.Value), `"message":"Rain starting in 4 minutes (peak 2.1 mm/hr)"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "kind", msg.Headers[0].Key)
	assert.Equal(t, []byte("rain"), msg.Headers[0].Value)
	assert.Equal(t, "sent_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("1714552200"), msg.Headers[1].Value)
}

func TestNewNotification_AssignsID(t *testing.T) {
	a := domain.NewNotification(domain.NotificationAdvisory, "Tornado Warning", "Take cover", 1714552200)
	b := domain.NewNotification(domain.NotificationAdvisory, "Tornado Warning", "Take cover", 1714552200)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, domain.NotificationAdvisory, a.Kind)
}
