package push

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("device-token", Notification{
		Title: "Day complete!",
		Body:  "Well done",
		Data:  map[string]string{"type": "day_completed"},
	})

	assert.Equal(t, "device-token", msg.Token)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, "Day complete!", msg.Notification.Title)
	assert.Equal(t, "Well done", msg.Notification.Body)
	assert.Equal(t, "day_completed", msg.Data["type"])
	require.NotNil(t, msg.APNS)
	assert.Equal(t, "default", msg.APNS.Payload.Aps.Sound)
}

func TestLogNotifier(t *testing.T) {
	var n Notifier = LogNotifier{}
	assert.NoError(t, n.Send(context.Background(), "tok", Notification{Title: "hi"}))
}
