package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventlottery/internal/domain"
)

func TestNewNotifier_noop_for_unknown_provider(t *testing.T) {
	n, err := NewNotifier(Config{Provider: "carrier-pigeon"}, nil)
	require.NoError(t, err)

	err = n.Notify(context.Background(), domain.NotificationRequest{
		UserIDs:   []string{"u1"},
		EventID:   "e1",
		EventName: "Gala",
		Type:      domain.NotifyInvited,
	})
	assert.NoError(t, err)
}

func TestRenderMessage_per_type(t *testing.T) {
	tests := []struct {
		typ         domain.NotificationType
		wantSubject string
		wantInBody  string
	}{
		{domain.NotifyInvited, "You've been selected for Gala", "accept or decline"},
		{domain.NotifyWaitlisted, "Lottery results for Gala", "not selected"},
		{domain.NotifyAccepted, "An entrant accepted their spot at Gala", "accepted"},
		{domain.NotifyDeclined, "An entrant declined their spot at Gala", "draw a replacement"},
		{domain.NotifyConfirmed, "You're attending Gala", "confirmed"},
		{domain.NotifyCancelled, "Your invitation to Gala was cancelled", "drawn again"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			subject, body := renderMessage(domain.NotificationRequest{
				EventID:   "e1",
				EventName: "Gala",
				Type:      tt.typ,
			})
			assert.Equal(t, tt.wantSubject, subject)
			assert.True(t, strings.Contains(body, tt.wantInBody), "body %q should contain %q", body, tt.wantInBody)
		})
	}
}
