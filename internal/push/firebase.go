package push

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// FirebaseNotifier sends through Firebase Cloud Messaging.
type FirebaseNotifier struct {
	client *messaging.Client
}

func NewFirebaseNotifier(client *messaging.Client) *FirebaseNotifier {
	return &FirebaseNotifier{client: client}
}

func (f *FirebaseNotifier) Send(ctx context.Context, token string, n Notification) error {
	_, err := f.client.Send(ctx, buildMessage(token, n))
	if err != nil {
		if messaging.IsUnregistered(err) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	return nil
}

func buildMessage(token string, n Notification) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Data:  n.Data,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}
