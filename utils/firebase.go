package utils

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebaseClients are the Firebase services the server talks to.
type FirebaseClients struct {
	Auth      *auth.Client
	Messaging *messaging.Client
}

// NewFirebaseClients initializes the Firebase App from a service account file.
func NewFirebaseClients(ctx context.Context, credentialsFile string) (*FirebaseClients, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}
	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	return &FirebaseClients{Auth: authClient, Messaging: msgClient}, nil
}
