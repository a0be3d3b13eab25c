package driver

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Firebase bundles the hosted document store and the identity service.
type Firebase struct {
	App       *firebase.App
	Firestore *firestore.Client
	Auth      *auth.Client
}

// ConnectFirebase initialises the Firebase app for projectID. When
// credentialsFile is empty, Application Default Credentials are used.
// Firestore is required; Auth is best-effort and left nil on failure.
func ConnectFirebase(ctx context.Context, projectID, credentialsFile string, logger *zap.Logger) (*Firebase, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app init failed (project=%s): %w", projectID, err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client init failed (project=%s): %w", projectID, err)
	}
	logger.Info("Firestore connected", zap.String("project", projectID))

	fb := &Firebase{App: app, Firestore: fs}

	authClient, err := app.Auth(ctx)
	if err != nil {
		logger.Warn("Firebase auth init failed", zap.Error(err))
	} else {
		fb.Auth = authClient
	}

	return fb, nil
}

func (f *Firebase) Close() error {
	if f == nil || f.Firestore == nil {
		return nil
	}
	return f.Firestore.Close()
}
