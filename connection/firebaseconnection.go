package connection

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

// FirebaseClients are the Firebase services the API talks to. Firestore and
// Bucket are nil when the configuration does not use them.
type FirebaseClients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
	Bucket    *gcs.BucketHandle
}

func (f *FirebaseClients) Close() error {
	if f.Firestore != nil {
		return f.Firestore.Close()
	}
	return nil
}

func FBConnection(ctx context.Context, cfg *Config) (*FirebaseClients, error) {
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.Firebase.ProjectID,
		StorageBucket: cfg.Firebase.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	clients := &FirebaseClients{}
	clients.Auth, err = app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get auth client: %w", err)
	}

	if cfg.StoreDriver == "firestore" {
		clients.Firestore, err = app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("get firestore client: %w", err)
		}
	}

	if cfg.BlobDriver == "firebase" {
		st, err := app.Storage(ctx)
		if err != nil {
			clients.Close()
			return nil, fmt.Errorf("get storage client: %w", err)
		}
		clients.Bucket, err = st.DefaultBucket()
		if err != nil {
			clients.Close()
			return nil, fmt.Errorf("open default bucket: %w", err)
		}
	}

	return clients, nil
}

// noIdentityProvider stands in for Firebase Auth when a memory-only run has
// no credentials. Every ID token is rejected.
type noIdentityProvider struct {
	cause error
}

func (p noIdentityProvider) VerifyIDToken(context.Context, string) (*auth.Token, error) {
	return nil, fmt.Errorf("identity provider unavailable: %w", p.cause)
}
