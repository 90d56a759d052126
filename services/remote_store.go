package services

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// RemoteStore is the mirror the sync monitor writes to. The local
// database never depends on it; failures are logged and retried, never
// surfaced to callers.
type RemoteStore interface {
	// Push appends a record without a caller-chosen key and returns
	// the key assigned by the store.
	Push(ctx context.Context, collection string, payload interface{}) (string, error)
	Set(ctx context.Context, collection, key string, payload interface{}) error
	Delete(ctx context.Context, collection, key string) error
}

type firebaseStore struct {
	client *db.Client
}

// NewFirebaseStore connects to the Firebase Realtime Database
// configured by FIREBASE_DB_URL and FIREBASE_CREDENTIALS_FILE.
func NewFirebaseStore(ctx context.Context) (RemoteStore, error) {
	conf := &firebase.Config{
		DatabaseURL: os.Getenv("FIREBASE_DB_URL"),
	}

	var opts []option.ClientOption
	if credFile := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, err
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, err
	}

	return &firebaseStore{client: client}, nil
}

func (s *firebaseStore) Push(ctx context.Context, collection string, payload interface{}) (string, error) {
	ref, err := s.client.NewRef(collection).Push(ctx, payload)
	if err != nil {
		return "", err
	}
	return ref.Key, nil
}

func (s *firebaseStore) Set(ctx context.Context, collection, key string, payload interface{}) error {
	return s.client.NewRef(collection + "/" + key).Set(ctx, payload)
}

func (s *firebaseStore) Delete(ctx context.Context, collection, key string) error {
	return s.client.NewRef(collection + "/" + key).Delete(ctx)
}

// disabledStore satisfies RemoteStore when mirroring is turned off
// (SYNC_DISABLED=1 or no database URL configured). Outbox rows drain
// without remote effect, which keeps the rest of the system identical
// whether or not a mirror exists.
type disabledStore struct{}

func NewDisabledStore() RemoteStore { return disabledStore{} }

func (disabledStore) Push(ctx context.Context, collection string, payload interface{}) (string, error) {
	return "", nil
}

func (disabledStore) Set(ctx context.Context, collection, key string, payload interface{}) error {
	return nil
}

func (disabledStore) Delete(ctx context.Context, collection, key string) error {
	return nil
}
