package firebase

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/storage"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and storage client
type App struct {
	FirebaseApp   *firebase.App
	StorageClient *storage.Client
	Bucket        string
}

// InitFirebase initializes the Firebase application and its Cloud Storage client
func InitFirebase(ctx context.Context, credentialsPath, bucket string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if bucket == "" {
		return nil, fmt.Errorf("firebase storage bucket not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucket}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}

	log.Println("Firebase app and storage client initialized successfully!")
	return &App{FirebaseApp: firebaseApp, StorageClient: storageClient, Bucket: bucket}, nil
}

// MediaStore returns the image store backed by the configured bucket
func (a *App) MediaStore() (*MediaStore, error) {
	handle, err := a.StorageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error opening storage bucket %s: %w", a.Bucket, err)
	}
	return NewMediaStore(handle, a.Bucket), nil
}
