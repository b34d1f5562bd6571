package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/history"
)

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[*in.Key]
	if !ok {
		return nil, errors.New("api error NoSuchKey: The specified key does not exist")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(body)))}, nil
}

func testRun() history.Run {
	return history.Run{
		ID:         "run-abc",
		BoardID:    "777",
		ListID:     "list9",
		FinishedAt: time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC),
	}
}

func TestStoreWritesRunKey(t *testing.T) {
	fake := newFakeS3()
	store := NewS3StoreWithClient(fake, "sync-archive")

	if err := store.Store(context.Background(), testRun()); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	wantKey := "sync-runs/run-abc.json"
	body, ok := fake.objects[wantKey]
	if !ok {
		t.Fatalf("object %q not written; keys: %v", wantKey, fake.objects)
	}

	var stored history.Run
	if err := json.Unmarshal(body, &stored); err != nil {
		t.Fatalf("stored payload is not JSON: %v", err)
	}
	if stored.ID != "run-abc" || stored.BoardID != "777" {
		t.Errorf("stored run = %+v, want original run", stored)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	fake := newFakeS3()
	store := NewS3StoreWithClient(fake, "sync-archive")
	run := testRun()

	if err := store.Store(context.Background(), run); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	got, err := store.Load(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got == nil {
		t.Fatal("Load = nil, want archived run")
	}
	if got.ID != run.ID || got.ListID != run.ListID {
		t.Errorf("loaded run = %+v, want %+v", got, run)
	}
}

func TestLoadMissingIsNotAnError(t *testing.T) {
	store := NewS3StoreWithClient(newFakeS3(), "sync-archive")

	got, err := store.Load(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Load returned error for missing object: %v", err)
	}
	if got != nil {
		t.Errorf("Load = %+v, want nil for missing object", got)
	}
}
