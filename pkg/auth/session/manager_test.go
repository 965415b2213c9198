package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
	errs   map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if err := f.errs[key]; err != nil {
		return err
	}
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if err := f.errs[key]; err != nil {
		return "", err
	}
	v, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string { return "tl:session:access:" + accessID }

func testManager(store *fakeStore) *Manager {
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Minute}
}

func TestRegisterAndRevokeSession(t *testing.T) {
	store := newFakeStore()
	mgr := testManager(store)
	ctx := context.Background()

	if err := mgr.Register(ctx, "jti-1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := store.values["tl:session:access:jti-1"]; !ok {
		t.Fatal("expected session key to be stored")
	}

	if ok, err := mgr.HasSession(ctx, "jti-1"); err != nil || !ok {
		t.Fatalf("expected live session, got ok=%v err=%v", ok, err)
	}
	if ok, err := mgr.HasSession(ctx, "jti-unknown"); err != nil || ok {
		t.Fatalf("expected missing session to report false, got ok=%v err=%v", ok, err)
	}

	if err := mgr.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, ok := store.values["tl:session:access:jti-1"]; ok {
		t.Fatal("expected session key to be removed")
	}
}

func TestRegisterRequiresAccessID(t *testing.T) {
	mgr := testManager(newFakeStore())
	if err := mgr.Register(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}

func TestHasSessionErrorPropagation(t *testing.T) {
	store := newFakeStore()
	store.errs["tl:session:access:jti-err"] = errors.New("redis down")
	mgr := testManager(store)

	if _, err := mgr.HasSession(context.Background(), "jti-err"); err == nil {
		t.Fatal("expected store error to propagate")
	}
	if ok, err := mgr.HasSession(context.Background(), ""); err != nil || ok {
		t.Fatalf("blank access id should report no session, got ok=%v err=%v", ok, err)
	}
}
