package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSessionInitLoadsOnce(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls int
	)
	sess := New(LoaderFunc(func(context.Context) (*Info, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return &Info{User: &User{ID: 7, Login: "admin"}}, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sess.Init(context.Background()); err != nil {
				t.Errorf("init: %v", err)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("expected a single load, got %d", calls)
	}
	if got := sess.Info().User.Login; got != "admin" {
		t.Fatalf("unexpected login %q", got)
	}
}

func TestSessionInitError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	sess := New(LoaderFunc(func(context.Context) (*Info, error) {
		return nil, boom
	}))
	if _, err := sess.Init(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped loader error, got %v", err)
	}
	if sess.Info() != nil {
		t.Fatalf("expected no info after failed load")
	}
}

func TestSessionSubscribeAndClose(t *testing.T) {
	t.Parallel()

	sess := New(LoaderFunc(func(context.Context) (*Info, error) {
		return &Info{Application: Application{Name: "demo"}}, nil
	}))

	var seen []string
	unsubscribe := sess.Subscribe(func(info *Info) {
		if info == nil {
			seen = append(seen, "<nil>")
			return
		}
		seen = append(seen, info.Application.Name)
	})

	if _, err := sess.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	sess.Close()
	unsubscribe()
	if _, err := sess.Init(context.Background()); err != nil {
		t.Fatalf("re-init: %v", err)
	}

	if diff := cmp.Diff([]string{"demo", "<nil>"}, seen); diff != "" {
		t.Fatalf("listener calls mismatch (-want +got):\n%s", diff)
	}
}

func TestFileLoaderYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "session.yaml")
	payload := "application:\n  name: demo\n  lang: fr\nuser:\n  id: 1\n  login: admin\n  name: Administrator\n  group: admins\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	info, err := FileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := &Info{
		Application: Application{Name: "demo", Lang: "fr"},
		User:        &User{ID: 1, Login: "admin", Name: "Administrator", Group: "admins"},
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if info.Lang() != "fr" {
		t.Fatalf("expected application language fallback, got %q", info.Lang())
	}
}
