package routesource

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/routetable"
	"github.com/vango-go/routesync/pkg/store"
)

type fakeS3 struct {
	bodies map[string]string
	err    error
	calls  []string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls = append(f.calls, *in.Bucket+"/"+*in.Key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.bodies[*in.Key]
	if !ok {
		return nil, stderrors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

type recordingDispatcher struct {
	mu      sync.Mutex
	actions []string
	tables  []routetable.Table
	err     error
}

func (d *recordingDispatcher) Dispatch(action string, payload any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.actions = append(d.actions, action)
	d.tables = append(d.tables, payload.(routetable.Table))
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tables)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	writeFile(t, path, "view_user:\n  path: /user/:id\n  method: get\n")

	table, err := FileSource{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table["view_user"].Path != "/user/:id" {
		t.Errorf("view_user = %+v", table["view_user"])
	}
}

func TestFileSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (FileSource{Path: "unused.json"}).Load(ctx); !stderrors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{bodies: map[string]string{
		"prod/routes.json": `{"home":{"path":"/","method":"get"}}`,
		"bad.json":         `{"home":{"path":"nope"}}`,
	}}

	table, err := NewS3Source(client, "bucket", "prod/routes.json").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if table["home"].Path != "/" {
		t.Errorf("home = %+v", table["home"])
	}
	if len(client.calls) != 1 || client.calls[0] != "bucket/prod/routes.json" {
		t.Errorf("calls = %v", client.calls)
	}

	if _, err := NewS3Source(client, "bucket", "bad.json").Load(context.Background()); !errors.HasCode(err, "R004") {
		t.Errorf("invalid table error = %v, want R004", err)
	}
	if _, err := NewS3Source(client, "bucket", "missing.json").Load(context.Background()); err == nil {
		t.Error("missing object should fail")
	}
}

func TestS3SourceString(t *testing.T) {
	got := NewS3Source(&fakeS3{}, "b", "k.yaml").String()
	if got != "s3://b/k.yaml" {
		t.Errorf("String() = %q", got)
	}
}

func TestWatcherSyncDispatchesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	writeFile(t, path, `{"home":{"path":"/"}}`)

	d := &recordingDispatcher{}
	w := NewWatcher(FileSource{Path: path}, d, WatcherConfig{})
	ctx := context.Background()

	changed, err := w.Sync(ctx)
	if err != nil || !changed {
		t.Fatalf("first Sync = (%v, %v), want (true, nil)", changed, err)
	}
	changed, err = w.Sync(ctx)
	if err != nil || changed {
		t.Fatalf("unchanged Sync = (%v, %v), want (false, nil)", changed, err)
	}

	writeFile(t, path, `{"home":{"path":"/"},"about":{"path":"/about"}}`)
	if changed, _ := w.Sync(ctx); !changed {
		t.Fatal("Sync after edit should dispatch")
	}

	if d.count() != 2 {
		t.Fatalf("dispatches = %d, want 2", d.count())
	}
	if d.actions[0] != store.ReceiveRoutesAction {
		t.Errorf("action = %q", d.actions[0])
	}
	if len(w.Last()) != 2 {
		t.Errorf("Last() = %v", w.Last())
	}
}

func TestWatcherSyncErrors(t *testing.T) {
	d := &recordingDispatcher{}
	w := NewWatcher(FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}, d, WatcherConfig{})
	if _, err := w.Sync(context.Background()); !errors.HasCode(err, "R012") {
		t.Errorf("Sync() error = %v, want R012", err)
	}

	path := filepath.Join(t.TempDir(), "routes.json")
	writeFile(t, path, `{"home":{"path":"/"}}`)
	d.err = stderrors.New("rejected")
	w = NewWatcher(FileSource{Path: path}, d, WatcherConfig{})
	if _, err := w.Sync(context.Background()); err == nil || err.Error() != "rejected" {
		t.Errorf("Sync() error = %v, want dispatcher error", err)
	}
	if w.Last() != nil {
		t.Error("failed dispatch should not record the table")
	}
}

func TestWatcherSkipsTableRouterRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	writeFile(t, path, `{"ok":{"path":"/u/:id"}}`)

	d := &recordingDispatcher{}
	w := NewWatcher(FileSource{Path: path}, d, WatcherConfig{})
	if _, err := w.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	// Passes field validation but has a duplicate parameter.
	writeFile(t, path, `{"ok":{"path":"/u/:id"},"broken":{"path":"/x/:id/:id"}}`)
	changed, err := w.Sync(context.Background())
	if changed {
		t.Error("Sync reported a change for a rejected table")
	}
	if !errors.HasCode(err, "R012") || !errors.HasCode(err, "R004") {
		t.Errorf("Sync() error = %v, want R012 wrapping R004", err)
	}
	if d.count() != 1 {
		t.Errorf("dispatches = %d, want 1", d.count())
	}
	if _, ok := w.Last()["broken"]; ok {
		t.Error("Last() holds the rejected table")
	}
}

func TestWatcherStartOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	writeFile(t, path, `{"home":{"path":"/"}}`)

	d := &recordingDispatcher{}
	w := NewWatcher(FileSource{Path: path}, d, WatcherConfig{})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if d.count() != 1 {
		t.Errorf("dispatches = %d, want 1", d.count())
	}
}

func TestWatcherStartPollsUntilCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	writeFile(t, path, `{"home":{"path":"/"}}`)

	d := &recordingDispatcher{}
	w := NewWatcher(FileSource{Path: path}, d, WatcherConfig{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for d.count() < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	writeFile(t, path, `{"about":{"path":"/about"}}`)
	for d.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-done; !stderrors.Is(err, context.Canceled) {
		t.Errorf("Start() = %v, want context.Canceled", err)
	}
	if d.count() != 2 {
		t.Errorf("dispatches = %d, want 2", d.count())
	}
}
