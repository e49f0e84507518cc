package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-go/routesync/pkg/routesource"
)

const testRoutes = `view_user:
  path: /user/:id
  method: get
view_user_post:
  path: /user/:id/post/:post
  method: get
`

func writeRoutes(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.yaml")
	if err := os.WriteFile(path, []byte(testRoutes), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"id=1", "post=a=b"})
	if err != nil {
		t.Fatalf("parseParams: %v", err)
	}
	if params["id"] != "1" || params["post"] != "a=b" {
		t.Errorf("params = %v", params)
	}

	if _, err := parseParams([]string{"novalue"}); err == nil {
		t.Error("expected error for argument without '='")
	}
}

func TestSourceFor(t *testing.T) {
	src, err := sourceFor("s3://bucket/prod/routes.json")
	if err != nil {
		t.Fatalf("sourceFor: %v", err)
	}
	if src.String() != "s3://bucket/prod/routes.json" {
		t.Errorf("String() = %q", src.String())
	}

	if _, err := sourceFor("s3://bucket"); err == nil {
		t.Error("expected error for s3 reference without key")
	}

	src, err = sourceFor("routes.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(routesource.FileSource); !ok {
		t.Errorf("sourceFor(file) = %T, want FileSource", src)
	}
}

func TestMakePathCommand(t *testing.T) {
	routes := writeRoutes(t)

	cmd := makePathCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"view_user_post", "id=1", "post=42", "--routes", routes})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "/user/1/post/42" {
		t.Errorf("output = %q, want /user/1/post/42", got)
	}
}

func TestMatchCommand(t *testing.T) {
	routes := writeRoutes(t)

	cmd := matchCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"/user/7", "--routes", routes})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "view_user /user/:id") || !strings.Contains(out.String(), "id=7") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDehydrateCommand(t *testing.T) {
	routes := writeRoutes(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "routesync.json")
	if err := os.WriteFile(cfgPath, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := dehydrateCmd(&cfgPath)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--routes", routes})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), `"RouteSyncPlugin"`) || !strings.Contains(out.String(), `"/user/:id/post/:post"`) {
		t.Errorf("output = %s", out.String())
	}
}
