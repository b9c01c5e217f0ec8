package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
)

var gdsVersions = []string{
	"0.9.2", "0.9.3", "1.0.0", "1.1.0-alpha01", "1.1.0", "1.1.4", "1.1.5",
	"1.2.0", "1.2.3", "1.3.0-alpha01", "1.3.0", "1.3.1", "1.3.2",
	"1.4.0-alpha01", "1.4.0-alpha02", "1.4.0-alpha03",
}

// fakeRepo is a Maven repository serving org.neo4j.gds:proc below /maven2.
type fakeRepo struct {
	*httptest.Server
	hits atomic.Int32
	user string
	pass string
}

func (r *fakeRepo) resolver() string { return r.URL + "/maven2" }

func newFakeRepo(t *testing.T, user, pass string) *fakeRepo {
	t.Helper()
	repo := &fakeRepo{user: user, pass: pass}

	var versions strings.Builder
	for _, v := range gdsVersions {
		fmt.Fprintf(&versions, "<version>%s</version>", v)
	}
	doc := "<metadata><versioning><versions>" + versions.String() + "</versions></versioning></metadata>"

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			repo.hits.Add(1)
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/maven2/org/neo4j/gds/proc/maven-metadata.xml", func(w http.ResponseWriter, req *http.Request) {
		if repo.user != "" {
			u, p, ok := req.BasicAuth()
			if !ok || u != repo.user || p != repo.pass {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}
		w.Write([]byte(doc))
	})
	r.Get("/maven2/broken/lib/maven-metadata.xml", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	repo.Server = httptest.NewServer(r)
	t.Cleanup(repo.Close)
	return repo
}

// newTestCLI returns a CLI whose environment is env and whose logs go to the returned buffer.
func newTestCLI(env map[string]string) (*CLI, *bytes.Buffer) {
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.getenv = func(k string) string { return env[k] }
	return c, &logs
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, c *CLI, stdin string, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
