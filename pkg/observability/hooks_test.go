package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopResolveHooks{}
	r.OnFetchStart(ctx, "org.neo4j.gds:proc")
	r.OnFetchComplete(ctx, "org.neo4j.gds:proc", 25, time.Second, nil)
	r.OnResolveComplete(ctx, "org.neo4j.gds:proc", 2, 3)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "repo.maven.apache.org", "/maven2/org/neo4j/gds/proc/maven-metadata.xml")
	h.OnResponse(ctx, "GET", "repo.maven.apache.org", "/maven2/org/neo4j/gds/proc/maven-metadata.xml", 200, time.Second)
	h.OnError(ctx, "GET", "repo.maven.apache.org", "/maven2/org/neo4j/gds/proc/maven-metadata.xml", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Resolve() should return NoopResolveHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customResolve := &testResolveHooks{}
	SetResolveHooks(customResolve)
	if Resolve() != customResolve {
		t.Error("SetResolveHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Reset() should restore NoopResolveHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testResolveHooks{}
	SetResolveHooks(custom)
	SetResolveHooks(nil)

	if Resolve() != custom {
		t.Error("SetResolveHooks(nil) should be ignored")
	}
}

type testResolveHooks struct{ NoopResolveHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
