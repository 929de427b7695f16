package pattern

import "testing"

func TestLiteralMatch(t *testing.T) {
	p := New("/users")
	if _, ok := p.Match("/users"); !ok {
		t.Fatal("expected /users to match")
	}
	if _, ok := p.Match("/posts"); ok {
		t.Fatal("expected /posts not to match")
	}
}

func TestParamMatch(t *testing.T) {
	p := New("/users/:id")
	params, ok := p.Match("/users/123")
	if !ok {
		t.Fatal("expected match")
	}
	if params["id"] != "123" {
		t.Fatalf("expected id=123, got %q", params["id"])
	}
}

func TestMultipleParams(t *testing.T) {
	p := New("/users/:id/posts/:post_id")
	params, ok := p.Match("/users/123/posts/456")
	if !ok {
		t.Fatal("expected match")
	}
	if params["id"] != "123" || params["post_id"] != "456" {
		t.Fatalf("unexpected params: %v", params)
	}
}

func TestWildcard(t *testing.T) {
	p := New("/files/*")
	if _, ok := p.Match("/files/doc.txt"); !ok {
		t.Fatal("expected match")
	}
	if _, ok := p.Match("/files"); ok {
		t.Fatal("wildcard must consume exactly one segment")
	}
}

func TestCatchAll(t *testing.T) {
	p := New("/files/**")
	if _, ok := p.Match("/files/a/b/c"); !ok {
		t.Fatal("expected match")
	}
}

func TestNamedCatchAll(t *testing.T) {
	p := New("/files/*path")
	params, ok := p.Match("/files/a/b/c")
	if !ok {
		t.Fatal("expected match")
	}
	if params["path"] != "a/b/c" {
		t.Fatalf("expected joined path, got %q", params["path"])
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"/users":  "/users",
		"/users/": "/users",
		"users":   "/users",
		"":        "/",
		"/":       "/",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSpecificityOrdering(t *testing.T) {
	literal := New("/users/profile")
	param := New("/users/:id")
	wildcard := New("/users/*")
	catchAll := New("/users/**")

	if !(literal.Specificity() > param.Specificity()) {
		t.Fatal("literal should outrank param")
	}
	if !(param.Specificity() > wildcard.Specificity()) {
		t.Fatal("param should outrank wildcard")
	}
	if !(wildcard.Specificity() > catchAll.Specificity()) {
		t.Fatal("wildcard should outrank catch-all")
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	p := New("/a/:b/c")
	p1, ok1 := p.Match("/a/x/c")
	p2, ok2 := p.Match("/a/x/c")
	if ok1 != ok2 || p1["b"] != p2["b"] {
		t.Fatal("matching the same path twice must be stable")
	}
}

func TestStaticShortCircuit(t *testing.T) {
	p := New("/static/route")
	if !p.IsStatic() {
		t.Fatal("expected static pattern")
	}
	if _, ok := p.Match("/static/other"); ok {
		t.Fatal("expected no match")
	}
}
