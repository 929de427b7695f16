package container

import "testing"

type greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

func TestRegisterAndGet(t *testing.T) {
	c := New()
	Register(c, 42)

	v, ok := Get[int](c)
	if !ok || v != 42 {
		t.Fatalf("expected 42, got %v ok=%v", v, ok)
	}
}

func TestGetMissingReturnsFalse(t *testing.T) {
	c := New()
	if _, ok := Get[string](c); ok {
		t.Fatal("expected miss on unregistered type")
	}
}

func TestMustGetPanicsWhenMissing(t *testing.T) {
	c := New()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustGet[string](c)
}

func TestRegisterFactoryProducesFreshInstances(t *testing.T) {
	c := New()
	n := 0
	RegisterFactory(c, func() int {
		n++
		return n
	})

	first, _ := Get[int](c)
	second, _ := Get[int](c)
	if first == second {
		t.Fatalf("expected distinct transient values, got %d and %d", first, second)
	}
}

func TestRegisterAliasResolvesToImplementation(t *testing.T) {
	c := New()
	Register(c, englishGreeter{})
	RegisterAlias[greeter, englishGreeter](c)

	g, ok := Get[greeter](c)
	if !ok {
		t.Fatal("expected alias to resolve")
	}
	if g.Greet() != "hello" {
		t.Fatalf("unexpected greeting: %q", g.Greet())
	}
}

func TestRequestScopeIsPerChild(t *testing.T) {
	c := New()
	child1 := c.CreateChild()
	child2 := c.CreateChild()

	SetRequestService(child1, "tenant-a")
	SetRequestService(child2, "tenant-b")

	v1, ok1 := Get[string](child1)
	v2, ok2 := Get[string](child2)
	if !ok1 || !ok2 {
		t.Fatal("expected both children to resolve their own request value")
	}
	if v1 != "tenant-a" || v2 != "tenant-b" {
		t.Fatalf("request scope leaked across children: %q %q", v1, v2)
	}
}

func TestClearRequestServices(t *testing.T) {
	c := New()
	SetRequestService(c, "scoped")
	if _, ok := Get[string](c); !ok {
		t.Fatal("expected request value before clear")
	}
	c.ClearRequestServices()
	if _, ok := Get[string](c); ok {
		t.Fatal("expected request value to be gone after clear")
	}
}

func TestScopeOf(t *testing.T) {
	c := New()
	Register(c, "singleton-value")
	scope, ok := ScopeOf[string](c)
	if !ok || scope != Singleton {
		t.Fatalf("expected Singleton scope, got %v ok=%v", scope, ok)
	}
}

func TestMerge(t *testing.T) {
	base := New()
	Register(base, "base")

	override := New()
	Register(override, "override")

	base.Merge(override)
	v, ok := Get[string](base)
	if !ok || v != "override" {
		t.Fatalf("expected merge to overwrite, got %q ok=%v", v, ok)
	}
}

func TestCreateChildInheritsSingletons(t *testing.T) {
	parent := New()
	Register(parent, 7)

	child := parent.CreateChild()
	v, ok := Get[int](child)
	if !ok || v != 7 {
		t.Fatalf("expected child to inherit singleton, got %d ok=%v", v, ok)
	}
}

func TestHas(t *testing.T) {
	c := New()
	if Has[string](c) {
		t.Fatal("expected Has to report false before registration")
	}
	Register(c, "present")
	if !Has[string](c) {
		t.Fatal("expected Has to report true after registration")
	}
}
