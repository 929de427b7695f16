package injects

import "testing"

type fakeClock struct {
	inited   bool
	shutdown bool
	name     string
	log      *[]string
}

func (f *fakeClock) OnInit() {
	f.inited = true
	if f.log != nil {
		*f.log = append(*f.log, "init:"+f.name)
	}
}

func (f *fakeClock) OnShutdown() {
	f.shutdown = true
	if f.log != nil {
		*f.log = append(*f.log, "shutdown:"+f.name)
	}
}

func TestRegisterAndGet(t *testing.T) {
	r := New()
	Register[*fakeClock](r, &fakeClock{})

	v, ok := Get[*fakeClock](r)
	if !ok || v == nil {
		t.Fatal("expected registered inject to resolve")
	}
}

func TestMustGetPanicsWhenMissing(t *testing.T) {
	r := New()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustGet[*fakeClock](r)
}

func TestOnInitAndOnShutdownRunInOrder(t *testing.T) {
	r := New()
	var order []string

	type first struct{ fakeClock }
	type second struct{ fakeClock }

	f := &first{fakeClock{name: "first", log: &order}}
	s := &second{fakeClock{name: "second", log: &order}}
	Register[*first](r, f)
	Register[*second](r, s)

	r.OnInit()
	if !f.inited || !s.inited {
		t.Fatal("expected both injects to be initialized")
	}

	r.OnShutdown()
	if !f.shutdown || !s.shutdown {
		t.Fatal("expected both injects to be shut down")
	}

	want := []string{"init:first", "init:second", "shutdown:second", "shutdown:first"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestHasAndLen(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got len %d", r.Len())
	}
	Register(r, "value")
	if !Has[string](r) {
		t.Fatal("expected Has to report true")
	}
	if r.Len() != 1 {
		t.Fatalf("expected len 1, got %d", r.Len())
	}
}
