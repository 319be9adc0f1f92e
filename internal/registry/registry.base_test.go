package registry

import (
	"sync"
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("a", 1)
	if err != nil || !isNew {
		t.Fatalf("Register mới: isNew=%v err=%v", isNew, err)
	}

	isNew, err = r.Register("a", 2)
	if err != nil || isNew {
		t.Fatalf("Register ghi đè: isNew=%v err=%v", isNew, err)
	}

	if v, exists := r.Get("a"); !exists || v != 2 {
		t.Errorf("Get(a) = %v %v, muốn 2 true", v, exists)
	}
	if _, exists := r.Get("b"); exists {
		t.Error("Get(b) phải trả exists=false")
	}

	if _, err := r.Register("", 3); err == nil {
		t.Error("Register với name rỗng phải trả lỗi")
	}
}

func TestRegistry_KeysSorted(t *testing.T) {
	r := NewRegistry[string]()
	for _, k := range []string{"c", "a", "b"} {
		r.Register(k, k)
	}
	keys := r.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Keys = %v, muốn [a b c]", keys)
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d, muốn 3", r.Len())
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.Register("k", n)
		}(i)
		go func() {
			defer wg.Done()
			r.Get("k")
			r.Keys()
		}()
	}
	wg.Wait()
	if r.Len() != 1 {
		t.Errorf("Len = %d, muốn 1", r.Len())
	}
}
