package dbtypes

import "testing"

func TestStringListScanFormats(t *testing.T) {
	var l StringList
	if err := l.Scan([]byte(`["a","b"]`)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if len(l) != 2 || l[1] != "b" {
		t.Fatalf("unexpected list %v", l)
	}
	if err := l.Scan(nil); err != nil || l != nil {
		t.Fatalf("expected nil list, got %v err=%v", l, err)
	}
	if err := l.Scan(42); err == nil {
		t.Fatal("expected unsupported type error")
	}
	if err := l.Scan("not json"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestStringListValue(t *testing.T) {
	v, err := StringList{"https://x/a.png"}.Value()
	if err != nil || v != `["https://x/a.png"]` {
		t.Fatalf("unexpected value %v err=%v", v, err)
	}
	v, err = StringList(nil).Value()
	if err != nil || v != nil {
		t.Fatalf("expected NULL, got %v", v)
	}
}
