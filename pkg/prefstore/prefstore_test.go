package prefstore

import "testing"

func TestStore_RoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if _, found, err := s.GetString("timezone"); err != nil || found {
		t.Fatalf("missing key got found=%v err=%v", found, err)
	}

	if err := s.SetString("timezone", "Asia/Jerusalem"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, found, err := s.GetString("timezone")
	if err != nil || !found || v != "Asia/Jerusalem" {
		t.Fatalf("get got=%q found=%v err=%v", v, found, err)
	}

	// 覆盖写
	if err := s.SetString("timezone", "UTC"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = s.GetString("timezone")
	if v != "UTC" {
		t.Fatalf("after overwrite got=%q", v)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("empty path should fail")
	}
}
