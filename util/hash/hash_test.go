package hash

import "testing"

func TestHashAndCheck(t *testing.T) {
	h, err := HashPassword("supersecret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "supersecret" {
		t.Fatal("hash equals plaintext")
	}
	if !Check(h, "supersecret") {
		t.Fatal("check rejected correct password")
	}
	if Check(h, "wrong") {
		t.Fatal("check accepted wrong password")
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("samepw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("samepw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password are identical")
	}
}
