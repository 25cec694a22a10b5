package config

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

func TestGodotenvQuotedLists(t *testing.T) {
	content := "P_BUY_BY_YEAR=\"0.02, 0.01\"\nSTORE_IDS='7,8'\n"
	tmpfile, err := os.CreateTemp("", ".env.test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(tmpfile.Name())
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	probs, err := ParseFloats(env["P_BUY_BY_YEAR"])
	if err != nil {
		t.Fatalf("Error parsing P_BUY_BY_YEAR: %v", err)
	}
	if len(probs) != 2 || probs[0] != 0.02 || probs[1] != 0.01 {
		t.Errorf("Expected [0.02 0.01], got %v", probs)
	}

	stores, err := ParseInt64s(env["STORE_IDS"])
	if err != nil {
		t.Fatalf("Error parsing STORE_IDS: %v", err)
	}
	if len(stores) != 2 || stores[0] != 7 || stores[1] != 8 {
		t.Errorf("Expected [7 8], got %v", stores)
	}
}
