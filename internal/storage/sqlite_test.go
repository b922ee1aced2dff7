package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "profile.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, dbPath
}

func TestStoreOpenClose(t *testing.T) {
	_, dbPath := openTemp(t)

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNameRoundTrip(t *testing.T) {
	store, dbPath := openTemp(t)

	name, err := store.Name()
	if err != nil || name != "" {
		t.Fatalf("Name() on fresh store = %q, %v", name, err)
	}

	if err := store.SaveName("  Ann  "); err != nil {
		t.Fatalf("SaveName() failed: %v", err)
	}
	if err := store.SaveName("   "); err == nil {
		t.Error("SaveName() should reject a blank name")
	}

	// Survives reopening
	store.Close()
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if name, err := store.Name(); err != nil || name != "Ann" {
		t.Errorf("Name() = %q, %v; expected Ann", name, err)
	}
}

func TestSettings(t *testing.T) {
	store, _ := openTemp(t)

	if _, ok, err := store.Setting(KeyCodec); ok || err != nil {
		t.Errorf("unset key reported ok=%v err=%v", ok, err)
	}

	if err := store.SetSetting(KeyCodec, "json"); err != nil {
		t.Fatalf("SetSetting() failed: %v", err)
	}
	if err := store.SetSetting(KeyCodec, "msgpack"); err != nil {
		t.Fatalf("SetSetting() overwrite failed: %v", err)
	}
	if v, ok, err := store.Setting(KeyCodec); err != nil || !ok || v != "msgpack" {
		t.Errorf("Setting() = %q, %v, %v", v, ok, err)
	}

	if err := store.SetSetting("", "x"); err == nil {
		t.Error("SetSetting() should reject an empty key")
	}
}

func TestRecentRooms(t *testing.T) {
	store, _ := openTemp(t)

	rooms := []struct {
		id     string
		hosted bool
	}{
		{"aaaa1111", true},
		{"bbbb2222", false},
		{"cccc3333", false},
	}
	for _, r := range rooms {
		if err := store.RememberRoom(r.id, "ws://relay", r.hosted); err != nil {
			t.Fatalf("RememberRoom(%s) failed: %v", r.id, err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	// Touching a room again moves it to the front.
	if err := store.RememberRoom("aaaa1111", "ws://relay", true); err != nil {
		t.Fatalf("RememberRoom() failed: %v", err)
	}

	got, err := store.RecentRooms(2)
	if err != nil {
		t.Fatalf("RecentRooms() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(got))
	}
	if got[0].RoomID != "aaaa1111" || !got[0].Hosted {
		t.Errorf("most recent = %+v, expected hosted aaaa1111", got[0])
	}
	if got[1].RoomID != "cccc3333" {
		t.Errorf("second = %s, expected cccc3333", got[1].RoomID)
	}
	if got[0].LastUsed.IsZero() {
		t.Error("LastUsed was not parsed")
	}

	if err := store.RememberRoom("", "", false); err == nil {
		t.Error("RememberRoom() should reject an empty id")
	}
}
