package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestDiskCache_Path(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk[string]("sessions", time.Minute, Options{Dir: dir})
	if got, want := d.Path(), filepath.Join(dir, "sessions.cache"); got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
	if got := d.Filename(); got != "sessions" {
		t.Fatalf("Filename() = %q, want sessions", got)
	}
}

func TestDiskCache_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := map[string]string{"a": "alpha", "b": "beta", "c": "gamma"}

	d := NewDisk[string]("roundtrip", time.Hour, Options{Dir: dir})
	for k, v := range want {
		d.Set(k, v)
	}
	if err := d.SaveToDisk(); err != nil {
		t.Fatalf("save: %v", err)
	}
	d = nil

	fresh := NewDisk[string]("roundtrip", time.Hour, Options{Dir: dir})
	if err := fresh.LoadFromDisk(); err != nil {
		t.Fatalf("load: %v", err)
	}
	for k, v := range want {
		got, ok := fresh.Value(k)
		if !ok || got != v {
			t.Fatalf("Value(%q) = %q, %v; want %q, true", k, got, ok, v)
		}
	}
}

type profile struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

func TestDiskCache_StructValues(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk[profile]("profiles", time.Hour, Options{Dir: dir})
	d.Set("42", profile{Name: "ada", Roles: []string{"admin", "dev"}})
	if err := d.SaveToDisk(); err != nil {
		t.Fatalf("save: %v", err)
	}

	fresh := NewDisk[profile]("profiles", time.Hour, Options{Dir: dir})
	if err := fresh.LoadFromDisk(); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, ok := fresh.Value("42")
	if !ok || got.Name != "ada" || !slices.Equal(got.Roles, []string{"admin", "dev"}) {
		t.Fatalf("Value(42) = %+v, %v", got, ok)
	}
}

func TestDiskCache_LoadKeepsSavedExpiry(t *testing.T) {
	dir := t.TempDir()
	clock := newFakeClock()

	d := NewDisk[string]("expiry", time.Minute, Options{Dir: dir, Clock: clock.Now})
	d.Set("old", "stale")
	clock.Advance(2 * time.Minute)
	d.Set("new", "fresh")
	if err := d.SaveToDisk(); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := ReadSnapshot[string](d.Path())
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("snapshot has %d entries, want 2 (expired entries are saved)", len(entries))
	}

	// A longer interval on the new instance must not extend saved entries.
	fresh := NewDisk[string]("expiry", 24*time.Hour, Options{Dir: dir, Clock: clock.Now})
	if err := fresh.LoadFromDisk(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := fresh.Len(); got != 2 {
		t.Fatalf("Len() after load = %d, want 2", got)
	}
	if _, ok := fresh.Value("old"); ok {
		t.Fatalf("expected old to stay expired after load")
	}
	if v, ok := fresh.Value("new"); !ok || v != "fresh" {
		t.Fatalf("Value(new) = %q, %v; want fresh, true", v, ok)
	}

	clock.Advance(time.Minute + time.Second)
	if _, ok := fresh.Value("new"); ok {
		t.Fatalf("expected new to expire at its saved timestamp")
	}
}

func TestDiskCache_SaveSkipsEvictedKeys(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk[string]("bounded", time.Hour, Options{Dir: dir, Capacity: 2})
	d.Set("a", "A")
	d.Set("b", "B")
	d.Set("c", "C")
	if err := d.SaveToDisk(); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := ReadSnapshot[string](d.Path())
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var keys []string
	for _, e := range entries {
		keys = append(keys, e.Key())
	}
	if want := []string{"b", "c"}; !slices.Equal(keys, want) {
		t.Fatalf("snapshot keys = %v, want %v", keys, want)
	}
}

func TestDiskCache_SnapshotFormat(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk[string]("format", time.Hour, Options{Dir: dir})
	d.Set("k", "v")
	if err := d.SaveToDisk(); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(d.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("snapshot is not a JSON array: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	for _, field := range []string{"key", "value", "expiredTimestamp"} {
		if _, ok := records[0][field]; !ok {
			t.Fatalf("record is missing %q: %s", field, data)
		}
	}
	ts, _ := records[0]["expiredTimestamp"].(string)
	if _, err := time.Parse(time.RFC3339Nano, ts); err != nil {
		t.Fatalf("expiredTimestamp %q is not RFC 3339: %v", ts, err)
	}

	ik := bytes.Index(data, []byte(`"key"`))
	iv := bytes.Index(data, []byte(`"value"`))
	ie := bytes.Index(data, []byte(`"expiredTimestamp"`))
	if !(ik < iv && iv < ie) {
		t.Fatalf("fields out of order: %s", data)
	}
}

func TestDiskCache_LoadMissingFile(t *testing.T) {
	d := NewDisk[string]("absent", time.Hour, Options{Dir: t.TempDir()})
	d.Set("keep", "me")

	err := d.LoadFromDisk()
	if !errors.Is(err, ErrSnapshotIO) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("LoadFromDisk() error = %v, want ErrSnapshotIO wrapping fs.ErrNotExist", err)
	}
	if got, want := d.Keys(), []string{"keep"}; !slices.Equal(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}

func TestDiskCache_LoadMalformedFileInstallsNothing(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk[string]("broken", time.Hour, Options{Dir: dir})
	d.Set("keep", "me")

	if err := os.WriteFile(d.Path(), []byte(`[{"key":"x","value":"y","expiredTimestamp":"2026-01-01T00:00:00Z"},{"key":`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := d.LoadFromDisk()
	if !errors.Is(err, ErrSnapshotDecode) {
		t.Fatalf("LoadFromDisk() error = %v, want ErrSnapshotDecode", err)
	}
	if got, want := d.Keys(), []string{"keep"}; !slices.Equal(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
}

func TestDiskCache_LoadWrongValueType(t *testing.T) {
	dir := t.TempDir()
	src := NewDisk[string]("typed", time.Hour, Options{Dir: dir})
	src.Set("k", "not a number")
	if err := src.SaveToDisk(); err != nil {
		t.Fatalf("save: %v", err)
	}

	dst := NewDisk[int]("typed", time.Hour, Options{Dir: dir})
	if err := dst.LoadFromDisk(); !errors.Is(err, ErrSnapshotDecode) {
		t.Fatalf("LoadFromDisk() error = %v, want ErrSnapshotDecode", err)
	}
	if got := dst.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestDiskCache_FailedSaveKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk[chan int]("unencodable", time.Hour, Options{Dir: dir})
	if err := d.SaveToDisk(); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	before, err := os.ReadFile(d.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	d.Set("ch", make(chan int))
	if err := d.SaveToDisk(); !errors.Is(err, ErrSnapshotEncode) {
		t.Fatalf("SaveToDisk() error = %v, want ErrSnapshotEncode", err)
	}

	after, err := os.ReadFile(d.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("snapshot changed after failed save: %s -> %s", before, after)
	}
	if _, ok := d.Value("ch"); !ok {
		t.Fatalf("expected in-memory entry to survive a failed save")
	}

	tmp, _ := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	if len(tmp) != 0 {
		t.Fatalf("temporary files left behind: %v", tmp)
	}
}

func TestDiskCache_SaveReplacesWholeFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk[string]("replace", time.Hour, Options{Dir: dir})
	d.Set("a", "A")
	d.Set("b", "B")
	if err := d.SaveToDisk(); err != nil {
		t.Fatalf("save: %v", err)
	}

	d.RemoveValue("a")
	if err := d.SaveToDisk(); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := ReadSnapshot[string](d.Path())
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if len(entries) != 1 || entries[0].Key() != "b" {
		t.Fatalf("snapshot = %v, want only b", entries)
	}
}

func TestDefaultSnapshotPath(t *testing.T) {
	got := SnapshotPath("", "x")
	if want := filepath.Join(DefaultDir(), "x.cache"); got != want {
		t.Fatalf("SnapshotPath() = %q, want %q", got, want)
	}
}
