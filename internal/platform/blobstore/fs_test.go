package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func newFSStore(t *testing.T) *FSBlobStore {
	t.Helper()
	s, err := NewFSBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSBlobStore: %v", err)
	}
	return s
}

func TestFSBlobStore_RoundTrip(t *testing.T) {
	store := newFSStore(t)
	content := "signed consent form"

	uploaded := seedBlob(t, store, "OSCC_MainCA-001", "consent-form", "consent.pdf", "application/pdf", content)

	rc, meta, err := store.Download(context.Background(), uploaded.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("reading content: %v", err)
	}
	if string(data) != content {
		t.Errorf("content round-trip: got %q", data)
	}
	if meta.FileName != "consent.pdf" || meta.SubjectID != "OSCC_MainCA-001" {
		t.Errorf("metadata round-trip: %+v", meta)
	}
	if meta.Hash != uploaded.Hash {
		t.Errorf("hash mismatch: %s vs %s", meta.Hash, uploaded.Hash)
	}
}

func TestFSBlobStore_DeleteAndNotFound(t *testing.T) {
	store := newFSStore(t)
	uploaded := seedBlob(t, store, "p1", "other", "temp.txt", "text/plain", "x")

	if err := store.Delete(context.Background(), uploaded.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetMetadata(context.Background(), uploaded.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound after delete, got %v", err)
	}
	if err := store.Delete(context.Background(), uploaded.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound on double delete, got %v", err)
	}
	if _, _, err := store.Download(context.Background(), "no-such-id"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestFSBlobStore_ListBySubject(t *testing.T) {
	store := newFSStore(t)
	seedBlob(t, store, "CLIN-0001", "clinical-image", "img1.png", "image/png", "a")
	seedBlob(t, store, "CLIN-0001", "voice-note", "note.mp3", "audio/mpeg", "b")
	seedBlob(t, store, "CLIN-0002", "clinical-image", "img2.png", "image/png", "c")

	items, total, err := store.ListBySubject(context.Background(), "CLIN-0001", "", 10, 0)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 blobs for CLIN-0001, got total=%d len=%d", total, len(items))
	}

	items, total, err = store.ListBySubject(context.Background(), "CLIN-0001", "voice-note", 10, 0)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if total != 1 || items[0].FileName != "note.mp3" {
		t.Errorf("category filter failed: total=%d items=%v", total, items)
	}
}

func TestFSBlobStore_MissingFileName(t *testing.T) {
	store := newFSStore(t)
	_, err := store.Upload(context.Background(), BlobMetadata{}, strings.NewReader("x"))
	if !errors.Is(err, ErrMissingFileName) {
		t.Errorf("expected ErrMissingFileName, got %v", err)
	}
}
