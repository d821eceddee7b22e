// Package store menyediakan akses ke remote document store: kumpulan
// koleksi berisi dokumen JSON dengan id string opaque.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound dikembalikan ketika dokumen tidak ada.
	ErrNotFound = errors.New("store: document not found")
	// ErrConflict dikembalikan ketika id dokumen sudah dipakai.
	ErrConflict = errors.New("store: duplicate document id")
	// ErrOrderUnsupported dikembalikan implementasi yang tidak mendukung
	// order-by di sisi server; pemanggil harus fallback ke fetch tanpa
	// urutan lalu sort sendiri.
	ErrOrderUnsupported = errors.New("store: server-side ordering not supported")
)

// Document adalah satu dokumen mentah dari store.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Decode meng-unmarshal payload dokumen ke out.
func (d Document) Decode(out any) error {
	return json.Unmarshal(d.Data, out)
}

// Where adalah filter kesetaraan satu field (whereEquals).
type Where struct {
	Field string
	Value string
}

// Store adalah kontrak remote document store. Semua operasi tulis
// bergaya read-modify-write tanpa versi: penulis terakhir menang.
type Store interface {
	// ListAll mengambil seluruh isi koleksi.
	ListAll(ctx context.Context, collection string) ([]Document, error)

	// Query mengambil dokumen yang cocok dengan where. orderBy boleh
	// kosong; implementasi boleh mengembalikan ErrOrderUnsupported
	// untuk orderBy yang tidak didukung.
	Query(ctx context.Context, collection string, where Where, orderBy string) ([]Document, error)

	// GetByID mengambil satu dokumen. ErrNotFound jika tidak ada.
	GetByID(ctx context.Context, collection, id string) (Document, error)

	// Create menyimpan dokumen baru dengan id yang dibuat store dan
	// mengembalikan id tersebut.
	Create(ctx context.Context, collection string, doc any) (string, error)

	// CreateWithID menyimpan dokumen baru dengan id dari pemanggil.
	// ErrConflict jika id sudah ada.
	CreateWithID(ctx context.Context, collection, id string, doc any) error

	// OverwriteAll mengganti seluruh isi koleksi: hapus semua dokumen
	// lama lalu tulis docs, dalam satu transaksi. Tidak ada pengecekan
	// versi; dua penulis bersamaan saling menimpa (last writer wins).
	OverwriteAll(ctx context.Context, collection string, docs map[string]any) error

	// UpdateFields menimpa sebagian field dokumen.
	UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error

	// DeleteByID menghapus satu dokumen. ErrNotFound jika tidak ada.
	DeleteByID(ctx context.Context, collection, id string) error
}

// Nama koleksi yang dipakai aplikasi.
const (
	ColUsers    = "users"
	ColTasks    = "tasks"
	ColOrigins  = "origins"
	ColHolidays = "holidays"
	ColTodos    = "todos"
)
