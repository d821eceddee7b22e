// Package backup melakukan ekspor dan impor data task per user dalam
// format JSON, plus zip untuk semua user sekaligus.
package backup

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"worklog-go/internal/models"
	"worklog-go/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrUserMismatch = errors.New("backup belongs to a different user")
	ErrBadFormat    = errors.New("unrecognized backup format")
)

// Snapshot adalah isi satu file backup: identitas pemilik plus seluruh
// tasknya.
type Snapshot struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
	Tasks models.TaskSet `json:"tasks"`
}

func NewSnapshot(user models.User, ts models.TaskSet) Snapshot {
	var snap Snapshot
	snap.User.ID = user.ID
	snap.User.Username = user.Username
	ts.EnsureStructure()
	snap.Tasks = ts
	return snap
}

// ExportUser menghasilkan JSON backup satu user.
func ExportUser(user models.User, ts models.TaskSet) ([]byte, error) {
	return json.MarshalIndent(NewSnapshot(user, ts), "", "  ")
}

// ExportAllZip mengemas backup semua user menjadi zip berisi satu
// <username>.json per user.
func ExportAllZip(users map[string]models.User, sets map[string]models.TaskSet) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for username, user := range users {
		data, err := ExportUser(user, sets[username])
		if err != nil {
			return nil, err
		}
		fw, err := zw.Create(username + ".json")
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseSnapshot membaca dan memvalidasi satu file backup.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, ErrBadFormat
	}
	if snap.User.Username == "" {
		return Snapshot{}, ErrBadFormat
	}
	snap.Tasks.EnsureStructure()
	return snap, nil
}

// ImportUser menerapkan backup ke user yang sedang login. Impor ditolak
// kalau id pemilik backup tidak sama. overwrite mengganti seluruh task;
// selain itu backup digabungkan (merge).
func ImportUser(user models.User, current models.TaskSet, data []byte, overwrite bool) (models.TaskSet, error) {
	snap, err := ParseSnapshot(data)
	if err != nil {
		return models.TaskSet{}, err
	}
	if snap.User.ID == "" || snap.User.ID != user.ID {
		return models.TaskSet{}, ErrUserMismatch
	}
	if overwrite {
		return snap.Tasks, nil
	}
	MergeTaskSet(&current, snap.Tasks)
	return current, nil
}

// MergeTaskSet menambahkan hanya task yang id-nya belum ada, ke bucket
// yang sama dengan asalnya.
func MergeTaskSet(dst *models.TaskSet, src models.TaskSet) {
	dst.EnsureStructure()
	have := dst.TaskIDs()
	for _, task := range src.Today {
		if task.ID == "" || !have[task.ID] {
			dst.Today = append(dst.Today, task)
		}
	}
	for date, tasks := range src.Archive {
		for _, task := range tasks {
			if task.ID == "" || !have[task.ID] {
				dst.Archive[date] = append(dst.Archive[date], task)
			}
		}
	}
}

// Action adalah keputusan impor per user.
type Action string

const (
	ActionCreate    Action = "create"
	ActionOverwrite Action = "overwrite"
	ActionMerge     Action = "merge"
	ActionSkip      Action = "skip"
)

// Decider memilih Action untuk satu nama user, diberi tahu apakah
// usernya sudah ada.
type Decider func(username string, exists bool) Action

// Outcome melaporkan hasil impor satu user.
type Outcome struct {
	Username string `json:"username"`
	Action   Action `json:"action"`
	Error    string `json:"error,omitempty"`
}

// ImportAll menerapkan arsip multi user (zip berisi *.json, atau satu
// JSON tunggal) langsung ke map users dan sets. File yang rusak dicatat
// lalu dilewati, impor jalan terus.
func ImportAll(users map[string]models.User, sets map[string]models.TaskSet, data []byte, decide Decider) []Outcome {
	snaps := readSnapshots(data)
	outcomes := []Outcome{}
	for _, entry := range snaps {
		if entry.err != nil {
			logger.ErrorLogger.Warn("Lewati file backup rusak",
				zap.String("file", entry.name), zap.Error(entry.err))
			outcomes = append(outcomes, Outcome{Username: entry.name, Action: ActionSkip, Error: entry.err.Error()})
			continue
		}
		snap := entry.snap
		username := snap.User.Username
		_, exists := users[username]
		action := decide(username, exists)
		switch action {
		case ActionCreate:
			if exists {
				outcomes = append(outcomes, Outcome{Username: username, Action: ActionSkip, Error: "user already exists"})
				continue
			}
			// User baru dibuat tanpa password; admin harus menyetel
			// password sebelum user bisa login.
			users[username] = models.User{ID: snap.User.ID, Username: username}
			sets[username] = snap.Tasks
		case ActionOverwrite:
			if !exists {
				outcomes = append(outcomes, Outcome{Username: username, Action: ActionSkip, Error: "user not found"})
				continue
			}
			sets[username] = snap.Tasks
		case ActionMerge:
			if !exists {
				outcomes = append(outcomes, Outcome{Username: username, Action: ActionSkip, Error: "user not found"})
				continue
			}
			current := sets[username]
			MergeTaskSet(&current, snap.Tasks)
			sets[username] = current
		default:
			action = ActionSkip
		}
		outcomes = append(outcomes, Outcome{Username: username, Action: action})
	}
	return outcomes
}

type snapEntry struct {
	name string
	snap Snapshot
	err  error
}

func readSnapshots(data []byte) []snapEntry {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		// Bukan zip, coba sebagai satu file JSON
		snap, perr := ParseSnapshot(data)
		return []snapEntry{{name: snap.User.Username, snap: snap, err: perr}}
	}
	entries := []snapEntry{}
	for _, file := range zr.File {
		if !strings.HasSuffix(file.Name, ".json") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			entries = append(entries, snapEntry{name: file.Name, err: err})
			continue
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			entries = append(entries, snapEntry{name: file.Name, err: err})
			continue
		}
		snap, err := ParseSnapshot(raw)
		entries = append(entries, snapEntry{name: strings.TrimSuffix(file.Name, ".json"), snap: snap, err: err})
	}
	return entries
}
