// Package repository membungkus store dokumen menjadi akses koleksi
// bertipe: users, tasks (TaskSet per user), origins, holidays.
// Pola tulisnya mengikuti store: baca koleksi penuh, ubah di memori,
// tulis balik seluruhnya (last writer wins).
package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"worklog-go/internal/config"
	"worklog-go/internal/models"
	"worklog-go/internal/store"

	"github.com/google/uuid"
)

const cacheTTL = time.Hour

// --- cache helper (Redis opsional; nil saat testing) ---

func cacheGet(ctx context.Context, key string, out any) bool {
	if config.RedisClient == nil {
		return false
	}
	cached, err := config.RedisClient.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(cached), out) == nil
}

func cacheSet(ctx context.Context, key string, val any) {
	if config.RedisClient == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	config.RedisClient.SetEX(ctx, key, raw, cacheTTL)
}

func cacheDel(ctx context.Context, keys ...string) {
	if config.RedisClient == nil || len(keys) == 0 {
		return
	}
	config.RedisClient.Del(ctx, keys...)
}

// --- Users ---

func GetUsers(ctx context.Context) (map[string]models.User, error) {
	docs, err := config.Store.ListAll(ctx, store.ColUsers)
	if err != nil {
		return nil, err
	}
	users := map[string]models.User{}
	for _, doc := range docs {
		var user models.User
		if err := doc.Decode(&user); err != nil {
			return nil, err
		}
		users[doc.ID] = user
	}
	return users, nil
}

func GetUser(ctx context.Context, username string) (models.User, error) {
	cacheKey := "user:" + username
	var user models.User
	if cacheGet(ctx, cacheKey, &user) {
		return user, nil
	}
	doc, err := config.Store.GetByID(ctx, store.ColUsers, username)
	if err != nil {
		return models.User{}, err
	}
	if err := doc.Decode(&user); err != nil {
		return models.User{}, err
	}
	cacheSet(ctx, cacheKey, user)
	return user, nil
}

// SaveUsers menimpa seluruh koleksi users dan membuang cache per user.
func SaveUsers(ctx context.Context, users map[string]models.User) error {
	docs := map[string]any{}
	keys := []string{}
	for username, user := range users {
		docs[username] = user
		keys = append(keys, "user:"+username)
	}
	if err := config.Store.OverwriteAll(ctx, store.ColUsers, docs); err != nil {
		return err
	}
	cacheDel(ctx, keys...)
	return nil
}

// InvalidateUser membuang cache satu user (dipakai saat rename/hapus).
func InvalidateUser(ctx context.Context, username string) {
	cacheDel(ctx, "user:"+username, "taskset:"+username)
}

// --- Task sets ---

func GetTaskSets(ctx context.Context) (map[string]models.TaskSet, error) {
	docs, err := config.Store.ListAll(ctx, store.ColTasks)
	if err != nil {
		return nil, err
	}
	sets := map[string]models.TaskSet{}
	for _, doc := range docs {
		var ts models.TaskSet
		if err := doc.Decode(&ts); err != nil {
			return nil, err
		}
		ts.EnsureStructure()
		sets[doc.ID] = ts
	}
	return sets, nil
}

func GetTaskSet(ctx context.Context, username string) (models.TaskSet, error) {
	cacheKey := "taskset:" + username
	var ts models.TaskSet
	if cacheGet(ctx, cacheKey, &ts) {
		ts.EnsureStructure()
		return ts, nil
	}
	doc, err := config.Store.GetByID(ctx, store.ColTasks, username)
	if err == store.ErrNotFound {
		ts.EnsureStructure()
		return ts, nil
	}
	if err != nil {
		return models.TaskSet{}, err
	}
	if err := doc.Decode(&ts); err != nil {
		return models.TaskSet{}, err
	}
	ts.EnsureStructure()
	cacheSet(ctx, cacheKey, ts)
	return ts, nil
}

func SaveTaskSets(ctx context.Context, sets map[string]models.TaskSet) error {
	docs := map[string]any{}
	keys := []string{}
	for username, ts := range sets {
		docs[username] = ts
		keys = append(keys, "taskset:"+username)
	}
	if err := config.Store.OverwriteAll(ctx, store.ColTasks, docs); err != nil {
		return err
	}
	cacheDel(ctx, keys...)
	return nil
}

// SaveTaskSet mengganti TaskSet satu user dengan pola baca-semua lalu
// timpa-semua milik store.
func SaveTaskSet(ctx context.Context, username string, ts models.TaskSet) error {
	sets, err := GetTaskSets(ctx)
	if err != nil {
		return err
	}
	sets[username] = ts
	return SaveTaskSets(ctx, sets)
}

// EnsureTaskStructure adalah pass perbaikan: setiap user harus punya
// tepat satu TaskSet dengan today/archive yang tidak nil.
func EnsureTaskStructure(ctx context.Context) error {
	users, err := GetUsers(ctx)
	if err != nil {
		return err
	}
	sets, err := GetTaskSets(ctx)
	if err != nil {
		return err
	}
	changed := false
	for username := range users {
		ts, ok := sets[username]
		if !ok {
			ts = models.TaskSet{}
			changed = true
		}
		if ts.EnsureStructure() {
			changed = true
		}
		sets[username] = ts
	}
	if !changed {
		return nil
	}
	return SaveTaskSets(ctx, sets)
}

// EnsureIDs mengisi id uuid yang masih kosong pada user dan task
// (shim migrasi untuk data lama yang belum punya id).
func EnsureIDs(ctx context.Context) error {
	users, err := GetUsers(ctx)
	if err != nil {
		return err
	}
	usersChanged := false
	for username, user := range users {
		if user.ID == "" {
			user.ID = uuid.NewString()
			users[username] = user
			usersChanged = true
		}
	}
	if usersChanged {
		if err := SaveUsers(ctx, users); err != nil {
			return err
		}
	}

	sets, err := GetTaskSets(ctx)
	if err != nil {
		return err
	}
	tasksChanged := false
	for username, ts := range sets {
		for i := range ts.Today {
			if ts.Today[i].ID == "" {
				ts.Today[i].ID = uuid.NewString()
				tasksChanged = true
			}
		}
		for _, arr := range ts.Archive {
			for i := range arr {
				if arr[i].ID == "" {
					arr[i].ID = uuid.NewString()
					tasksChanged = true
				}
			}
		}
		sets[username] = ts
	}
	if !tasksChanged {
		return nil
	}
	return SaveTaskSets(ctx, sets)
}

// --- Origins ---

func GetOrigins(ctx context.Context) ([]models.Origin, error) {
	docs, err := config.Store.ListAll(ctx, store.ColOrigins)
	if err != nil {
		return nil, err
	}
	origins := []models.Origin{}
	for _, doc := range docs {
		var origin models.Origin
		if err := doc.Decode(&origin); err != nil {
			return nil, err
		}
		origins = append(origins, origin)
	}
	return origins, nil
}

// ActiveOrigins mengembalikan origin yang belum diarsip (untuk pilihan
// task baru).
func ActiveOrigins(ctx context.Context) ([]models.Origin, error) {
	origins, err := GetOrigins(ctx)
	if err != nil {
		return nil, err
	}
	active := origins[:0]
	for _, origin := range origins {
		if !origin.Archived {
			active = append(active, origin)
		}
	}
	return active, nil
}

func SaveOrigins(ctx context.Context, origins []models.Origin) error {
	docs := map[string]any{}
	for _, origin := range origins {
		docs[origin.Value] = origin
	}
	return config.Store.OverwriteAll(ctx, store.ColOrigins, docs)
}

// RenameOrigin mengganti value origin dan menulis ulang field origin
// yang denormalized di seluruh task semua user.
func RenameOrigin(ctx context.Context, oldValue, newValue string) error {
	newValue = strings.TrimSpace(newValue)
	if newValue == "" || newValue == oldValue {
		return nil
	}
	origins, err := GetOrigins(ctx)
	if err != nil {
		return err
	}
	found := -1
	for i, origin := range origins {
		if origin.Value == newValue {
			return store.ErrConflict
		}
		if origin.Value == oldValue {
			found = i
		}
	}
	if found < 0 {
		return store.ErrNotFound
	}

	// Rewrite semua task yang masih menunjuk value lama
	sets, err := GetTaskSets(ctx)
	if err != nil {
		return err
	}
	for username, ts := range sets {
		for i := range ts.Today {
			if ts.Today[i].Origin == oldValue {
				ts.Today[i].Origin = newValue
			}
		}
		for _, arr := range ts.Archive {
			for i := range arr {
				if arr[i].Origin == oldValue {
					arr[i].Origin = newValue
				}
			}
		}
		sets[username] = ts
	}
	if err := SaveTaskSets(ctx, sets); err != nil {
		return err
	}

	origins[found].Value = newValue
	return SaveOrigins(ctx, origins)
}

// --- Holidays ---

func GetHolidays(ctx context.Context) ([]models.Holiday, error) {
	docs, err := config.Store.ListAll(ctx, store.ColHolidays)
	if err != nil {
		return nil, err
	}
	holidays := []models.Holiday{}
	for _, doc := range docs {
		var holiday models.Holiday
		if err := doc.Decode(&holiday); err != nil {
			return nil, err
		}
		holidays = append(holidays, holiday)
	}
	return holidays, nil
}

func SaveHolidays(ctx context.Context, holidays []models.Holiday) error {
	docs := map[string]any{}
	for _, holiday := range holidays {
		docs[holiday.StorageID()] = holiday
	}
	return config.Store.OverwriteAll(ctx, store.ColHolidays, docs)
}

// HolidaysForDate mencari holiday untuk satu tanggal. Holiday dengan
// repeat cocok berdasarkan bulan/tanggal saja.
func HolidaysForDate(ctx context.Context, dateStr string) ([]models.Holiday, error) {
	holidays, err := GetHolidays(ctx)
	if err != nil {
		return nil, err
	}
	matched := []models.Holiday{}
	for _, holiday := range holidays {
		if holiday.Repeat {
			if len(holiday.Date) == 10 && len(dateStr) == 10 && holiday.Date[5:] == dateStr[5:] {
				matched = append(matched, holiday)
			}
		} else if holiday.Date == dateStr {
			matched = append(matched, holiday)
		}
	}
	return matched, nil
}
